package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskify-api/internal/api/shared"
	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/phrazzld/taskify-api/internal/service/auth"
)

// TokenCookieName is the cookie consulted when the Authorization header
// carries no bearer token.
const TokenCookieName = "token"

const (
	msgMissingToken = "Unauthorized - Missing token"
	msgInvalidToken = "Unauthorized - Invalid token"
)

type identityKey struct{}

// AuthMiddleware provides token authentication for routes.
type AuthMiddleware struct {
	tokens auth.TokenService
	logger *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{
		tokens: tokens,
		logger: log.With("component", "auth_middleware"),
	}
}

// Authenticate verifies the request token and attaches the caller's
// identity to the request context. The wrapped handler runs only for
// verified requests.
//
// A request without an Authorization header is rejected outright. When the
// header is present but holds no "Bearer <token>" pair, the token cookie is
// used instead.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		header, present := r.Header["Authorization"]
		if !present || len(header) == 0 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgMissingToken)
			return
		}

		token := bearerToken(header[0])
		if token == "" {
			if c, err := r.Cookie(TokenCookieName); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgMissingToken)
			return
		}

		identity, err := m.tokens.Verify(r.Context(), token)
		if err != nil {
			log.Debug("token rejected", "reason", err.Error())
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		ctx = logger.WithLogger(ctx, log.With("user_id", identity.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken returns the second field of an Authorization value whose
// first field is "Bearer" in any case, or "" when there is none.
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	if !ok || identity.ID <= 0 {
		return domain.Identity{}, false
	}
	return identity, true
}

// IdentityFromRequest is IdentityFromContext for the request's context.
func IdentityFromRequest(r *http.Request) (domain.Identity, bool) {
	return IdentityFromContext(r.Context())
}
