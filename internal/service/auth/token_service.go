package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 24 * time.Hour

// minSecretLength is the shortest signing secret accepted.
const minSecretLength = 32

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// Issue returns a signed token embedding the identity, issued now and
	// expiring TokenLifetime later.
	Issue(ctx context.Context, identity domain.Identity) (string, error)

	// Verify checks the signature, then the expiry, and returns the embedded
	// identity. Failures are ErrInvalidSignature, ErrExpiredToken or
	// ErrMalformedToken.
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// hmacTokenService is an implementation of TokenService using HMAC-SHA256 signing.
type hmacTokenService struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

// tokenClaims is the wire form of a token payload.
type tokenClaims struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	UserEmail string `json:"userEmail"`
	jwt.RegisteredClaims
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService signing with cfg.JWTSecret.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	return newHMACTokenService(cfg.JWTSecret, time.Now)
}

// NewTokenServiceWithClock is NewTokenService with an injected clock.
func NewTokenServiceWithClock(secret string, now func() time.Time) (TokenService, error) {
	return newHMACTokenService(secret, now)
}

func newHMACTokenService(secret string, now func() time.Time) (*hmacTokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if now == nil {
		now = time.Now
	}
	return &hmacTokenService{
		signingKey: []byte(secret),
		lifetime:   TokenLifetime,
		timeFunc:   now,
	}, nil
}

// Issue implements TokenService.
func (s *hmacTokenService) Issue(ctx context.Context, identity domain.Identity) (string, error) {
	log := logger.FromContext(ctx)

	if identity.ID <= 0 {
		return "", ErrInvalidIdentity
	}

	now := s.timeFunc()
	claims := tokenClaims{
		UserID:    identity.ID,
		Username:  identity.Username,
		UserEmail: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			"error", err,
			"user_id", identity.ID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signed, nil
}

// Verify implements TokenService.
func (s *hmacTokenService) Verify(ctx context.Context, tokenString string) (domain.Identity, error) {
	log := logger.FromContext(ctx)

	now := s.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		mapped := classifyParseError(err)
		log.Debug("token verification failed",
			"reason", mapped.Error(),
			"error_type", fmt.Sprintf("%T", err))
		return domain.Identity{}, mapped
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		log.Debug("token verification failed: claims carry no identity")
		return domain.Identity{}, ErrMalformedToken
	}

	return domain.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.UserEmail,
	}, nil
}

// classifyParseError maps jwt parser errors onto the package sentinels.
// The parser verifies the signature before any claim, so a forged expired
// token reports ErrInvalidSignature.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return ErrMalformedToken
	}
}
