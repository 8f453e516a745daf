package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var (
	fixedTime    = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	testIdentity = domain.Identity{ID: 42, Username: "ada", Email: "ada@example.com"}
)

// newTestTokenService returns a service whose clock always reads at.
func newTestTokenService(t *testing.T, secret string, at time.Time) TokenService {
	t.Helper()
	svc, err := NewTokenServiceWithClock(secret, func() time.Time { return at })
	require.NoError(t, err)
	return svc
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(config.AuthConfig{JWTSecret: "short"})
	assert.ErrorContains(t, err, "at least 32 characters")

	svc, err := NewTokenService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestIssue(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(t, testSecret, fixedTime)

	t.Run("embeds identity and fixed window", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Issue(context.Background(), testIdentity)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims := &tokenClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)

		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "ada", claims.Username)
		assert.Equal(t, "ada@example.com", claims.UserEmail)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("payload carries no credential material", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Issue(context.Background(), testIdentity)
		require.NoError(t, err)

		fields := jwt.MapClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, fields)
		require.NoError(t, err)

		names := make([]string, 0, len(fields))
		for k := range fields {
			names = append(names, k)
		}
		assert.ElementsMatch(t, []string{"userId", "username", "userEmail", "iat", "exp"}, names)
		assert.Len(t, strings.Split(token, "."), 3)
	})

	t.Run("rejects identity without id", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Issue(context.Background(), domain.Identity{Username: "ghost"})
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	issuer := newTestTokenService(t, testSecret, fixedTime)
	valid, err := issuer.Issue(context.Background(), testIdentity)
	require.NoError(t, err)

	forger := newTestTokenService(t, wrongSecret, fixedTime.Add(-48*time.Hour))
	forgedExpired, err := forger.Issue(context.Background(), testIdentity)
	require.NoError(t, err)

	expClaims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(fixedTime),
		ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}

	tests := []struct {
		name    string
		token   string
		at      time.Time
		want    domain.Identity
		wantErr error
	}{
		{
			name:  "valid token",
			token: valid,
			at:    fixedTime.Add(time.Minute),
			want:  testIdentity,
		},
		{
			name:  "one second before expiry",
			token: valid,
			at:    fixedTime.Add(24*time.Hour - time.Second),
			want:  testIdentity,
		},
		{
			name:    "exactly at expiry",
			token:   valid,
			at:      fixedTime.Add(24 * time.Hour),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "long after expiry",
			token:   valid,
			at:      fixedTime.Add(72 * time.Hour),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "wrong secret",
			token:   signRaw(t, jwt.SigningMethodHS256, tokenClaims{UserID: 42, RegisteredClaims: expClaims}, []byte(wrongSecret)),
			at:      fixedTime,
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "signature is checked before expiry",
			token:   forgedExpired,
			at:      fixedTime,
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "unexpected algorithm",
			token:   signRaw(t, jwt.SigningMethodHS512, tokenClaims{UserID: 42, RegisteredClaims: expClaims}, []byte(testSecret)),
			at:      fixedTime,
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "unsigned token",
			token:   signRaw(t, jwt.SigningMethodNone, tokenClaims{UserID: 42, RegisteredClaims: expClaims}, jwt.UnsafeAllowNoneSignatureType),
			at:      fixedTime,
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			at:      fixedTime,
			wantErr: ErrMalformedToken,
		},
		{
			name:    "empty",
			token:   "",
			at:      fixedTime,
			wantErr: ErrMalformedToken,
		},
		{
			name:    "missing user id",
			token:   signRaw(t, jwt.SigningMethodHS256, expClaims, []byte(testSecret)),
			at:      fixedTime,
			wantErr: ErrMalformedToken,
		},
		{
			name:    "missing expiry",
			token:   signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{"userId": 42}, []byte(testSecret)),
			at:      fixedTime,
			wantErr: ErrMalformedToken,
		},
		{
			name:    "issued in the future",
			token:   valid,
			at:      fixedTime.Add(-time.Hour),
			wantErr: ErrMalformedToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestTokenService(t, testSecret, tt.at)

			got, err := svc.Verify(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.Identity{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
