package mocks

import (
	"context"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// IssueFn allows test cases to mock the Issue behavior
	IssueFn func(ctx context.Context, identity domain.Identity) (string, error)

	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, token string) (domain.Identity, error)

	// Default values used when functions aren't explicitly defined
	Token     string
	Err       error
	Identity  domain.Identity
	VerifyErr error

	// VerifyCalls counts calls to Verify.
	VerifyCalls int
}

var _ auth.TokenService = (*MockTokenService)(nil)

// Issue implements the auth.TokenService interface
func (m *MockTokenService) Issue(ctx context.Context, identity domain.Identity) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, identity)
	}
	return m.Token, m.Err
}

// Verify implements the auth.TokenService interface
func (m *MockTokenService) Verify(ctx context.Context, token string) (domain.Identity, error) {
	m.VerifyCalls++
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if m.VerifyErr != nil {
		return domain.Identity{}, m.VerifyErr
	}
	return m.Identity, nil
}
