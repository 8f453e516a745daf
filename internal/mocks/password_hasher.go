package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/taskify-api/internal/service/auth"
)

// mockHashPrefix marks hashes produced by MockPasswordHasher.
const mockHashPrefix = "hashed:"

// MockPasswordHasher implements auth.PasswordHasher for testing. By default
// Hash prefixes the plaintext and Verify checks for that prefix.
type MockPasswordHasher struct {
	HashFn   func(plaintext string) (string, error)
	VerifyFn func(plaintext, hash string) bool

	// HashErr, when set, is returned by the default Hash.
	HashErr error

	// VerifyCalledWith stores the arguments passed to Verify for verification
	VerifyCalledWith struct {
		Plaintext string
		Hash      string
	}

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// ErrMockHash is a convenience failure for Hash.
var ErrMockHash = errors.New("mock hash failure")

// MockHash returns the hash the default MockPasswordHasher produces for plaintext.
func MockHash(plaintext string) string {
	return mockHashPrefix + plaintext
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(plaintext string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(plaintext)
	}
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return MockHash(plaintext), nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(plaintext, hash string) bool {
	m.VerifyCalledWith.Plaintext = plaintext
	m.VerifyCalledWith.Hash = hash
	m.VerifyCallCount++

	if m.VerifyFn != nil {
		return m.VerifyFn(plaintext, hash)
	}
	return strings.HasPrefix(hash, mockHashPrefix) && strings.TrimPrefix(hash, mockHashPrefix) == plaintext
}
