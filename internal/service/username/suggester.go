// Package username generates available alternatives for a taken username.
package username

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/store"
)

// ErrExhaustedSuggestions is returned when the attempt budget runs out before
// enough available candidates were found.
var ErrExhaustedSuggestions = errors.New("username suggestions exhausted")

const (
	suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	suffixLength   = 3
	suffixNumberN  = 1000
)

// UserLookup is the slice of store.UserStore the suggester needs.
type UserLookup interface {
	FindOne(ctx context.Context, filter store.UserFilter) (*domain.User, error)
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithIntN replaces the random source. intN must return a value in [0, n).
func WithIntN(intN func(n int) int) Option {
	return func(s *Suggester) {
		if intN != nil {
			s.intN = intN
		}
	}
}

// Suggester searches for usernames that are not yet registered.
type Suggester struct {
	users       UserLookup
	maxAttempts int
	intN        func(n int) int
}

// NewSuggester creates a Suggester that generates at most maxAttempts
// candidates per call.
func NewSuggester(users UserLookup, maxAttempts int, opts ...Option) *Suggester {
	if users == nil {
		panic("username: nil UserLookup")
	}
	s := &Suggester{
		users:       users,
		maxAttempts: maxAttempts,
		intN:        rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns n distinct usernames derived from taken, none of which is
// registered at the time it was checked.
func (s *Suggester) Suggest(ctx context.Context, taken string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}

	base := stripDigits(taken)
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)

	for attempt := 0; len(out) < n; attempt++ {
		if attempt >= s.maxAttempts {
			return nil, fmt.Errorf("%w: found %d of %d after %d attempts",
				ErrExhaustedSuggestions, len(out), n, attempt)
		}

		candidate := s.candidate(base)
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		registered, err := s.isRegistered(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !registered {
			out = append(out, candidate)
		}
	}

	return out, nil
}

func (s *Suggester) candidate(base string) string {
	var b strings.Builder
	b.Grow(len(base) + 1 + suffixLength + 3)
	b.WriteString(base)
	b.WriteByte('_')
	for range suffixLength {
		b.WriteByte(suffixAlphabet[s.intN(len(suffixAlphabet))])
	}
	fmt.Fprintf(&b, "%d", s.intN(suffixNumberN))
	return b.String()
}

func (s *Suggester) isRegistered(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindOne(ctx, store.UserFilter{Username: username})
	switch {
	case err == nil:
		return true, nil
	case store.IsNotFoundError(err):
		return false, nil
	default:
		return false, fmt.Errorf("check username %q: %w", username, err)
	}
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s)
}
