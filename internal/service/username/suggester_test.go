package username

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup reports the names in taken as registered and records lookups.
type fakeLookup struct {
	taken   map[string]bool
	err     error
	lookups []string
}

func (f *fakeLookup) FindOne(_ context.Context, filter store.UserFilter) (*domain.User, error) {
	f.lookups = append(f.lookups, filter.Username)
	if f.err != nil {
		return nil, f.err
	}
	if f.taken[filter.Username] {
		return &domain.User{ID: 1, Username: filter.Username}, nil
	}
	return nil, store.ErrUserNotFound
}

// sequence returns an intN that replays values in order, wrapping around.
func sequence(values ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := values[i%len(values)] % n
		i++
		return v
	}
}

var candidatePattern = regexp.MustCompile(`^ada_[A-Za-z0-9]{3}[0-9]{1,3}$`)

func TestSuggest_Format(t *testing.T) {
	t.Parallel()

	s := NewSuggester(&fakeLookup{}, 10, WithIntN(sequence(0, 26, 61, 7)))

	got, err := s.Suggest(context.Background(), "ada1984", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ada_Aa97", got[0])
}

func TestSuggest_DistinctAndAvailable(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{taken: map[string]bool{}}
	s := NewSuggester(lookup, 100)

	got, err := s.Suggest(context.Background(), "ada", 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	seen := map[string]bool{}
	for _, name := range got {
		assert.Regexp(t, candidatePattern, name)
		assert.False(t, seen[name], "duplicate suggestion %q", name)
		seen[name] = true
		assert.Contains(t, lookup.lookups, name)
	}
}

func TestSuggest_SkipsRegisteredCandidates(t *testing.T) {
	t.Parallel()

	// First candidate is ada_AAA0, which is registered; the second is ada_BBB1.
	lookup := &fakeLookup{taken: map[string]bool{"ada_AAA0": true}}
	s := NewSuggester(lookup, 10, WithIntN(sequence(0, 0, 0, 0, 1, 1, 1, 1)))

	got, err := s.Suggest(context.Background(), "ada", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada_BBB1"}, got)
	assert.Equal(t, []string{"ada_AAA0", "ada_BBB1"}, lookup.lookups)
}

func TestSuggest_SkipsRepeatedCandidates(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{}
	s := NewSuggester(lookup, 10, WithIntN(sequence(0, 0, 0, 0, 0, 0, 0, 0, 2, 2, 2, 2)))

	got, err := s.Suggest(context.Background(), "ada", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada_AAA0", "ada_CCC2"}, got)
	assert.Len(t, lookup.lookups, 2)
}

func TestSuggest_NonPositiveCount(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{}
	s := NewSuggester(lookup, 10)

	for _, n := range []int{0, -3} {
		got, err := s.Suggest(context.Background(), "ada", n)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
	assert.Empty(t, lookup.lookups)
}

func TestSuggest_Exhausted(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{taken: map[string]bool{"ada_AAA0": true}}
	s := NewSuggester(lookup, 5, WithIntN(sequence(0)))

	got, err := s.Suggest(context.Background(), "ada", 1)
	assert.ErrorIs(t, err, ErrExhaustedSuggestions)
	assert.Nil(t, got)
	assert.Len(t, lookup.lookups, 1)
}

func TestSuggest_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	s := NewSuggester(&fakeLookup{err: boom}, 10)

	_, err := s.Suggest(context.Background(), "ada", 2)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrExhaustedSuggestions)
}

func TestStripDigits(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"ada":      "ada",
		"ada1984":  "ada",
		"4d4":      "d",
		"12345":    "",
		"j0hn_d0e": "jhn_de",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripDigits(in), "input %q", in)
	}
}

func TestNewSuggester_NilLookupPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewSuggester(nil, 10) })
}
