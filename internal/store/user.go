package store

import (
	"context"

	"github.com/phrazzld/taskify-api/internal/domain"
)

// UserFilter selects users. Zero-valued fields are ignored. The set fields
// are joined with AND, or with OR when MatchAny is true. Soft-deleted users
// never match.
type UserFilter struct {
	ID       int64
	Username string
	Email    string
	MatchAny bool
}

// IsEmpty reports whether no predicate is set.
func (f UserFilter) IsEmpty() bool {
	return f.ID == 0 && f.Username == "" && f.Email == ""
}

// UserUpdate lists the user fields to change. Nil fields are left untouched.
type UserUpdate struct {
	Username       *string
	Email          *string
	HashedPassword *string
	FirstName      *string
	LastName       *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.HashedPassword == nil &&
		u.FirstName == nil && u.LastName == nil
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and fills in its ID and timestamps.
	// Returns ErrUsernameExists or ErrEmailExists on a unique violation.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an active user by ID.
	// Returns ErrUserNotFound if the user does not exist or is deleted.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// FindOne returns the first active user matching filter, ordered by ID.
	// Returns ErrUserNotFound when nothing matches.
	FindOne(ctx context.Context, filter UserFilter) (*domain.User, error)

	// FindAll returns every active user matching filter, ordered by ID.
	FindAll(ctx context.Context, filter UserFilter) ([]*domain.User, error)

	// Update applies the non-nil fields of update and returns the number of
	// rows changed. Zero rows means the user is missing or deleted.
	Update(ctx context.Context, id int64, update UserUpdate) (int64, error)

	// SoftDelete marks the user deleted and returns the number of rows changed.
	SoftDelete(ctx context.Context, id int64) (int64, error)
}
