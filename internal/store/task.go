package store

import (
	"context"
	"time"

	"github.com/phrazzld/taskify-api/internal/domain"
)

// TaskFilter selects tasks. Zero-valued fields are ignored and the set
// fields are joined with AND. Soft-deleted tasks never match.
type TaskFilter struct {
	ID      int64
	OwnerID int64
	Status  *domain.TaskStatus
}

// TaskUpdate lists the task fields to change. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *domain.TaskStatus
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil && u.Status == nil
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task and fills in its ID, status and timestamps.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves an active task by ID.
	// Returns ErrTaskNotFound if the task does not exist or is deleted.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// FindAll returns every active task matching filter, ordered by ID.
	FindAll(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// FindPage returns up to limit active tasks matching filter, skipping
	// offset rows, together with the total number of matching tasks.
	FindPage(ctx context.Context, filter TaskFilter, offset, limit int) ([]*domain.Task, int, error)

	// Update applies the non-nil fields of update. It returns the updated
	// task and the number of rows changed. Zero rows yields a nil task and
	// no error.
	Update(ctx context.Context, id int64, update TaskUpdate) (*domain.Task, int64, error)

	// SoftDelete marks the task deleted and returns the number of rows changed.
	SoftDelete(ctx context.Context, id int64) (int64, error)
}
