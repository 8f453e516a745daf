package domain

import (
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus int

const (
	// TaskStatusInProgress is the default status for new tasks.
	TaskStatusInProgress TaskStatus = iota
	// TaskStatusCompleted marks a task as done. It is terminal.
	TaskStatusCompleted
)

// String returns the wire name of the status.
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusInProgress:
		return "IN_PROGRESS"
	case TaskStatusCompleted:
		return "COMPLETED"
	default:
		return fmt.Sprintf("TaskStatus(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s TaskStatus) MarshalText() ([]byte, error) {
	switch s {
	case TaskStatusInProgress, TaskStatusCompleted:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: task status %d", ErrInvalidTaskStatus, int(s))
	}
}

// UnmarshalText decodes a status name.
func (s *TaskStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "IN_PROGRESS":
		*s = TaskStatusInProgress
	case "COMPLETED":
		*s = TaskStatusCompleted
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, string(text))
	}
	return nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	OwnerID     int64      `json:"ownerId"`
	DueDate     *time.Time `json:"dueDate"`
	Deleted     bool       `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-"`
}

// IsCompleted reports whether the task has been marked done.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// OwnedBy reports whether id is the owner of the task.
func (t *Task) OwnedBy(id int64) bool {
	return t.OwnerID == id
}
