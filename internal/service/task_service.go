package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/phrazzld/taskify-api/internal/redact"
	"github.com/phrazzld/taskify-api/internal/store"
)

// Pagination defaults for task listing.
const (
	DefaultPage    = 1
	DefaultPerPage = 2
	MaxPerPage     = 100
)

// Client-facing task messages.
const (
	msgTaskNotFound     = "Task not found"
	msgTaskNotOwned     = "User does not own that task"
	msgTaskIDRequired   = "Task ID is required (must be a number)"
	msgTaskTitle        = "Task title is required"
	msgEditFields       = "taskId (must be a number) AND (title, description OR dueDate) are required!"
	msgNoTasks          = "No Tasks for user"
	msgUpdateTaskFailed = "Could not update task"
	msgLoadTaskFailed   = "Could not load task"
	msgListTasksFailed  = "Could not list tasks"
	msgCreateTaskFailed = "Could not create task"
	msgDeleteTaskFailed = "Error deleting task %d"
)

// PageRequest selects one page of a listing. Values below 1 fall back to
// the defaults and PerPage is capped at MaxPerPage.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize returns r with defaults and caps applied.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
	return r
}

// Offset is the number of rows skipped before the page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// TaskPage is one page of a user's tasks split by completion.
type TaskPage struct {
	NotCompleted []*domain.Task
	Completed    []*domain.Task
	Page         int
	PerPage      int
	PageCount    int
	Total        int
}

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// EditTaskInput carries a partial task update. Nil or blank fields are left
// untouched.
type EditTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

// TaskService manages tasks on behalf of their owner
type TaskService interface {
	// List returns one page of the requester's active tasks.
	List(ctx context.Context, requester domain.Identity, page PageRequest) (*TaskPage, error)

	// Get returns a task owned by the requester.
	Get(ctx context.Context, requester domain.Identity, taskID int64) (*domain.Task, error)

	// Create adds a task owned by the requester.
	Create(ctx context.Context, requester domain.Identity, in CreateTaskInput) (*domain.Task, error)

	// Edit applies a partial update to a task owned by the requester.
	Edit(ctx context.Context, requester domain.Identity, taskID int64, in EditTaskInput) (*domain.Task, error)

	// MarkDone sets a task owned by the requester to completed.
	MarkDone(ctx context.Context, requester domain.Identity, taskID int64) (*domain.Task, error)

	// Delete soft-deletes a task owned by the requester.
	Delete(ctx context.Context, requester domain.Identity, taskID int64) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(tasks store.TaskStore, log *slog.Logger) *TaskServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		logger: log.With("component", "task_service"),
	}
}

func (s *TaskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// List implements TaskService.
func (s *TaskServiceImpl) List(
	ctx context.Context,
	requester domain.Identity,
	page PageRequest,
) (*TaskPage, error) {
	page = page.Normalize()

	tasks, total, err := s.tasks.FindPage(ctx,
		store.TaskFilter{OwnerID: requester.ID}, page.Offset(), page.PerPage)
	if err != nil {
		s.log(ctx).Error("failed to list tasks",
			"error", redact.Error(err),
			"user_id", requester.ID)
		return nil, domain.Internal(msgListTasksFailed, NewServiceError("task", "list", err))
	}
	if total == 0 {
		return nil, domain.NotFound(msgNoTasks)
	}

	result := &TaskPage{
		NotCompleted: []*domain.Task{},
		Completed:    []*domain.Task{},
		Page:         page.Page,
		PerPage:      page.PerPage,
		PageCount:    (total + page.PerPage - 1) / page.PerPage,
		Total:        total,
	}
	for _, t := range tasks {
		if t.IsCompleted() {
			result.Completed = append(result.Completed, t)
		} else {
			result.NotCompleted = append(result.NotCompleted, t)
		}
	}
	return result, nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, requester domain.Identity, taskID int64) (*domain.Task, error) {
	return s.authorizeOwner(ctx, requester, taskID)
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	requester domain.Identity,
	in CreateTaskInput,
) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.BadRequest(msgTaskTitle)
	}

	task := &domain.Task{
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      domain.TaskStatusInProgress,
		OwnerID:     requester.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.log(ctx).Error("failed to create task",
			"error", redact.Error(err),
			"user_id", requester.ID)
		return nil, domain.Internal(msgCreateTaskFailed, NewServiceError("task", "create", err))
	}

	s.log(ctx).Info("task created",
		"task_id", task.ID,
		"user_id", requester.ID)
	return task, nil
}

// Edit implements TaskService.
func (s *TaskServiceImpl) Edit(
	ctx context.Context,
	requester domain.Identity,
	taskID int64,
	in EditTaskInput,
) (*domain.Task, error) {
	update := store.TaskUpdate{
		Title:       nonBlank(in.Title),
		Description: nonBlank(in.Description),
		DueDate:     in.DueDate,
	}
	if taskID <= 0 {
		return nil, domain.BadRequest(msgEditFields)
	}

	// Ownership outranks payload problems.
	if _, err := s.authorizeOwner(ctx, requester, taskID); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, domain.BadRequest(msgEditFields)
	}
	return s.apply(ctx, "edit", taskID, update)
}

// MarkDone implements TaskService.
func (s *TaskServiceImpl) MarkDone(
	ctx context.Context,
	requester domain.Identity,
	taskID int64,
) (*domain.Task, error) {
	if _, err := s.authorizeOwner(ctx, requester, taskID); err != nil {
		return nil, err
	}
	completed := domain.TaskStatusCompleted
	return s.apply(ctx, "mark_done", taskID, store.TaskUpdate{Status: &completed})
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, requester domain.Identity, taskID int64) error {
	if _, err := s.authorizeOwner(ctx, requester, taskID); err != nil {
		return err
	}

	msg := fmt.Sprintf(msgDeleteTaskFailed, taskID)
	rows, err := s.tasks.SoftDelete(ctx, taskID)
	if err != nil {
		s.log(ctx).Error("failed to delete task",
			"error", redact.Error(err),
			"task_id", taskID)
		return domain.Internal(msg, NewServiceError("task", "delete", err))
	}
	if rows == 0 {
		s.log(ctx).Warn("task delete changed no rows",
			"task_id", taskID)
		return domain.Internal(msg, NewServiceError("task", "delete", store.ErrDeleteFailed))
	}

	s.log(ctx).Info("task deleted",
		"task_id", taskID,
		"user_id", requester.ID)
	return nil
}

func (s *TaskServiceImpl) apply(
	ctx context.Context,
	op string,
	taskID int64,
	update store.TaskUpdate,
) (*domain.Task, error) {
	task, rows, err := s.tasks.Update(ctx, taskID, update)
	if err != nil {
		s.log(ctx).Error("failed to update task",
			"error", redact.Error(err),
			"task_id", taskID,
			"operation", op)
		return nil, domain.Internal(msgUpdateTaskFailed, NewServiceError("task", op, err))
	}
	if rows == 0 || task == nil {
		s.log(ctx).Warn("task update changed no rows",
			"task_id", taskID,
			"operation", op)
		return nil, domain.Internal(msgUpdateTaskFailed, NewServiceError("task", op, store.ErrUpdateFailed))
	}
	return task, nil
}

// authorizeOwner loads an active task and checks that requester owns it.
func (s *TaskServiceImpl) authorizeOwner(
	ctx context.Context,
	requester domain.Identity,
	taskID int64,
) (*domain.Task, error) {
	if taskID <= 0 {
		return nil, domain.BadRequest(msgTaskIDRequired)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, domain.NotFound(msgTaskNotFound)
		}
		s.log(ctx).Error("failed to load task",
			"error", redact.Error(err),
			"task_id", taskID)
		return nil, domain.Internal(msgLoadTaskFailed, NewServiceError("task", "get", err))
	}

	if !task.OwnedBy(requester.ID) {
		s.log(ctx).Warn("task ownership check failed",
			"task_id", taskID,
			"user_id", requester.ID)
		return nil, &domain.Error{
			Kind:    domain.KindUnauthorized,
			Message: msgTaskNotOwned,
			Err:     ErrNotOwned,
		}
	}
	return task, nil
}

// nonBlank returns nil for a nil or whitespace-only value.
func nonBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
