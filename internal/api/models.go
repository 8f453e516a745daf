package api

import (
	"time"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/service"
)

// Request payloads

// CheckUsernameRequest defines the payload for the username availability endpoint.
type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// CheckEmailRequest defines the payload for the email availability endpoint.
type CheckEmailRequest struct {
	Email string `json:"email"`
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username  string `json:"username"  validate:"max=64"`
	Email     string `json:"email"     validate:"max=254"`
	Password  string `json:"password"`
	FirstName string `json:"fName"     validate:"max=100"`
	LastName  string `json:"lName"     validate:"max=100"`
}

// LoginRequest defines the payload for the user login endpoint. Username
// takes precedence when both identifiers are sent.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     *string `json:"dueDate"`
}

// EditTaskRequest defines the payload for the task edit endpoint. Omitted or
// empty fields are left unchanged.
type EditTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     *string `json:"dueDate"`
}

// Response payloads

// MessageResponse is the minimal success body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AvailabilityResponse reports that a username or email is free.
type AvailabilityResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Available bool   `json:"available"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// TaskResponse is the client view of a task.
type TaskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	OwnerID     int64             `json:"ownerId"`
	DueDate     *time.Time        `json:"dueDate"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SingleTaskResponse wraps one task with a status message.
type SingleTaskResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

// PaginationResponse describes the page returned by a listing.
type PaginationResponse struct {
	Page            int `json:"page"`
	ItemsPerPage    int `json:"itemsPerPage"`
	PageCount       int `json:"pageCount"`
	TotalItemsCount int `json:"totalItemsCount"`
}

// TaskListResponse is one page of tasks split by completion.
type TaskListResponse struct {
	Success           bool               `json:"success"`
	Message           string             `json:"message"`
	NotCompletedTasks []TaskResponse     `json:"notCompletedTasks"`
	CompletedTasks    []TaskResponse     `json:"completedTasks"`
	Pagination        PaginationResponse `json:"pagination"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		OwnerID:     t.OwnerID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func pageToResponse(p *service.TaskPage) TaskListResponse {
	return TaskListResponse{
		Success:           true,
		Message:           "Fetched tasks successfully",
		NotCompletedTasks: tasksToResponse(p.NotCompleted),
		CompletedTasks:    tasksToResponse(p.Completed),
		Pagination: PaginationResponse{
			Page:            p.Page,
			ItemsPerPage:    p.PerPage,
			PageCount:       p.PageCount,
			TotalItemsCount: p.Total,
		},
	}
}
