package api

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/taskify-api/internal/api/shared"
	"github.com/phrazzld/taskify-api/internal/service"
)

// TaskHandler handles task API requests. Every route requires the auth
// middleware.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /tasks/get/all.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	page, err := h.tasks.List(r.Context(), identity, pageFromQuery(r))
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// Get handles GET /tasks/get/{taskId}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgTaskIDRequired)
		return
	}

	task, err := h.tasks.Get(r.Context(), identity, taskID)
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SingleTaskResponse{
		Success: true,
		Message: fmt.Sprintf("Fetched task %d successfully", taskID),
		Task:    taskToResponse(task),
	})
}

// Create handles POST /tasks/add.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), identity, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SingleTaskResponse{
		Success: true,
		Message: fmt.Sprintf("Created task %d successfully", task.ID),
		Task:    taskToResponse(task),
	})
}

// Edit handles PUT /tasks/edit/{taskId}. An invalid ID is reported together
// with the missing-fields message; ownership is checked before the body.
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, _ := pathTaskID(r)
	if taskID > 0 {
		// A stranger is refused before the payload is looked at.
		if _, err := h.tasks.Get(r.Context(), identity, taskID); err != nil {
			RespondWithDomainError(w, r, err)
			return
		}
	}

	var req EditTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	task, err := h.tasks.Edit(r.Context(), identity, taskID, service.EditTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SingleTaskResponse{
		Success: true,
		Message: fmt.Sprintf("Updated task %d successfully", taskID),
		Task:    taskToResponse(task),
	})
}

// MarkDone handles PATCH /tasks/markdone/{taskId}.
func (h *TaskHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgTaskIDRequired)
		return
	}

	task, err := h.tasks.MarkDone(r.Context(), identity, taskID)
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SingleTaskResponse{
		Success: true,
		Message: fmt.Sprintf("Marked task %d as completed", taskID),
		Task:    taskToResponse(task),
	})
}

// Delete handles DELETE /tasks/delete/{taskId}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgTaskIDRequired)
		return
	}

	if err := h.tasks.Delete(r.Context(), identity, taskID); err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}
