package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskify-api/internal/api/middleware"
	"github.com/phrazzld/taskify-api/internal/api/shared"
	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/service"
)

// TaskIDParam is the chi URL parameter holding a task ID.
const TaskIDParam = "taskId"

const (
	msgInvalidRequest = "Invalid request format"
	msgInvalidDueDate = "Invalid due date format"
	msgTaskIDRequired = "Task ID is required (must be a number)"
	msgUnauthorized   = "Unauthorized - Missing token"
)

// dateOnlyLayout is the calendar-date form accepted for due dates.
const dateOnlyLayout = "2006-01-02"

// requireIdentity returns the authenticated caller. It writes a 401 and
// returns false when the auth middleware did not run.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, msgUnauthorized)
		return domain.Identity{}, false
	}
	return identity, true
}

// pathTaskID parses the task ID path parameter as a positive integer.
func pathTaskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, TaskIDParam), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageFromQuery reads page and perPage. Missing or non-numeric values
// become zero and are replaced with defaults by the service.
func pageFromQuery(r *http.Request) service.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	return service.PageRequest{Page: page, PerPage: perPage}
}

// parseDueDate accepts RFC 3339 timestamps and YYYY-MM-DD dates. Nil or
// blank input yields nil.
func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return nil, domain.BadRequest(msgInvalidDueDate)
	}
	return &t, nil
}

// decodeAndValidate decodes the body into v and runs its field rules,
// writing a 400 and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
