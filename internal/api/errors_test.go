package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "nil error", err: nil, expectedStatus: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
		{name: "store sentinel is not classified", err: store.ErrTaskNotFound, expectedStatus: http.StatusInternalServerError},
		{name: "bad request", err: domain.BadRequest("x"), expectedStatus: http.StatusBadRequest},
		{name: "unauthorized", err: domain.Unauthorized("x"), expectedStatus: http.StatusUnauthorized},
		{name: "not found", err: domain.NotFound("x"), expectedStatus: http.StatusNotFound},
		{name: "conflict", err: domain.Conflict("x"), expectedStatus: http.StatusConflict},
		{name: "internal", err: domain.Internal("x", errors.New("cause")), expectedStatus: http.StatusInternalServerError},
		{name: "wrapped domain error", err: fmt.Errorf("handler: %w", domain.NotFound("x")), expectedStatus: http.StatusNotFound},
		{name: "unknown kind", err: &domain.Error{Kind: domain.Kind(99)}, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: relation \"tasks\" does not exist")))
	assert.Equal(t, "Could not create user",
		GetSafeErrorMessage(domain.Internal("Could not create user", errors.New("password=hunter2"))))
}

func TestRespondWithDomainError(t *testing.T) {
	t.Parallel()

	t.Run("merges body", func(t *testing.T) {
		t.Parallel()
		err := domain.Conflict("User is already registered").
			WithBody("suggestedUsernames", []string{"ada_abc1", "ada_xyz2"})

		rec := httptest.NewRecorder()
		RespondWithDomainError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User is already registered", body["message"])
		assert.Equal(t, []any{"ada_abc1", "ada_xyz2"}, body["suggestedUsernames"])
	})

	t.Run("hides cause", func(t *testing.T) {
		t.Parallel()
		err := domain.Internal("Could not update task",
			errors.New("dial postgres://app:s3cret@db:5432/tasks"))

		rec := httptest.NewRecorder()
		RespondWithDomainError(rec, httptest.NewRequest(http.MethodPut, "/", nil), err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "s3cret")
		assert.NotContains(t, rec.Body.String(), "postgres")
		assert.Contains(t, rec.Body.String(), "Could not update task")
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New("Key: 'CreateTaskRequest.Title' Error:Field validation for 'Title' failed on the 'max' tag")
	assert.Equal(t, "Invalid Title: too long", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
