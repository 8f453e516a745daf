package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusAccepted, map[string]any{"message": "ok", "count": 3})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok","count":3}`, w.Body.String())
}

// UnencodableType cannot be JSON encoded.
type UnencodableType struct {
	Fn func()
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	var logBuf strings.Builder
	oldLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(oldLogger)

	RespondWithJSON(w, req, http.StatusOK, UnencodableType{Fn: func() {}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logBuf.String(), "failed to encode JSON response")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithTraceID(context.Background(), "test-trace-id"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid request", body["message"])
	assert.Equal(t, "test-trace-id", body["trace_id"])
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

	body := decodeBody(t, w)
	assert.Equal(t, "Unauthorized", body["message"])
	assert.NotContains(t, body, "trace_id")
}

func TestRespondWithErrorAndLog_Body(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/auth/check-username", nil)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, req, http.StatusConflict, "User is already registered", nil,
		WithBody(map[string]any{
			"suggestedUsernames": []string{"ada_x1"},
			"success":            true,
			"message":            "overridden",
		}))

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User is already registered", body["message"])
	assert.Equal(t, []any{"ada_x1"}, body["suggestedUsernames"])
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name             string
		statusCode       int
		message          string
		err              error
		expectedLogLevel string
		elevateLogLevel  bool
	}{
		{
			name:             "server error",
			statusCode:       http.StatusInternalServerError,
			message:          "Could not create user",
			err:              errors.New("dial postgres://app:s3cret@db:5432/tasks: refused"),
			expectedLogLevel: "ERROR",
		},
		{
			name:             "client error with default log level",
			statusCode:       http.StatusBadRequest,
			message:          "Bad request",
			err:              errors.New("invalid input"),
			expectedLogLevel: "DEBUG",
		},
		{
			name:             "client error with elevated log level",
			statusCode:       http.StatusUnauthorized,
			message:          "Unauthorized - Invalid token",
			err:              errors.New("signature mismatch"),
			expectedLogLevel: "WARN",
			elevateLogLevel:  true,
		},
		{
			name:             "rate limiting error",
			statusCode:       http.StatusTooManyRequests,
			message:          "Too many requests",
			expectedLogLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req = req.WithContext(WithTraceID(context.Background(), "test-trace-id"))
			w := httptest.NewRecorder()

			var logBuf strings.Builder
			oldLogger := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})))
			defer slog.SetDefault(oldLogger)

			var opts []ResponseOption
			if tc.elevateLogLevel {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.statusCode, tc.message, tc.err, opts...)

			assert.Equal(t, tc.statusCode, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tc.message, body["message"])
			assert.Equal(t, "test-trace-id", body["trace_id"])
			assert.NotContains(t, w.Body.String(), "s3cret")

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "level="+tc.expectedLogLevel)
			assert.Contains(t, logOutput, "trace_id=test-trace-id")
			assert.NotContains(t, logOutput, "s3cret")
			if tc.err != nil {
				assert.Contains(t, logOutput, "error_type=")
			}
		})
	}
}
