package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskify-api/internal/api/middleware"
	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/mocks"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "testing",
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 1,
		},
		Database: config.DatabaseConfig{URL: "postgres://localhost/taskify", MaxOpenConns: 1},
		Auth: config.AuthConfig{
			JWTSecret:             "router-test-secret-that-is-long-enough",
			BcryptCost:            4,
			UsernameSuggestions:   4,
			SuggestionMaxAttempts: 40,
			RateLimitPerSecond:    1000,
			RateLimitBurst:        1000,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	app, err := buildApplication(cfg, log, mocks.NewMockUserStore(), mocks.NewMockTaskStore())
	require.NoError(t, err)
	logger.AssertLogContains(t, buf, `"bcrypt_cost":4`)
	return app.setupRouter()
}

func send(t *testing.T, h http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestBuildApplication_RejectsBadAuthConfig(t *testing.T) {
	t.Parallel()
	log, _ := logger.GetTestLogger(t)

	cfg := testConfig()
	cfg.Auth.BcryptCost = 99
	_, err := buildApplication(cfg, log, mocks.NewMockUserStore(), mocks.NewMockTaskStore())
	assert.ErrorContains(t, err, "password hasher")

	cfg = testConfig()
	cfg.Auth.JWTSecret = "short"
	_, err = buildApplication(cfg, log, mocks.NewMockUserStore(), mocks.NewMockTaskStore())
	assert.ErrorContains(t, err, "token service")
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, testConfig())

	rec := send(t, h, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.TraceIDHeader))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, testConfig())

	send(t, h, http.MethodGet, "/health", "", nil)
	rec := send(t, h, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/health"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRouter_TasksRequireToken(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, testConfig())

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "no authorization header", message: "Unauthorized - Missing token"},
		{name: "bogus token", header: "Bearer nope", message: "Unauthorized - Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/tasks/get/all", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
}

func TestRouter_RegisterLoginAndManageTask(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, testConfig())

	rec := send(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "analytical",
		"fName":    "Ada",
		"lName":    "Lovelace",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "ada",
		"password": "analytical",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.Len(t, strings.Split(token, "."), 3)

	rec = send(t, h, http.MethodPost, "/tasks/add", token, map[string]string{"title": "engine notes"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode(t, rec)["task"].(map[string]any)
	taskID := int64(task["id"].(float64))
	require.Positive(t, taskID)

	rec = send(t, h, http.MethodGet, "/tasks/get/all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode(t, rec)
	assert.Len(t, list["notCompletedTasks"], 1)
	assert.Empty(t, list["completedTasks"])
}

func TestRouter_AuthRateLimit(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Auth.RateLimitPerSecond = 0.001
	cfg.Auth.RateLimitBurst = 1
	h := newTestRouter(t, cfg)

	first := send(t, h, http.MethodPost, "/auth/check-email", "", map[string]string{"email": "x@example.com"})
	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)

	second := send(t, h, http.MethodPost, "/auth/check-email", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	health := send(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}
