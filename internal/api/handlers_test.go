package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskify-api/internal/api/middleware"
	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/mocks"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/phrazzld/taskify-api/internal/service"
	"github.com/phrazzld/taskify-api/internal/service/auth"
	"github.com/phrazzld/taskify-api/internal/service/username"
	"github.com/phrazzld/taskify-api/internal/store"
	"github.com/stretchr/testify/require"
)

// testServer wires real handlers and services over in-memory stores.
type testServer struct {
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	tokens *mocks.MockTokenService
	router http.Handler
}

// tokenFor is the bearer token the mock token service accepts for id.
func tokenFor(id domain.Identity) string {
	return "token-" + id.Username
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	ts := &testServer{
		users:  mocks.NewMockUserStore(),
		tasks:  mocks.NewMockTaskStore(),
		tokens: &mocks.MockTokenService{},
	}
	ts.tokens.IssueFn = func(_ context.Context, id domain.Identity) (string, error) {
		return tokenFor(id), nil
	}
	ts.tokens.VerifyFn = func(_ context.Context, token string) (domain.Identity, error) {
		users, _ := ts.users.FindAll(context.Background(), store.UserFilter{})
		for _, u := range users {
			if tokenFor(u.Identity()) == token {
				return u.Identity(), nil
			}
		}
		return domain.Identity{}, auth.ErrInvalidSignature
	}

	authSvc := service.NewAuthService(
		ts.users,
		&mocks.MockPasswordHasher{},
		ts.tokens,
		username.NewSuggester(ts.users, 100),
		config.AuthConfig{UsernameSuggestions: 4},
		log,
	)
	authHandler := NewAuthHandler(authSvc)
	taskHandler := NewTaskHandler(service.NewTaskService(ts.tasks, log))
	authMW := middleware.NewAuthMiddleware(ts.tokens, log)

	r := chi.NewRouter()
	r.Use(middleware.Trace(log))
	r.Route("/auth", func(r chi.Router) {
		r.Post("/check-username", authHandler.CheckUsername)
		r.Post("/check-email", authHandler.CheckEmail)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMW.Authenticate)
		r.Get("/get/all", taskHandler.List)
		r.Get("/get/{taskId}", taskHandler.Get)
		r.Post("/add", taskHandler.Create)
		r.Put("/edit/{taskId}", taskHandler.Edit)
		r.Patch("/markdone/{taskId}", taskHandler.MarkDone)
		r.Delete("/delete/{taskId}", taskHandler.Delete)
	})
	ts.router = r
	return ts
}

func (ts *testServer) addUser(name string) domain.Identity {
	u := ts.users.AddUser(&domain.User{
		Username:       name,
		Email:          name + "@example.com",
		HashedPassword: mocks.MockHash("pw-" + name),
		FirstName:      "First",
		LastName:       "Last",
	})
	return u.Identity()
}

// do sends a request with an optional JSON body and bearer identity and
// returns the status and decoded body.
func (ts *testServer) do(
	t *testing.T,
	method, target string,
	body any,
	as *domain.Identity,
) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(*as))
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec.Code, decoded
}
