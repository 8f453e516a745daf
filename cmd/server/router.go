package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskify-api/internal/api"
	"github.com/phrazzld/taskify-api/internal/api/middleware"
)

// setupRouter builds the HTTP routing tree.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Trace(app.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(app.metrics.Instrument)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(app.limiter.Limit)

		r.Post("/check-username", app.authHandler.CheckUsername)
		r.Post("/check-email", app.authHandler.CheckEmail)
		r.Post("/register", app.authHandler.Register)
		r.Post("/login", app.authHandler.Login)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(app.authMW.Authenticate)

		r.Get("/get/all", app.taskHandler.List)
		r.Get("/get/{"+api.TaskIDParam+"}", app.taskHandler.Get)
		r.Post("/add", app.taskHandler.Create)
		r.Put("/edit/{"+api.TaskIDParam+"}", app.taskHandler.Edit)
		r.Patch("/markdone/{"+api.TaskIDParam+"}", app.taskHandler.MarkDone)
		r.Delete("/delete/{"+api.TaskIDParam+"}", app.taskHandler.Delete)
	})

	return r
}
