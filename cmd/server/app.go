package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskify-api/internal/api"
	"github.com/phrazzld/taskify-api/internal/api/middleware"
	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/platform/postgres"
	"github.com/phrazzld/taskify-api/internal/service"
	"github.com/phrazzld/taskify-api/internal/service/auth"
	"github.com/phrazzld/taskify-api/internal/service/username"
	"github.com/phrazzld/taskify-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds the wired dependencies of a running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	authHandler *api.AuthHandler
	taskHandler *api.TaskHandler
	authMW      *middleware.AuthMiddleware
	metrics     *middleware.Metrics
	limiter     *middleware.RateLimiter
}

// newApplication builds the postgres-backed application.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	users := postgres.NewPostgresUserStore(db, logger)
	tasks := postgres.NewPostgresTaskStore(db, logger)
	return buildApplication(cfg, logger, users, tasks)
}

// buildApplication wires services, handlers and middleware over the given stores.
func buildApplication(
	cfg *config.Config,
	logger *slog.Logger,
	users store.UserStore,
	tasks store.TaskStore,
) (*application, error) {
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	logger.Info("Password hasher configured", "bcrypt_cost", hasher.Cost())

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	suggester := username.NewSuggester(users, cfg.Auth.SuggestionMaxAttempts)

	authService := service.NewAuthService(users, hasher, tokens, suggester, cfg.Auth, logger)
	taskService := service.NewTaskService(tasks, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &application{
		config:      cfg,
		logger:      logger,
		authHandler: api.NewAuthHandler(authService),
		taskHandler: api.NewTaskHandler(taskService),
		authMW:      middleware.NewAuthMiddleware(tokens, logger),
		metrics:     middleware.NewMetrics(reg),
		limiter:     middleware.NewRateLimiter(cfg.Auth.RateLimitPerSecond, cfg.Auth.RateLimitBurst),
	}, nil
}
