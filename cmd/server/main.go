// Package main implements the entry point for the Taskify API server,
// which serves per-user task lists behind token authentication.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command ("+migrateCommandList()+") and exit")
	configPath := flag.String("config", "", "optional path to a config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"env", cfg.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger, *migrateCmd); err != nil {
		appLogger.Error("Application exited with error", "error", err)
		os.Exit(1)
	}
}

// run opens the database and either executes a single migration command or
// serves HTTP until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, migrateCmd string) error {
	if migrateCmd != "" {
		if err := validateMigrateCommand(migrateCmd); err != nil {
			return err
		}
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("Failed to close database", "error", cerr)
		}
	}()

	if migrateCmd != "" {
		return runMigrations(ctx, db, migrateCmd, log)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	return app.serve(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
