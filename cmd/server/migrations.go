package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskify-api/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// migrateCommands maps each accepted -migrate value to its goose runner.
var migrateCommands = map[string]func(ctx context.Context, db *sql.DB, dir string) error{
	"up": func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	},
	"down": func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	},
	"reset": func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.ResetContext(ctx, db, dir)
	},
	"status": func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.StatusContext(ctx, db, dir)
	},
	"version": func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.VersionContext(ctx, db, dir)
	},
}

func migrateCommandList() string {
	names := make([]string, 0, len(migrateCommands))
	for name := range migrateCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func validateMigrateCommand(cmd string) error {
	if _, ok := migrateCommands[cmd]; !ok {
		return fmt.Errorf("unknown migration command %q (want %s)", cmd, migrateCommandList())
	}
	return nil
}

// runMigrations executes one goose command against the embedded migrations.
// Every message goose prints during the run carries the same correlation id.
func runMigrations(ctx context.Context, db *sql.DB, cmd string, log *slog.Logger) error {
	if err := validateMigrateCommand(cmd); err != nil {
		return err
	}

	runLog := log.With("migration_run_id", uuid.NewString(), "command", cmd)

	goose.SetBaseFS(postgres.Migrations)
	goose.SetLogger(&slogGooseLogger{log: runLog})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	runLog.Info("Running migrations")
	if err := migrateCommands[cmd](ctx, db, postgres.MigrationsDir); err != nil {
		runLog.Error("Migration failed", "error", err)
		return fmt.Errorf("migration %s failed: %w", cmd, err)
	}
	runLog.Info("Migrations finished")
	return nil
}

// slogGooseLogger forwards goose output to slog.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and does not exit.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
