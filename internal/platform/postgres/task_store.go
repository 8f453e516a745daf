package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/phrazzld/taskify-api/internal/redact"
	"github.com/phrazzld/taskify-api/internal/store"
)

const taskColumns = `id, title, description, status, owner_id, due_date, deleted, created_at, updated_at, deleted_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owner doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (title, description, status, owner_id, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		nullString(task.Description),
		int(task.Status),
		task.OwnerID,
		nullTime(task.DueDate),
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.Int64("owner_id", task.OwnerID))
			return fmt.Errorf("%w: user with ID %d not found", store.ErrInvalidEntity, task.OwnerID)
		}
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.Int64("owner_id", task.OwnerID))
		return opError("task", "create", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p := taskPredicates(store.TaskFilter{ID: id})
	query := "SELECT " + taskColumns + " FROM tasks " + p.where(" AND ")

	task, err := scanTask(s.db.QueryRowContext(ctx, query, p.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return nil, opError("task", "get", err)
	}

	return task, nil
}

// FindAll implements store.TaskStore.FindAll
func (s *PostgresTaskStore) FindAll(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	p := taskPredicates(filter)
	query := "SELECT " + taskColumns + " FROM tasks " + p.where(" AND ") + " ORDER BY id"

	return s.queryTasks(ctx, query, p.args)
}

// FindPage implements store.TaskStore.FindPage
func (s *PostgresTaskStore) FindPage(
	ctx context.Context,
	filter store.TaskFilter,
	offset, limit int,
) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if offset < 0 || limit < 1 {
		return nil, 0, fmt.Errorf("%w: offset %d, limit %d", store.ErrInvalidEntity, offset, limit)
	}

	p := taskPredicates(filter)
	where := p.where(" AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks " + where
	if err := s.db.QueryRowContext(ctx, countQuery, p.args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", redact.Error(err)))
		return nil, 0, opError("task", "find_page", err)
	}
	if total == 0 {
		return []*domain.Task{}, 0, nil
	}

	limitArg := p.next()
	args := append(append([]any{}, p.args...), limit, offset)
	query := fmt.Sprintf("SELECT %s FROM tasks %s ORDER BY id LIMIT %s OFFSET $%d",
		taskColumns, where, limitArg, len(args))

	tasks, err := s.queryTasks(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	update store.TaskUpdate,
) (*domain.Task, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.IsEmpty() {
		return nil, 0, store.ErrEmptyUpdate
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.DueDate != nil {
		set("due_date", *update.DueDate)
	}
	if update.Status != nil {
		set("status", int(*update.Status))
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s, updated_at = NOW() WHERE id = $%d AND deleted = false RETURNING %s",
		strings.Join(sets, ", "), len(args), taskColumns,
	)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no task rows updated", slog.Int64("task_id", id))
			return nil, 0, nil
		}
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return nil, 0, opError("task", "update", err)
	}

	return task, 1, nil
}

// SoftDelete implements store.TaskStore.SoftDelete
func (s *PostgresTaskStore) SoftDelete(ctx context.Context, id int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted = false
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return 0, opError("task", "delete", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return 0, err
	}
	log.Info("task soft-deleted", slog.Int64("task_id", id), slog.Int64("rows", n))
	return n, nil
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args []any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", redact.Error(err)))
		return nil, opError("task", "find", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, opError("task", "find", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, opError("task", "find", err)
	}

	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
		status      int
		dueDate     sql.NullTime
		deletedAt   sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&status,
		&t.OwnerID,
		&dueDate,
		&t.Deleted,
		&t.CreatedAt,
		&t.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	if description.Valid {
		d := description.String
		t.Description = &d
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	if deletedAt.Valid {
		d := deletedAt.Time
		t.DeletedAt = &d
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
