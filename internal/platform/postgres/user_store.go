package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/phrazzld/taskify-api/internal/redact"
	"github.com/phrazzld/taskify-api/internal/store"
)

const userColumns = `id, username, email, password, first_name, last_name, deleted, created_at, updated_at, deleted_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO users (username, email, password, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.FirstName,
		user.LastName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		mapped := mapUserUniqueViolation(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("unique violation during user creation",
				slog.String("username", user.Username))
			return wrapOp("user", "create", mapped)
		}
		log.Error("failed to create user",
			slog.String("error", redact.Error(err)),
			slog.String("username", user.Username))
		return wrapOp("user", "create", mapped)
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.FindOne(ctx, store.UserFilter{ID: id})
}

// FindOne implements store.UserStore.FindOne
func (s *PostgresUserStore) FindOne(ctx context.Context, filter store.UserFilter) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := userPredicates(filter)
	query := "SELECT " + userColumns + " FROM users " + where + " ORDER BY id LIMIT 1"

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to query user", slog.String("error", redact.Error(err)))
		return nil, opError("user", "find", err)
	}

	return user, nil
}

// FindAll implements store.UserStore.FindAll
func (s *PostgresUserStore) FindAll(ctx context.Context, filter store.UserFilter) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := userPredicates(filter)
	query := "SELECT " + userColumns + " FROM users " + where + " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query users", slog.String("error", redact.Error(err)))
		return nil, opError("user", "find", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, opError("user", "find", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, opError("user", "find", err)
	}

	return users, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, id int64, update store.UserUpdate) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.IsEmpty() {
		return 0, store.ErrEmptyUpdate
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	set("username", update.Username)
	set("email", update.Email)
	set("password", update.HashedPassword)
	set("first_name", update.FirstName)
	set("last_name", update.LastName)

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE users SET %s, updated_at = NOW() WHERE id = $%d AND deleted = false",
		strings.Join(sets, ", "), len(args),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", id))
		return 0, wrapOp("user", "update", mapUserUniqueViolation(err))
	}

	return rowsAffected(result)
}

// SoftDelete implements store.UserStore.SoftDelete
func (s *PostgresUserStore) SoftDelete(ctx context.Context, id int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted = false
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", id))
		return 0, opError("user", "delete", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return 0, err
	}
	log.Info("user soft-deleted", slog.Int64("user_id", id), slog.Int64("rows", n))
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		deletedAt sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.FirstName,
		&u.LastName,
		&u.Deleted,
		&u.CreatedAt,
		&u.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		u.DeletedAt = &t
	}
	return &u, nil
}
