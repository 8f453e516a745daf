package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB used by the store implementations.
// *sql.Tx satisfies it as well, as does the connection returned by sqlmock.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
