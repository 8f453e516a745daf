// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, along with the
// embedded goose migrations that create the schema they rely on.
// It handles query construction from typed filters, error mapping from pgx
// error codes to store errors, and row mapping to domain entities.
package postgres
