// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Queries are expressed with typed filter
// structs rather than ad-hoc predicate maps, and every read excludes
// soft-deleted records.
package store
