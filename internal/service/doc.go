// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
//   - AuthService: username and email availability, registration and login.
//   - TaskService: per-user task listing, creation, editing, completion and
//     soft deletion, each guarded by an ownership check.
//
// Services receive their dependencies through constructor injection and
// return *domain.Error for every failure, so the API layer can translate
// a single error type into HTTP responses. Causes are kept in the error
// chain for logging and are never shown to clients.
package service
