package service

import (
	"errors"
	"fmt"
)

// ErrNotOwned indicates a resource is owned by a different user than the one
// making the request. It is the cause carried by ownership failures.
var ErrNotOwned = errors.New("resource is owned by another user")

// ServiceError records the service and operation in which an unexpected
// failure occurred. Services use it as the cause of internal domain errors.
type ServiceError struct {
	Service string // The service name (e.g., "auth", "task")
	Op      string // The operation that failed (e.g., "register", "edit")
	Err     error  // The underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
