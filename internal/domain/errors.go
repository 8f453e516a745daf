// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTaskStatus is returned when a task status name or value is unknown.
var ErrInvalidTaskStatus = errors.New("invalid task status")

// Kind classifies a domain failure. Every Kind maps to exactly one HTTP
// status in the API layer.
type Kind int

const (
	// KindInternal is a failure the client cannot fix. It is the zero value.
	KindInternal Kind = iota
	// KindBadRequest means the input was missing or malformed.
	KindBadRequest
	// KindUnauthorized means the caller is unauthenticated or does not own the resource.
	KindUnauthorized
	// KindNotFound means the addressed record does not exist or is soft-deleted.
	KindNotFound
	// KindConflict means the request collides with existing state.
	KindConflict
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type returned by services. Message is safe to
// show to clients. Body carries extra response fields, such as suggested
// usernames on a conflict. Err is the underlying cause and is never shown.
type Error struct {
	Kind    Kind
	Message string
	Body    map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBody returns e with key set in its response body.
func (e *Error) WithBody(key string, value any) *Error {
	if e.Body == nil {
		e.Body = make(map[string]any)
	}
	e.Body[key] = value
	return e
}

// BadRequest creates a KindBadRequest error.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Unauthorized creates a KindUnauthorized error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound creates a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict creates a KindConflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal creates a KindInternal error wrapping cause.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, and false
// when there is none.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return KindInternal, false
}
