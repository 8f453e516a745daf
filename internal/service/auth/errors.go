package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidSignature indicates the token signature does not verify with
	// the process secret, or the token uses an unexpected signing method.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMalformedToken indicates the token cannot be parsed or lacks
	// the claims an identity is built from.
	ErrMalformedToken = errors.New("malformed authentication token")

	// ErrInvalidIdentity is returned when asked to issue a token for an
	// identity without a positive ID.
	ErrInvalidIdentity = errors.New("identity has no user ID")
)
