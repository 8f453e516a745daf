// Package api handles incoming HTTP requests, request validation and
// response formatting. It acts as an adapter between HTTP clients and the
// services in internal/service, and owns the single translation from
// domain errors to HTTP status codes.
package api
