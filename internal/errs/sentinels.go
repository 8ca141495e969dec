// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels shared by the API gateway and feature services.
var (
	// ErrUnauthenticated indicates an operation requiring a session was
	// attempted while anonymous. Raised locally, before any network call.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnauthorized indicates the backend rejected the credential (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates a malformed request (HTTP 400).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested entity does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness/state conflict (HTTP 409, e.g. duplicate registration).
	ErrConflict = errors.New("conflict")

	// ErrServer indicates a backend-side failure (HTTP 5xx or an unstructured error body).
	ErrServer = errors.New("server error")

	// ErrTransport indicates no response reached the client. Retryable.
	ErrTransport = errors.New("transport failure")

	// ErrEmptyCart indicates checkout was attempted with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
)
