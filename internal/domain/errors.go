package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the marketplace API is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrAuthFailed indicates the session token is missing or invalid
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrForbidden indicates the user may not perform the operation
	ErrForbidden = errors.New("operation not permitted")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates the resource already exists (duplicate favorite, connection, ...)
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidInput indicates a request was rejected before being sent
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConnected indicates the chat socket is not open
	ErrNotConnected = errors.New("chat is not connected")

	// ErrGeocodeFailed indicates the geocoding service returned no usable result
	ErrGeocodeFailed = errors.New("geocoding failed")
)
