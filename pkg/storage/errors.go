package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrCredentials indicates the storage client or its credentials could not be constructed.
	ErrCredentials = errors.New("storage credentials unavailable")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates the storage key contains a path traversal segment.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
	// ErrNotFound indicates no asset exists at the given key.
	ErrNotFound = errors.New("asset not found")
)

// MapHTTPStatus translates storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
