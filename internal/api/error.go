package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the backend. It carries the HTTP status
// and the backend's message so callers can decide between inline reporting
// and session teardown. Nothing in this package retries.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// IsAuthFailure reports whether err is a 401/403 from the backend, the cases
// that invalidate a stored token.
func IsAuthFailure(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
