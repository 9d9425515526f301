package client

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx response from the backend. Message is the
// backend's `message` field when the error body carried one, else the HTTP
// status text; Details is the decoded error body for diagnostic use.
type HTTPError struct {
	Status  int
	Message string
	Details any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the
// given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == code
	}
	return false
}

// ErrorDetails returns the decoded error body of a wrapped HTTPError, or nil.
func ErrorDetails(err error) any {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Details
	}
	return nil
}
