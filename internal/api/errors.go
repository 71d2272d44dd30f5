package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for 401/403 responses, typically a stale
	// or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend. Message is taken from
// the response body when the backend provides one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match auth failures without
// callers inspecting status codes.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == 401 || e.Status == 403)
}
