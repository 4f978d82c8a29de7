// ABOUTME: Error types for the FileBox API client
// ABOUTME: APIError carries the server's detail message; ErrUnauthorized marks 401s

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any API error produced by a 401 response.
// By the time a caller sees it, the credential store has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 API errors
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Detail extracts the server-provided detail message from an error,
// falling back to the given message when none is available. Used by the
// UI to surface backend validation errors verbatim.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
