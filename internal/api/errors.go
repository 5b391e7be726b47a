package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks network failures and timeouts.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse marks bodies that are not the expected JSON envelope.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is a failure reported by the backend, either success=false or a non-2xx status.
type Error struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// BackendMessage returns the human readable message the backend sent.
func (e *Error) BackendMessage() string {
	return e.Message
}

// IsUnauthorized reports a 401 from the backend.
func (e *Error) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// AsError checks if an error is a backend Error and returns it.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusNotFound
}
