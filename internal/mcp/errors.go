package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/pyeditor/internal/api"
	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// Error codes returned in tool errors.
const (
	CodeValidation    = "VALIDATION"
	CodeBackend       = "BACKEND"
	CodeTransport     = "TRANSPORT"
	CodeRunInProgress = "RUN_IN_PROGRESS"
	CodeInternal      = "INTERNAL"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain and client errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, session.ErrRunInProgress):
		return &APIError{Code: CodeRunInProgress, Message: "a run is already in progress", RecoveryHint: "Wait for the current run, then call get_output"}
	case errors.Is(err, api.ErrTransport), errors.Is(err, api.ErrMalformedResponse):
		return &APIError{Code: CodeTransport, Message: err.Error(), RecoveryHint: "Check that the backend is reachable"}
	case errors.Is(err, session.ErrFileNotFound):
		return &APIError{Code: CodeValidation, Message: err.Error(), RecoveryHint: "Call get_tree or get_tabs for valid ids"}
	case errors.Is(err, session.ErrProjectNotFound), errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: CodeValidation, Message: err.Error(), RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, session.ErrNotAFile), errors.Is(err, session.ErrDetachedFile),
		errors.Is(err, workspace.ErrInvalidInput), errors.Is(err, workspace.ErrUnsupportedLanguage),
		errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: CodeValidation, Message: err.Error()}
	}
	if backendErr, ok := api.AsError(err); ok {
		msg := backendErr.BackendMessage()
		if msg == "" {
			msg = backendErr.Error()
		}
		hint := ""
		if backendErr.IsUnauthorized() {
			hint = "Run pyeditor login, then restart the server"
		}
		return &APIError{Code: CodeBackend, Message: msg, Details: map[string]any{"status": backendErr.Status}, RecoveryHint: hint}
	}
	return &APIError{Code: CodeInternal, Message: err.Error()}
}
