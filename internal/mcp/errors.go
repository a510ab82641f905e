package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
)

var (
	// ErrInvalidParams indicates tool arguments that can't be decoded.
	ErrInvalidParams = errors.New("invalid params")
	// ErrUnauthorized indicates an admin tool called without the admin token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownMethod indicates a method the handler doesn't serve.
	ErrUnknownMethod = errors.New("unknown method")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`

	err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, explore.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids", err: err}
	case errors.Is(err, explore.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "explorer session not found", RecoveryHint: "Call get_explorer_state to open a session", err: err}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, explore.ErrDuplicateProject):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Fix the catalog and reload", err: err}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool input schema", err: err}
	case errors.Is(err, ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "admin token required", RecoveryHint: "Send Authorization: Bearer <admin token>", err: err}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "UNKNOWN_METHOD", Message: err.Error(), err: err}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
