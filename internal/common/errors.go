// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a missing case, document, or chunk.
	ErrNotFound = errors.New("not found")

	// ErrServiceUnavailable indicates the text generator is not configured
	// or failed to initialize. Permanent until reconfigured.
	ErrServiceUnavailable = errors.New("ai service unavailable")

	// ErrBudgetExceeded indicates the projected spend would pass the
	// configured budget ceiling. The only AI failure surfaced to callers.
	ErrBudgetExceeded = errors.New("token budget exceeded")

	// ErrGenerationFailed indicates a transport or parse error from the
	// external generator. Triggers fallback, never surfaced raw.
	ErrGenerationFailed = errors.New("ai generation failed")

	// ErrDocumentProcessing indicates document conversion failed.
	// Triggers mock-chunk fallback; the document is still created.
	ErrDocumentProcessing = errors.New("document processing failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
