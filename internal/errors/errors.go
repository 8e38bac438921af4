// Package errors provides structured error handling for menu navigation.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// Configuration errors
	ConfigNotFound ErrorType = "config_not_found"
	ConfigInvalid  ErrorType = "config_invalid"

	// Item specification errors
	DecodeFailed ErrorType = "decode_failed"
	UnknownItem  ErrorType = "unknown_item"

	// Capability errors (programming errors, fatal)
	NotImplemented ErrorType = "not_implemented"

	// Process errors
	ExecFailed  ErrorType = "exec_failed"
	ExecTimeout ErrorType = "exec_timeout"

	// Privileged helper policy errors
	NotAllowed ErrorType = "not_allowed"

	// Network errors
	NetworkError ErrorType = "network_error"

	// Internal errors
	InternalError ErrorType = "internal_error"
)

// QuitExitCode is the sentinel process exit code for a user-requested full
// quit. Ancestor processes in a chain of nested menu invocations watch for it.
const QuitExitCode = 250

// ErrQuit signals that the user requested a full quit from a picker. It
// propagates up through nested menu executions; the entry point turns it into
// a QuitExitCode process exit.
var ErrQuit = errors.New("quit requested")

// MenuError represents a structured error with optional details.
type MenuError struct {
	Type    ErrorType
	Message string
	Details string
	Cause   error
}

func (e *MenuError) Error() string {
	parts := []string{e.Message}
	if e.Details != "" {
		parts = append(parts, fmt.Sprintf("details: %s", e.Details))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}
	return strings.Join(parts, ": ")
}

func (e *MenuError) Unwrap() error {
	return e.Cause
}

// New creates a new MenuError with the given type and message.
func New(errorType ErrorType, message string) *MenuError {
	return &MenuError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap creates a new MenuError that wraps an existing error.
func Wrap(err error, errorType ErrorType, message string) *MenuError {
	return &MenuError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// WithDetails adds detailed information to an error.
func (e *MenuError) WithDetails(details string) *MenuError {
	e.Details = details
	return e
}

// DecodeError creates an error for a malformed item specification string.
func DecodeError(value string, reason string) *MenuError {
	return New(DecodeFailed, "could not decode item specification").
		WithDetails(fmt.Sprintf("value %q: %s", value, reason))
}

// NotImplementedError creates an error for a missing variant override. These
// are programming errors and propagate to process exit.
func NotImplementedError(variant string, method string) *MenuError {
	return New(NotImplemented, fmt.Sprintf("%s does not implement %s", variant, method))
}

// IsType checks if an error is a MenuError of a specific type, unwrapping as
// needed.
func IsType(err error, errorType ErrorType) bool {
	var menuErr *MenuError
	if errors.As(err, &menuErr) {
		return menuErr.Type == errorType
	}
	return false
}

// GetType returns the ErrorType of a MenuError, or InternalError for other
// errors.
func GetType(err error) ErrorType {
	var menuErr *MenuError
	if errors.As(err, &menuErr) {
		return menuErr.Type
	}
	return InternalError
}
