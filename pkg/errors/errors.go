// Package errors provides structured error types for pathcanvas.
//
// Every failure the canvas reports to a host carries a machine-readable
// [Code], so embedding applications can branch on the kind of failure without
// parsing messages:
//
//   - NOT_FOUND: operating on a node or edge id that does not exist
//   - INVALID_EDGE: self-loop, duplicate pair, missing endpoint or a
//     connection vetoed by the connection policy
//   - INVALID_LABEL: empty, malformed or duplicate node label
//   - CONFIGURATION_ERROR: malformed construction options
//
// All of these are recoverable. Only a configuration error returned from
// canvas construction should stop a host, since the canvas cannot start with
// an invalid configuration.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "node %d not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeConfiguration, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInvalidEdge  Code = "INVALID_EDGE"
	ErrCodeInvalidLabel Code = "INVALID_LABEL"

	// Construction errors
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"

	// Host input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
