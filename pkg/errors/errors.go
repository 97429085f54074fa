// Package errors provides structured error types for sankeytimeline.
//
// Errors carry a machine-readable [Code] so callers (the CLI, the pipeline,
// library users) can branch on the failure kind without string matching.
//
// # Error Codes
//
//   - UNKNOWN_REFERENCE: a link endpoint did not resolve to an existing node
//   - INVALID_TIME_RANGE: malformed time input, raised only in strict mode
//   - INVALID_*: other input validation failures
//   - FILE_NOT_FOUND: a definition file could not be opened
//   - INTERNAL_ERROR: unexpected failures
//
// Degenerate scales (a single time point, all-zero flow) are not errors. The
// layout guards them and reports them as flags on its result.
//
// # Usage
//
//	_, err := tl.CreateLink(timeline.Label("a"), timeline.Label("b"), 3)
//	if errors.Is(err, errors.ErrCodeUnknownReference) {
//	    // endpoint missing, the graph is unchanged
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph construction errors
	ErrCodeUnknownReference Code = "UNKNOWN_REFERENCE"
	ErrCodeInvalidTimeRange Code = "INVALID_TIME_RANGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// GetCode extracts the error code from an error, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
