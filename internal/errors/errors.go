// Package errors provides coded errors for the map pipeline.
//
// Usage:
//
//	// In loaders - return typed errors
//	if col < 0 {
//	    return errors.InvalidInputf("missing required column %q", "Issues")
//	}
//
//	// In main - check with errors.Is
//	if errors.Is(err, errors.ErrInvalidInput) {
//	    log.Error("input rejected", "error", err)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the pipeline.
const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeRender       Code = "RENDER"
	CodeWrite        Code = "WRITE"
	CodeInternal     Code = "INTERNAL"
)

// Fatal reports whether errors with this code should abort the whole run.
// Render and write failures only affect the issue being processed.
func (c Code) Fatal() bool {
	switch c {
	case CodeRender, CodeWrite:
		return false
	default:
		return true
	}
}

// Error is a coded error with a message and optional details.
type Error struct {
	Code    Code
	Message string
	Details any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}


// Sentinel errors for use with errors.Is().
var (
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidInput = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrRender       = &Error{Code: CodeRender, Message: "render failed"}
	ErrWrite        = &Error{Code: CodeWrite, Message: "write failed"}
	ErrInternal     = &Error{Code: CodeInternal, Message: "internal error"}
)

// InvalidInput creates an invalid input error.
func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

// InvalidInputf creates an invalid input error with formatted message.
func InvalidInputf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputWithDetails creates an invalid input error with details.
func InvalidInputWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg, Details: details}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
