// Package naverr defines the failure taxonomy for json-nav.
//
// Every error returned by the tokenizer, the path resolver, the shape checker,
// or the CLI maps to exactly one FailureClass, which determines the exit code.
// The navigator itself never returns errors; it reports misses through the
// nav.NotFound sentinel.
package naverr

import (
	"errors"
	"fmt"
)

// FailureClass is a stable failure category.
type FailureClass string

const (
	InvalidUTF8    FailureClass = "INVALID_UTF8"
	InvalidGrammar FailureClass = "INVALID_GRAMMAR"
	DuplicateKey   FailureClass = "DUPLICATE_KEY"
	LoneSurrogate  FailureClass = "LONE_SURROGATE"
	BoundExceeded  FailureClass = "BOUND_EXCEEDED"
	InvalidPath    FailureClass = "INVALID_PATH"
	NotFound       FailureClass = "NOT_FOUND"
	TypeMismatch   FailureClass = "TYPE_MISMATCH"
	MissingField   FailureClass = "MISSING_FIELD"
	CLIUsage       FailureClass = "CLI_USAGE"
	InternalIO     FailureClass = "INTERNAL_IO"
	InternalError  FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all json-nav failures.
// Offset is a byte offset into the source text, or -1 when the failure
// is not tied to a position.
type Error struct {
	Class   FailureClass
	Offset  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("naverr: %s at byte %d: %s", e.Class, e.Offset, msg)
	}
	return fmt.Sprintf("naverr: %s: %s", e.Class, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, offset int, message string) *Error {
	return &Error{Class: class, Offset: offset, Message: message}
}

// Newf is like New but formats the message.
func Newf(class FailureClass, offset int, format string, args ...any) *Error {
	return &Error{Class: class, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, offset int, message string, cause error) *Error {
	return &Error{Class: class, Offset: offset, Message: message, Cause: cause}
}

// ClassOf reports the failure class carried by err. Errors outside the
// taxonomy classify as InternalError.
func ClassOf(err error) FailureClass {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return InternalError
}
