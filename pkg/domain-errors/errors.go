// Package domainerrors defines the error taxonomy shared by all domain
// packages. Errors carry a stable Code so transport layers can translate
// them without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and the HTTP layer.
type Code string

const (
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeValidation         Code = "validation_failed"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is the concrete domain error type. Message is safe to expose to
// API clients; the wrapped cause is not.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and client-safe message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Unwrap for logging.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err. Unclassified errors
// yield an empty message so internals never leak.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
