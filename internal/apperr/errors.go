package apperr

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Code classifies an error so transport layers can map it to a status without
// inspecting messages.
type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeNotFound   Code = "NOT_FOUND"
	CodeForbidden  Code = "FORBIDDEN"
	CodeConflict   Code = "CONFLICT"
	CodeTransient  Code = "TRANSIENT"
	CodeInternal   Code = "INTERNAL"
)

// Error is the service-level error type carried across layer boundaries.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds a classified error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a classification to an existing error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation is shorthand for a caller-input error.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// NotFound is shorthand for a missing-entity error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Forbidden is shorthand for an authorization error.
func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// Conflict is shorthand for a state-precondition error.
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// IsCode reports whether err carries the given classification.
func IsCode(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf extracts the classification of err, defaulting to INTERNAL.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// FromStore maps storage-layer failures onto the taxonomy. Record absence
// becomes NOT_FOUND; deadline or cancellation becomes TRANSIENT so callers
// know a retry is safe.
func FromStore(err error, notFoundMessage string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, notFoundMessage, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Wrap(CodeTransient, "store unavailable", err)
	default:
		return err
	}
}
