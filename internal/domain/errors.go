package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindValidation ErrorKind = "VALIDATION"
	ErrKindNotFound   ErrorKind = "NOT_FOUND"
	ErrKindConflict   ErrorKind = "CONFLICT"
	ErrKindInternal   ErrorKind = "INTERNAL"
)

// Error is the typed result every service operation returns on failure.
// Kind is the machine-readable reason; Message is a short operator-facing
// string, not user-facing copy.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &Error{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInternalError wraps an infrastructure failure with the operation name
// so the log line is enough to reproduce.
func NewInternalError(op string, err error) error {
	return &Error{Kind: ErrKindInternal, Message: op, Err: err}
}

func kindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsValidation(err error) bool { return kindOf(err) == ErrKindValidation }
func IsNotFound(err error) bool   { return kindOf(err) == ErrKindNotFound }
func IsConflict(err error) bool   { return kindOf(err) == ErrKindConflict }
func IsInternal(err error) bool   { return kindOf(err) == ErrKindInternal }
