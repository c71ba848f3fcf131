// Package apperr defines the typed errors returned by the service layer.
// Handlers map them to HTTP status codes with util.CallAppError.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
)

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
)

// Error carries the kind of failure plus enough context to build a message.
type Error struct {
	Kind    Kind
	Entity  string
	ID      uint
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindNotFound:
		if e.Entity != "" {
			return fmt.Sprintf("%s not found with id: %d", e.Entity, e.ID)
		}
		return "resource not found"
	case KindValidation:
		if e.Field != "" {
			return fmt.Sprintf("invalid value for %s", e.Field)
		}
		return "validation failed"
	case KindConflict:
		return "conflict"
	}
	return string(e.Kind)
}

// Is matches on Kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NotFound reports a missing entity, e.g. NotFound("doctor", 7).
func NotFound(entity string, id uint) error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

// Validation reports a malformed or missing input field.
func Validation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Validationf is Validation with a formatted message.
func Validationf(field, format string, args ...interface{}) error {
	return Validation(field, fmt.Sprintf(format, args...))
}

// Conflict reports a business-rule collision such as a double booking.
func Conflict(entity, message string) error {
	return &Error{Kind: KindConflict, Entity: entity, Message: message}
}

// KindOf extracts the Kind of err, if err wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// As returns the *Error wrapped by err, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
