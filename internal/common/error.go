// Package common defines the error taxonomy shared by services, repositories,
// and the HTTP boundary. Callers match kinds with errors.Is; the boundary maps
// each kind to a status code.
package common

import (
	"errors"
	"fmt"
)

// Error kinds. Domain code returns errors wrapping exactly one of these;
// anything else is treated as internal at the boundary.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// Error carries a kind plus a message that is safe to show to the client.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

// Unwrap exposes the kind so errors.Is(err, common.ErrConflict) works.
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}

func Unauthorizedf(format string, args ...any) *Error {
	return newError(ErrUnauthorized, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return newError(ErrForbidden, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return newError(ErrConflict, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newError(ErrNotFound, format, args...)
}
