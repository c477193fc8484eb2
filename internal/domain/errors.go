package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps exactly one of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrForbidden       = errors.New("forbidden")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return newKindError(ErrNotFound, format, args...)
}

func InvalidArgumentf(format string, args ...any) error {
	return newKindError(ErrInvalidArgument, format, args...)
}

func Conflictf(format string, args ...any) error {
	return newKindError(ErrConflict, format, args...)
}

func InvalidStatef(format string, args ...any) error {
	return newKindError(ErrInvalidState, format, args...)
}

func Forbiddenf(format string, args ...any) error {
	return newKindError(ErrForbidden, format, args...)
}
