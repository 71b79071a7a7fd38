package domain

import "errors"

// Sentinel error kinds. Handlers map these to HTTP status codes at the
// boundary; anything that doesn't match is an upstream failure and is
// reported to clients with a generic message only.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// validationError wraps ErrValidation with a user-facing message.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

// Validation returns a validation error carrying msg. The message is safe
// to surface to clients.
func Validation(msg string) error {
	return &validationError{msg: msg}
}
