// Package services implements the domain operations behind the HTTP
// controllers: case lifecycle, support recording, statistics, users,
// and per-case messaging.
package services

import "errors"

// Sentinel errors form the taxonomy controllers map onto HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports invalid input that passed structural binding but
// failed a domain rule (non-positive amount, support type mismatch, ...).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError.
func Validation(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
