package models

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySet is returned when a random pick has nothing to sample from
	ErrEmptySet = errors.New("nothing to pick from, adjust your filters first")

	// ErrNotFound is returned when a catalog row or saved selection does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned when a login does not match a user
	ErrInvalidCredentials = errors.New("username/password is incorrect")
)

// ValidationError reports malformed or out-of-policy filter input.
// It is shown to the user as-is and never corrected silently.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError with a formatted message
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
