package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user_not_found")
	ErrManagerOnly   = errors.New("manager_only")
	ErrUnknownSource = errors.New("unknown_platform")
)

// ValidationError rejects malformed caller input: an inverted date range or a
// negative raw metric. It is surfaced immediately, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
