package schedule

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel for all input validation failures in this
// package. Use errors.Is to detect it; use errors.As with *ValidationError
// for the offending field.
var ErrValidation = errors.New("validation failed")

// ValidationError provides details about a rejected input.
type ValidationError struct {
	Field   string // e.g. "roster", "days_per_employee"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
