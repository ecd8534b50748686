package timetable

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks structural defects in the scheduling universe.
	ErrInvalidInput = errors.New("invalid timetable input")
	// ErrMalformedTime marks a time string that is not a valid 24h "HH:MM" value.
	ErrMalformedTime = errors.New("malformed time, expected HH:MM")
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Value)
}

// Unwrap exposes ErrInvalidInput and, when set, the more specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrInvalidInput {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

func invalid(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
