package task

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTitle is reported when a title is empty after trimming.
	ErrEmptyTitle = errors.New("title must not be empty")
	// ErrInvalidStatus is reported for a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidDate is reported for a due date that is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrWrongType is reported when a field value has an unsupported Go type.
	ErrWrongType = errors.New("unsupported value type")
)

// ValidationError represents a field that failed validation.
type ValidationError struct {
	Field string // Field name as persisted (title, status, due_date)
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TypeError reports a field value of the wrong kind, such as a number
// where a due date string was expected.
type TypeError struct {
	Field string
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s %T", e.Field, ErrWrongType, e.Value)
}

// Unwrap returns ErrWrongType.
func (e *TypeError) Unwrap() error {
	return ErrWrongType
}
