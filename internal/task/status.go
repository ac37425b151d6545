package task

import "fmt"

// Status represents a task status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	// StatusCompleted is a legacy spelling of StatusDone. It is still valid
	// on load, but Complete always writes StatusDone.
	StatusCompleted Status = "completed"
)

// Statuses returns the allowed status values in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone, StatusCompleted}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the allowed values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsFinished reports whether s marks the task as finished.
func (s Status) IsFinished() bool {
	return s == StatusDone || s == StatusCompleted
}

// ParseStatus converts s to a Status, rejecting values outside the allowed set.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", &ValidationError{
			Field: "status",
			Err:   fmt.Errorf("%w %q, must be one of: pending, in_progress, done, completed", ErrInvalidStatus, s),
		}
	}
	return status, nil
}
