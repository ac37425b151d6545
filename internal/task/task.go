package task

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a single item in the to-do list.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     Date   `json:"due_date"`
	Status      Status `json:"status"`
}

type params struct {
	description string
	due         any
	status      Status
}

// Option configures optional fields for New.
type Option func(*params)

// WithDescription sets the description. It is stored trimmed.
func WithDescription(description string) Option {
	return func(p *params) {
		p.description = description
	}
}

// WithDue sets the due date. Accepted values are nil, a YYYY-MM-DD string
// (empty means unset), a Date, a *Date, or a time.Time. Any other type makes
// New fail with a *TypeError.
func WithDue(due any) Option {
	return func(p *params) {
		p.due = due
	}
}

// WithStatus sets the initial status. The default is StatusPending.
func WithStatus(status Status) Option {
	return func(p *params) {
		p.status = status
	}
}

// New creates a task. It fails with a *ValidationError for an empty title,
// an unknown status, or a malformed due date string, and with a *TypeError
// for a due date of an unsupported type.
func New(title string, opts ...Option) (*Task, error) {
	p := params{status: StatusPending}
	for _, opt := range opts {
		opt(&p)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if _, err := ParseStatus(string(p.status)); err != nil {
		return nil, err
	}
	due, err := parseDue(p.due, true)
	if err != nil {
		return nil, err
	}

	return &Task{
		Title:       title,
		Description: strings.TrimSpace(p.description),
		DueDate:     due,
		Status:      p.status,
	}, nil
}

// Changes lists the fields an Edit should touch. Nil fields are left alone.
type Changes struct {
	// Title is applied only if it is non-empty after trimming.
	Title *string
	// Description is applied whenever set; an empty string clears it.
	Description *string
	// Due takes the same values as WithDue, except that an empty string
	// is rejected. Pass Date{} to clear the due date.
	Due any
}

// Complete marks the task as finished. Calling it again has no effect.
func (t *Task) Complete() {
	t.Status = StatusDone
}

// Edit applies c to the task. On error the task is unchanged.
func (t *Task) Edit(c Changes) error {
	title := t.Title
	if c.Title != nil {
		if trimmed := strings.TrimSpace(*c.Title); trimmed != "" {
			title = trimmed
		}
	}
	description := t.Description
	if c.Description != nil {
		description = strings.TrimSpace(*c.Description)
	}
	due := t.DueDate
	if c.Due != nil {
		parsed, err := parseDue(c.Due, false)
		if err != nil {
			return err
		}
		due = parsed
	}

	t.Title = title
	t.Description = description
	t.DueDate = due
	return nil
}

// IsOverdue reports whether the due date is set and already past.
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(Today())
}

// IsOverdueAt reports whether the due date is set and strictly before today.
func (t *Task) IsOverdueAt(today Date) bool {
	return !t.DueDate.IsZero() && t.DueDate.Before(today)
}

// Validate checks the task invariants. Tasks built with New always pass;
// it exists for values assembled by hand or decoded directly from JSON.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	return nil
}

// String returns the one-line summary used by the console list.
func (t *Task) String() string {
	return fmt.Sprintf("%s - %s", t.Title, t.Status)
}

// parseDue converts a due date value of any accepted type. allowEmpty
// controls whether "" means unset or is a format error.
func parseDue(v any, allowEmpty bool) (Date, error) {
	switch due := v.(type) {
	case nil:
		return Date{}, nil
	case string:
		if due == "" && allowEmpty {
			return Date{}, nil
		}
		d, err := ParseDate(due)
		if err != nil {
			return Date{}, &ValidationError{Field: "due_date", Err: err}
		}
		return d, nil
	case Date:
		return due, nil
	case *Date:
		if due == nil {
			return Date{}, nil
		}
		return *due, nil
	case time.Time:
		if due.IsZero() {
			return Date{}, nil
		}
		return DateOf(due), nil
	default:
		return Date{}, &TypeError{Field: "due_date", Value: v}
	}
}
