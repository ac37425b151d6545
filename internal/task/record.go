package task

// Record keys, in persisted order.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyDueDate     = "due_date"
	KeyStatus      = "status"
)

// ToMap returns the task as a plain map. An unset due date maps to nil.
func (t *Task) ToMap() map[string]any {
	var due any
	if !t.DueDate.IsZero() {
		due = t.DueDate.String()
	}
	return map[string]any{
		KeyTitle:       t.Title,
		KeyDescription: t.Description,
		KeyDueDate:     due,
		KeyStatus:      string(t.Status),
	}
}

// FromMap builds a task from the four recognized keys of m; other keys are
// ignored. A missing title becomes "" and therefore fails validation. A
// missing status defaults to pending; a null one is treated as "" and is
// rejected. A null or missing due date is unset, but an empty due date
// string is a format error.
func FromMap(m map[string]any) (*Task, error) {
	title, err := stringField(m, KeyTitle, "")
	if err != nil {
		return nil, err
	}
	description, err := stringField(m, KeyDescription, "")
	if err != nil {
		return nil, err
	}
	status, err := stringField(m, KeyStatus, string(StatusPending))
	if err != nil {
		return nil, err
	}
	due, err := parseDue(m[KeyDueDate], false)
	if err != nil {
		return nil, err
	}
	return New(title,
		WithDescription(description),
		WithDue(due),
		WithStatus(Status(status)),
	)
}

func stringField(m map[string]any, key, fallback string) (string, error) {
	v, ok := m[key]
	if !ok {
		return fallback, nil
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", &TypeError{Field: key, Value: v}
	}
}
