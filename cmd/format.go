package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasker-go/internal/task"
)

// Output formats accepted by ls -format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// listEntry is one row of ls output. Number is the 1-based position in the
// file, so it stays stable under filtering.
type listEntry struct {
	Number      int     `json:"number" yaml:"number"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	DueDate     *string `json:"due_date" yaml:"due_date"`
	Status      string  `json:"status" yaml:"status"`
	Overdue     bool    `json:"overdue" yaml:"overdue"`
}

func newListEntry(number int, t *task.Task, overdue bool) listEntry {
	e := listEntry{
		Number:      number,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Overdue:     overdue,
	}
	if !t.DueDate.IsZero() {
		due := t.DueDate.String()
		e.DueDate = &due
	}
	return e
}

func validListFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatYAML:
		return true
	}
	return false
}

func writeList(w io.Writer, format string, entries []listEntry) error {
	switch format {
	case formatJSON:
		if entries == nil {
			entries = []listEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(entries)
	case formatYAML:
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "[]")
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, e := range entries {
			line := fmt.Sprintf("%d. %s - %s", e.Number, e.Title, e.Status)
			if e.Overdue {
				line += " (overdue)"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}
