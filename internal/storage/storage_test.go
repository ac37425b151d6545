package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/tasker-go/internal/task"
)

func mustTask(t *testing.T, title string, opts ...task.Option) *task.Task {
	t.Helper()
	tk, err := task.New(title, opts...)
	if err != nil {
		t.Fatalf("task.New(%q) failed: %v", title, err)
	}
	return tk
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	original := []*task.Task{
		mustTask(t, "Buy milk", task.WithDescription("Get 2L"), task.WithDue("2099-01-01")),
		mustTask(t, "No date", task.WithStatus(task.StatusInProgress)),
		mustTask(t, "Finished", task.WithStatus(task.StatusDone), task.WithDue("2020-05-05")),
	}

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(result.Tasks) != len(original) {
		t.Fatalf("Tasks count: got %d, want %d", len(result.Tasks), len(original))
	}
	for i := range original {
		if *result.Tasks[i] != *original[i] {
			t.Errorf("task %d: got %+v, want %+v", i, *result.Tasks[i], *original[i])
		}
	}
	if len(result.Skipped) != 0 || result.FileErr != nil {
		t.Errorf("unexpected issues: skipped=%v fileErr=%v", result.Skipped, result.FileErr)
	}
}

func TestSaveAndLoadMany(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	var original []*task.Task
	for i := 0; i < 100; i++ {
		original = append(original, mustTask(t, fmt.Sprintf("Task %d", i)))
	}
	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	result, _ := Load(path)
	if len(result.Tasks) != 100 {
		t.Fatalf("Tasks count: got %d, want 100", len(result.Tasks))
	}
	if result.Tasks[42].Title != "Task 42" {
		t.Errorf("order not preserved: got %q at index 42", result.Tasks[42].Title)
	}
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := Save(path, []*task.Task{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Errorf("file content: got %q, want %q", data, "[]\n")
	}
	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.Tasks == nil || len(result.Tasks) != 0 {
		t.Errorf("Tasks: got %v, want empty non-nil slice", result.Tasks)
	}

	if err := Save(path, nil); err != nil {
		t.Fatalf("Save(nil) failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Errorf("Save(nil) content: got %q, want %q", data, "[]\n")
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	tasks := []*task.Task{
		mustTask(t, "Zażółć <gęślą> & jaźń 🚀", task.WithDescription("Opis")),
	}
	if err := Save(path, tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "Zażółć <gęślą> & jaźń 🚀") {
		t.Errorf("expected literal unicode title, got:\n%s", content)
	}
	if strings.Contains(content, `\u`) {
		t.Errorf("expected no escape sequences, got:\n%s", content)
	}
	if !strings.Contains(content, `"due_date": null`) {
		t.Errorf("expected null due_date, got:\n%s", content)
	}
	if !strings.HasPrefix(content, "[\n  {\n    \"title\"") {
		t.Errorf("expected 2-space indentation, got:\n%s", content)
	}
	if !strings.HasSuffix(content, "]\n") {
		t.Errorf("expected trailing newline, got %q", content[len(content)-3:])
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not a JSON array of objects: %v", err)
	}
	if len(raw[0]) != 4 {
		t.Errorf("keys: got %v, want title, description, due_date, status", raw[0])
	}
}

func TestSaveDateAsISO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	due := task.NewDate(2031, time.March, 9)
	if err := Save(path, []*task.Task{mustTask(t, "X", task.WithDue(due))}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"due_date": "2031-03-09"`) {
		t.Errorf("expected ISO date, got:\n%s", data)
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := Save(path, []*task.Task{mustTask(t, "A"), mustTask(t, "B")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(path, []*task.Task{mustTask(t, "C")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	result, _ := Load(path)
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "C" {
		t.Errorf("expected only C after overwrite, got %v", result.Tasks)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestSaveKeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	tasks := []*task.Task{mustTask(t, "Private")}

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		if err := os.WriteFile(path, []byte("[]"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(path, 0600); err != nil {
			t.Fatal(err)
		}
		if err := Save(path, tasks); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := fi.Mode().Perm(); got != 0600 {
			t.Errorf("mode after save: got %v, want %v", got, fs.FileMode(0600))
		}
	})

	t.Run("new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		if err := Save(path, tasks); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := fi.Mode().Perm(); got != defaultFileMode {
			t.Errorf("mode of new file: got %v, want %v", got, defaultFileMode)
		}
	})
}

func TestSaveInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "tasks.json")
	err := Save(path, []*task.Task{mustTask(t, "X")})
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error = %T, want *StorageError", err)
	}
	if storageErr.Path != path {
		t.Errorf("Path: got %q, want %q", storageErr.Path, path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to unwrap to fs.ErrNotExist, got %v", err)
	}
}

func TestLoadDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name        string
		content     *string
		wantFileErr bool
	}{
		{name: "missing file", content: nil},
		{name: "empty file", content: ptr("")},
		{name: "whitespace only", content: ptr("  \n")},
		{name: "invalid json", content: ptr("{invalid json"), wantFileErr: true},
		{name: "object root", content: ptr(`{"title": "X"}`), wantFileErr: true},
		{name: "string root", content: ptr(`"tasks"`), wantFileErr: true},
		{name: "null root", content: ptr(`null`), wantFileErr: true},
		{name: "empty array", content: ptr(`[]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			result, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if len(result.Tasks) != 0 {
				t.Errorf("Tasks: got %d, want 0", len(result.Tasks))
			}
			if (result.FileErr != nil) != tt.wantFileErr {
				t.Errorf("FileErr: got %v, want error %v", result.FileErr, tt.wantFileErr)
			}
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	result, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(result.Tasks) != 0 || result.FileErr == nil {
		t.Errorf("expected empty result with FileErr, got %+v", result)
	}
}

func TestLoadIgnoresExtraFields(t *testing.T) {
	path := writeFile(t, `[{"title":"X","description":"Y","due_date":"2099-01-01","status":"pending","extra":"z"}]`)
	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("Tasks count: got %d, want 1", len(result.Tasks))
	}
	got := result.Tasks[0]
	want := task.Task{Title: "X", Description: "Y", DueDate: task.NewDate(2099, time.January, 1), Status: task.StatusPending}
	if *got != want {
		t.Errorf("task: got %+v, want %+v", *got, want)
	}

	// Extra keys are not written back.
	if err := Save(path, result.Tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "extra") {
		t.Errorf("extra key survived round trip:\n%s", data)
	}
}

func TestLoadNestedAndNullValues(t *testing.T) {
	path := writeFile(t, `[
		{"title": "Nested", "description": null, "due_date": null, "status": "done", "meta": {"a": [1, 2]}},
		"not an object",
		42,
		{"title": "Defaults"}
	]`)
	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("Tasks count: got %d, want 2", len(result.Tasks))
	}
	if result.Tasks[0].Description != "" || !result.Tasks[0].DueDate.IsZero() {
		t.Errorf("null fields: got %+v", *result.Tasks[0])
	}
	if result.Tasks[1].Status != task.StatusPending {
		t.Errorf("default status: got %s, want pending", result.Tasks[1].Status)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("non-object entries should be dropped silently, got %v", result.Skipped)
	}
}

func TestLoadSkipsInvalidEntries(t *testing.T) {
	path := writeFile(t, `[
		{"title": "Good", "status": "pending"},
		{"title": "Bad status", "status": "unknown"},
		{"title": "Bad date", "due_date": "2025-02-30"},
		{"title": "", "status": "pending"},
		{"title": "Also good", "due_date": "2030-01-01"}
	]`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("Tasks count: got %d, want 2", len(result.Tasks))
	}
	if result.Tasks[0].Title != "Good" || result.Tasks[1].Title != "Also good" {
		t.Errorf("unexpected tasks: %q, %q", result.Tasks[0].Title, result.Tasks[1].Title)
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("Skipped count: got %d, want 3", len(result.Skipped))
	}
	wantIndexes := []int{1, 2, 3}
	for i, skipped := range result.Skipped {
		if skipped.Index != wantIndexes[i] {
			t.Errorf("Skipped[%d].Index: got %d, want %d", i, skipped.Index, wantIndexes[i])
		}
	}
	if !errors.Is(result.Skipped[0], task.ErrInvalidStatus) {
		t.Errorf("Skipped[0]: got %v, want ErrInvalidStatus", result.Skipped[0])
	}
	if !errors.Is(result.Skipped[1], task.ErrInvalidDate) {
		t.Errorf("Skipped[1]: got %v, want ErrInvalidDate", result.Skipped[1])
	}
}

func TestLoadStrict(t *testing.T) {
	path := writeFile(t, `[{"title": "Good"}, {"title": "X", "status": "unknown"}]`)

	result, err := Load(path, Strict())
	if err == nil {
		t.Fatalf("expected error in strict mode, got %+v", result)
	}
	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		t.Fatalf("error = %T, want *EntryError", err)
	}
	if entryErr.Index != 1 {
		t.Errorf("Index: got %d, want 1", entryErr.Index)
	}
	var validationErr *task.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected wrapped *task.ValidationError, got %v", err)
	}

	// File-level problems still degrade to empty.
	bad := writeFile(t, "{oops")
	result, err = Load(bad, Strict())
	if err != nil {
		t.Fatalf("strict Load of invalid JSON returned error: %v", err)
	}
	if len(result.Tasks) != 0 {
		t.Errorf("Tasks: got %d, want 0", len(result.Tasks))
	}
}

func TestLoadEmptyDueDate(t *testing.T) {
	path := writeFile(t, `[{"title": "Good", "due_date": null}, {"title": "Blank date", "due_date": ""}]`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Good" {
		t.Errorf("Tasks: got %d, want only Good", len(result.Tasks))
	}
	if len(result.Skipped) != 1 || !errors.Is(result.Skipped[0], task.ErrInvalidDate) {
		t.Errorf("Skipped: got %v, want one ErrInvalidDate", result.Skipped)
	}

	_, err = Load(path, Strict())
	var entryErr *EntryError
	if !errors.As(err, &entryErr) || entryErr.Index != 1 || !errors.Is(err, task.ErrInvalidDate) {
		t.Errorf("strict Load error = %v, want *EntryError at index 1 wrapping ErrInvalidDate", err)
	}
}

func TestLoadTypeErrors(t *testing.T) {
	path := writeFile(t, `[{"title": 5}, {"title": "X", "due_date": 20250101}]`)
	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("Skipped count: got %d, want 2", len(result.Skipped))
	}
	for _, skipped := range result.Skipped {
		if !errors.Is(skipped, task.ErrWrongType) {
			t.Errorf("Skipped: got %v, want ErrWrongType", skipped)
		}
	}
}

func ptr(s string) *string { return &s }
