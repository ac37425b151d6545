package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/tasker-go/internal/task"
)

// Result is the outcome of Load.
type Result struct {
	Tasks []*task.Task
	// Skipped lists entries dropped because they failed validation.
	Skipped []*EntryError
	// FileErr is the reason the whole file was treated as empty, if any.
	// It is nil for a missing or empty file.
	FileErr error
}

type loadOptions struct {
	strict bool
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// Strict makes Load fail on the first entry that is not a valid task.
func Strict() LoadOption {
	return WithStrict(true)
}

// WithStrict sets strict mode from a flag value.
func WithStrict(strict bool) LoadOption {
	return func(o *loadOptions) {
		o.strict = strict
	}
}

// Load reads the task list from path. The only error it returns is an
// *EntryError in strict mode.
func Load(path string, opts ...LoadOption) (*Result, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	result := &Result{Tasks: []*task.Task{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.FileErr = fmt.Errorf("read task file: %w", err)
		}
		return result, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		result.FileErr = fmt.Errorf("parse task file: %w", err)
		return result, nil
	}
	items, ok := root.([]any)
	if !ok {
		result.FileErr = fmt.Errorf("parse task file: root is %s, want array", jsonKind(root))
		return result, nil
	}

	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		t, err := task.FromMap(record)
		if err != nil {
			entryErr := &EntryError{Index: i, Err: err}
			if o.strict {
				return nil, entryErr
			}
			result.Skipped = append(result.Skipped, entryErr)
			continue
		}
		result.Tasks = append(result.Tasks, t)
	}

	return result, nil
}

// defaultFileMode is the mode of a newly created task file.
const defaultFileMode fs.FileMode = 0644

// Save writes tasks to path, replacing any existing file and keeping its
// permission bits. Failures are returned as *StorageError.
func Save(path string, tasks []*task.Task) error {
	data, err := Marshal(tasks)
	if err != nil {
		return &StorageError{Op: "encode", Path: path, Err: err}
	}

	mode := defaultFileMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &StorageError{Op: "rename", Path: path, Err: err}
	}

	return nil
}

// Marshal encodes tasks in the file format. A nil slice encodes as [].
func Marshal(tasks []*task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encode adds the trailing newline.
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
