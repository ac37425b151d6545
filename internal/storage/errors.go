package storage

import "fmt"

// StorageError wraps a failure to write the task file.
type StorageError struct {
	Op   string // Operation that failed (encode, create, write, rename)
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s task file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// EntryError reports an array element that could not be turned into a task.
type EntryError struct {
	Index int // Zero-based position in the JSON array
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("tasks[%d]: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}
