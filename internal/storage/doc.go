// Package storage saves and loads the task list as a JSON file.
//
// The file is a JSON array of task objects:
//
//	[
//	  {
//	    "title": "Buy milk",
//	    "description": "Get 2L",
//	    "due_date": "2099-01-01",
//	    "status": "pending"
//	  }
//	]
//
// # Load Policy
//
// Load never fails because of the file as a whole: a missing, unreadable,
// empty, or malformed file, or one whose root is not an array, loads as an
// empty list. Array elements that are not objects are dropped, as are keys
// other than title, description, due_date, and status.
//
// Entries that fail task validation are skipped and reported in
// Result.Skipped. With Strict, the first such entry aborts the load.
//
// # File Format
//
// When writing, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Literal Unicode (no \u escapes, no HTML escaping)
//   - Atomic replace via a temporary file in the same directory
package storage
