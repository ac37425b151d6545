// Package task defines the to-do item and its validation rules.
//
// A task has four fields, which are also its persisted form:
//
//	{
//	  "title": "Buy milk",
//	  "description": "Get 2L",
//	  "due_date": "2099-01-01",
//	  "status": "pending"
//	}
//
// # Invariants
//
// A task returned by New or FromMap always has a non-empty title, a status
// from the allowed set, and a due date that is either unset or a real
// calendar date.
//
// # Status Values
//
//   - "pending": not started (default)
//   - "in_progress": being worked on
//   - "done": finished (written by Complete)
//   - "completed": finished, accepted for files written by older versions
package task
