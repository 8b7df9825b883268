// Package todo holds the task list state and its persisted form.
//
// A Store owns the ordered task list, the task being edited, the staged draft
// text and the active filter. Every command returns a View computed from the
// current state, and every mutating command writes the full list to durable
// key-value storage before it returns.
//
// # Storage format
//
// The list is stored under the key "todos" as a JSON array:
//
//	[
//	  {"id": "5b0c...", "todo": "Buy milk", "isCompleted": false},
//	  {"id": "9e2f...", "todo": "Call mom", "isCompleted": true}
//	]
//
// The field names are fixed so existing data keeps loading.
//
// # Hydration
//
// Loading never fails. A missing key, unreadable storage or a value that is
// not a JSON array yields an empty list. Elements that fail the task schema
// (missing id, blank title, wrong types) or repeat an earlier id are dropped,
// and the rest load in order. Problems are reported as warnings on the
// store's hydration result.
//
// # Commands
//
//   - Add: append a task, or retitle the task under edit
//   - BeginEdit / CancelEdit: select or clear the edit target
//   - Delete: remove a task (clears the edit if it targeted that task)
//   - ToggleComplete: flip the completion flag
//   - SetFilter: choose all, active or completed
//
// Unknown ids and blank text are no-ops. A failed write is logged and kept
// in Err; the in-memory list stays authoritative and the next write replaces
// the stored snapshot.
package todo
