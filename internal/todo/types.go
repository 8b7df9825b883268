package todo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StorageKey is the key the task list is persisted under.
const StorageKey = "todos"

// Task is one user-visible unit of work.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"todo"`
	Completed bool   `json:"isCompleted"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Filter selects which tasks a View shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter parses a filter name. ok is false for unknown names, in which
// case FilterAll is returned.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterActive, "todo", "pending":
		return FilterActive, true
	case FilterCompleted, "done":
		return FilterCompleted, true
	default:
		return FilterAll, false
	}
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Label returns the filter's display name.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Encode renders tasks in the storage format. A nil list encodes as [].
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored task list. It never fails: the returned list holds
// every element that passed validation, and the result explains what was
// dropped.
func Decode(raw string) ([]Task, *ValidationResult) {
	result := newResult()
	if strings.TrimSpace(raw) == "" {
		result.addError("", fmt.Errorf("empty value"))
		return []Task{}, result
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		result.addError("", fmt.Errorf("not a JSON array: %w", err))
		return []Task{}, result
	}

	itemSchema, schemaErr := bundledTaskSchema()
	if schemaErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("bundled schema unavailable, using minimal checks: %v", schemaErr))
	}

	tasks := make([]Task, 0, len(elems))
	seen := make(map[string]bool, len(elems))
	for i, elem := range elems {
		path := fmt.Sprintf("[%d]", i)

		if itemSchema != nil {
			var doc interface{}
			if err := json.Unmarshal(elem, &doc); err != nil {
				result.addError(path, err)
				continue
			}
			if err := itemSchema.Validate(doc); err != nil {
				appendSchemaErrors(result, path, err)
				continue
			}
		}

		var task Task
		if err := json.Unmarshal(elem, &task); err != nil {
			result.addError(path, err)
			continue
		}
		if verr := validateTaskMinimal(&task, path); verr != nil {
			result.Valid = false
			result.Errors = append(result.Errors, verr)
			continue
		}
		if seen[task.ID] {
			result.addError(path+".id", fmt.Errorf("duplicate id %q", task.ID))
			continue
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}
	return tasks, result
}
