package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskflow-go/internal/utils"
)

const (
	todosSchemaURL = "https://taskflow.local/schema/todos.schema.json"
	taskSchemaURL  = todosSchemaURL + "#/$defs/task"
	bundledSchema  = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "TaskFlow task list",
  "type": "array",
  "items": { "$ref": "#/$defs/task" },
  "$defs": {
    "task": {
      "type": "object",
      "required": ["id", "todo", "isCompleted"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "todo": { "type": "string", "pattern": "\\S" },
        "isCompleted": { "type": "boolean" }
      }
    }
  }
}`
)

// BundledSchema returns the embedded JSON Schema for the stored task list.
func BundledSchema() []byte {
	return []byte(bundledSchema)
}

var (
	schemaOnce  sync.Once
	taskSchema  *jsonschema.Schema
	todosSchema *jsonschema.Schema
	schemaErr   error
)

func compileBundled() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(todosSchemaURL, strings.NewReader(bundledSchema)); err != nil {
		schemaErr = fmt.Errorf("add bundled schema: %w", err)
		return
	}
	if todosSchema, schemaErr = compiler.Compile(todosSchemaURL); schemaErr != nil {
		return
	}
	taskSchema, schemaErr = compiler.Compile(taskSchemaURL)
}

func bundledTaskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(compileBundled)
	return taskSchema, schemaErr
}

func bundledTodosSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(compileBundled)
	return todosSchema, schemaErr
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file for the whole list.
	// If empty or unusable, the bundled schema is used.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	// SchemaPath is the external schema that was applied, empty when the
	// bundled schema was used.
	SchemaPath string
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
}

func (r *ValidationResult) addError(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// Validate checks a stored task list against the list schema and the
// unique-id rule. Unlike Decode it reports on the document as a whole and
// drops nothing.
func Validate(raw string, opts ValidationOptions) *ValidationResult {
	result := newResult()

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		result.addError("", fmt.Errorf("invalid JSON: %w", err))
		return result
	}

	schema := externalSchema(opts.SchemaPath, result)
	if schema == nil {
		var err error
		schema, err = bundledTodosSchema()
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available: %v", err))
		}
	}
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			appendSchemaErrors(result, "", err)
		}
	}

	items, ok := doc.([]interface{})
	if !ok {
		if schema == nil {
			result.addError("", fmt.Errorf("expected an array"))
		}
		return result
	}
	seen := make(map[string]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id, _ := obj["id"].(string)
		if id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			result.addError(fmt.Sprintf("[%d].id", i), fmt.Errorf("duplicate id %q (first at [%d])", id, first))
			continue
		}
		seen[id] = i
	}
	return result
}

// externalSchema compiles the schema at path. Problems become warnings and a
// nil schema, so callers fall back to the bundled one.
func externalSchema(path string, result *ValidationResult) *jsonschema.Schema {
	if path == "" {
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return nil
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s (using bundled schema)", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v (using bundled schema)", err))
		return nil
	}
	result.SchemaPath = absPath
	return schema
}

// validateTaskMinimal enforces the task invariants without a schema.
func validateTaskMinimal(task *Task, path string) *ValidationError {
	if task.ID == "" {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("missing required field"),
		}
	}
	if strings.TrimSpace(task.Title) == "" {
		return &ValidationError{
			Path: path + ".todo",
			Err:  fmt.Errorf("title is blank"),
		}
	}
	return nil
}

func appendSchemaErrors(result *ValidationResult, prefix string, err error) {
	if err == nil {
		return
	}
	result.Valid = false

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, &ValidationError{Path: prefix, Err: err})
		return
	}
	collectSchemaErrors(result, prefix, ve)
}

func collectSchemaErrors(result *ValidationResult, prefix string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: joinPath(prefix, utils.JSONPointerToPath(err.InstanceLocation)),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, prefix, cause)
	}
}

func joinPath(prefix, sub string) string {
	switch {
	case sub == "":
		return prefix
	case prefix == "" || strings.HasPrefix(sub, "["):
		return prefix + sub
	default:
		return prefix + "." + sub
	}
}
