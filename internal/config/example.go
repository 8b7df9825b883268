package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskflow configuration file
# Values can be overridden by TASKFLOW_* environment variables or CLI flags

# Data directory for storage and logs (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.taskflow"

# Storage backend: file, sqlite or memory
store = "file"

# Storage location (default: storage.json or taskflow.db inside data_dir)
# store_path = "~/.taskflow/storage.json"

# Optional JSON schema used by "taskflow doctor" to check stored tasks
# schema_file = "todos.schema.json"

# Theme used until one is chosen in the terminal UI
dark_mode = true

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
