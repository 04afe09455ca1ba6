package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# To-Do List configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Collections file (supports ~ expansion and %VAR% on Windows)
# data_file = "~/.todolist/collections.json"

# JSON Schema used by "todolist doctor" (empty uses the bundled schema)
# schema_file = ""

# Session log directory used by the interactive interface
# log_dir = "~/.todolist/logs"

# Number of session logs to keep (0 keeps all)
log_keep = 10

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false

# Filter applied when the interface starts: all, unresolved, done
default_filter = "all"

# Multiplier for notification timeouts
toast_scale = 1.0
`
}
