package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasker configuration file
# Values can be overridden by TASKER_* environment variables or CLI flags

# Task file (relative to the working directory, supports ~ and $VAR)
tasks_file = "tasks.json"

# Fail on the first invalid task instead of skipping it
strict_load = false

# Shell command run after every save; receives TASKER_FILE and TASKER_TASK_COUNT
# hook_command = "git -C ~/notes commit -qam 'tasks'"

# Logging (written to stderr)
log_level = "warn"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
