package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskdeck configuration file
# Values can be overridden by TASKDECK_* environment variables or CLI flags

# State directory holding tasks.json and theme.json (relative to the project root)
state_dir = ".taskdeck"

# Log directory for TUI run logs (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.taskdeck/logs"

# Number of run logs kept per project
keep_run_logs = 20

# Posts endpoint. Responses may be a bare JSON array of posts or an object
# with a "posts" array.
posts_url = "https://dummyjson.com/posts?limit=100"

# Posts per page in the posts browser
posts_page_size = 9

# Abort a posts fetch after this many seconds (0 disables the timeout)
fetch_timeout_seconds = 15

# Tasks per page in the task list
task_page_size = 10

# Initial theme: light, dark, or auto (saved preference, then terminal background)
# theme = "auto"

# Logging
log_level = "info"    # debug, info, warn, error
log_format = "text"   # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
