package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args and applies every
// flag that was set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	}

	// Flags bind to copies so that unset flags never overwrite values from
	// files or the environment.
	v := *cfg

	fs.StringVar(&v.StateDir, "state-dir", cfg.StateDir, "State directory holding tasks and theme")
	fs.StringVar(&v.LogDir, "log-dir", cfg.LogDir, "Log directory for TUI run logs")
	fs.StringVar(&v.PostsURL, "posts-url", cfg.PostsURL, "Posts endpoint")
	fs.IntVar(&v.PostsPageSize, "posts-page-size", cfg.PostsPageSize, "Posts per page")
	fs.IntVar(&v.FetchTimeoutSeconds, "fetch-timeout", cfg.FetchTimeoutSeconds, "Fetch timeout (seconds, 0 disables)")
	fs.IntVar(&v.TaskPageSize, "task-page-size", cfg.TaskPageSize, "Tasks per page")
	fs.StringVar(&v.Theme, "theme", cfg.Theme, "Initial theme (light, dark, auto)")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.IntVar(&v.KeepRunLogs, "keep-run-logs", cfg.KeepRunLogs, "Run logs to keep per project")
	fs.BoolVar(&v.Ephemeral, "ephemeral", cfg.Ephemeral, "Keep state in memory only")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToField := map[string]string{
		"state-dir":       "state_dir",
		"log-dir":         "log_dir",
		"posts-url":       "posts_url",
		"posts-page-size": "posts_page_size",
		"fetch-timeout":   "fetch_timeout_seconds",
		"task-page-size":  "task_page_size",
		"theme":           "theme",
		"log-level":       "log_level",
		"log-format":      "log_format",
		"log-timestamps":  "log_timestamps",
		"log-caller":      "log_caller",
		"keep-run-logs":   "keep_run_logs",
		"ephemeral":       "",
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToField[f.Name]
		if !ok {
			return
		}
		applyFlag(cfg, &v, f.Name)
		if sources != nil && field != "" {
			sources[field] = SourceFlag
		}
	})

	return nil
}

func applyFlag(cfg, v *Config, name string) {
	switch name {
	case "state-dir":
		cfg.StateDir = v.StateDir
	case "log-dir":
		cfg.LogDir = v.LogDir
	case "posts-url":
		cfg.PostsURL = v.PostsURL
	case "posts-page-size":
		cfg.PostsPageSize = v.PostsPageSize
	case "fetch-timeout":
		cfg.FetchTimeoutSeconds = v.FetchTimeoutSeconds
	case "task-page-size":
		cfg.TaskPageSize = v.TaskPageSize
	case "theme":
		cfg.Theme = v.Theme
	case "log-level":
		cfg.LogLevel = v.LogLevel
	case "log-format":
		cfg.LogFormat = v.LogFormat
	case "log-timestamps":
		cfg.LogTimestamps = v.LogTimestamps
	case "log-caller":
		cfg.LogCaller = v.LogCaller
	case "keep-run-logs":
		cfg.KeepRunLogs = v.KeepRunLogs
	case "ephemeral":
		cfg.Ephemeral = v.Ephemeral
	}
}
