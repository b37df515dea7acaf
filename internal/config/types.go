package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/posts"
	"github.com/nibzard/taskdeck/internal/statedir"
	"github.com/nibzard/taskdeck/internal/theme"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Unknown lists keys found in config files that no field accepts.
	Unknown []string
}

// Default values.
const (
	DefaultStateDir       = statedir.Dir
	DefaultLogDir         = "~/.taskdeck/logs"
	DefaultPostsURL       = posts.DefaultURL
	DefaultPostsPageSize  = 9
	DefaultTaskPageSize   = 10
	DefaultFetchTimeout   = 15
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultKeepRunLogs    = 20
	DefaultConfigFileName = statedir.DefaultConfigFile
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// Paths
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`

	// Posts
	PostsURL            string `toml:"posts_url"`
	PostsPageSize       int    `toml:"posts_page_size"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`

	// Tasks
	TaskPageSize int `toml:"task_page_size"`

	// Theme forces the initial theme when set; empty means the saved
	// preference or the terminal background.
	Theme string `toml:"theme"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	KeepRunLogs   int    `toml:"keep_run_logs"`

	// Ephemeral keeps all state in memory for this process only.
	Ephemeral bool `toml:"-"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// FetchTimeout returns the fetch timeout as a duration. Zero disables it.
func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// ThemeOverride returns the forced theme, if one is configured.
func (c *Config) ThemeOverride() (theme.Theme, bool) {
	if c.Theme == "" || c.Theme == "auto" {
		return "", false
	}
	t, err := theme.Parse(c.Theme)
	if err != nil {
		return "", false
	}
	return t, true
}

// Validate checks the configuration for values the program cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.StateDir == "" {
		errs = append(errs, errors.New("state_dir must not be empty"))
	}
	if c.PostsPageSize <= 0 {
		errs = append(errs, fmt.Errorf("posts_page_size must be positive, got %d", c.PostsPageSize))
	}
	if c.TaskPageSize <= 0 {
		errs = append(errs, fmt.Errorf("task_page_size must be positive, got %d", c.TaskPageSize))
	}
	if c.FetchTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout_seconds must not be negative, got %d", c.FetchTimeoutSeconds))
	}
	if c.KeepRunLogs < 1 {
		errs = append(errs, fmt.Errorf("keep_run_logs must be at least 1, got %d", c.KeepRunLogs))
	}
	if u, err := url.Parse(c.PostsURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("posts_url must be an absolute http(s) URL, got %q", c.PostsURL))
	}
	if c.Theme != "" && c.Theme != "auto" {
		if _, err := theme.Parse(c.Theme); err != nil {
			errs = append(errs, fmt.Errorf("theme: %w", err))
		}
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format %q is not one of text, json, logfmt", c.LogFormat))
	}
	return errors.Join(errs...)
}
