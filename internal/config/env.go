package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/taskdeck/internal/utils"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKDECK_"

// envBinding maps one environment variable to a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, v string) error
}

func envBindings() []envBinding {
	str := func(set func(*Config, string)) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			set(cfg, v)
			return nil
		}
	}
	integer := func(set func(*Config, int)) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			set(cfg, i)
			return nil
		}
	}
	boolean := func(set func(*Config, bool)) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			set(cfg, utils.BoolFromString(v))
			return nil
		}
	}

	return []envBinding{
		{"STATE_DIR", "state_dir", str(func(c *Config, v string) { c.StateDir = v })},
		{"LOG_DIR", "log_dir", str(func(c *Config, v string) { c.LogDir = v })},
		{"POSTS_URL", "posts_url", str(func(c *Config, v string) { c.PostsURL = v })},
		{"POSTS_PAGE_SIZE", "posts_page_size", integer(func(c *Config, v int) { c.PostsPageSize = v })},
		{"FETCH_TIMEOUT", "fetch_timeout_seconds", integer(func(c *Config, v int) { c.FetchTimeoutSeconds = v })},
		{"TASK_PAGE_SIZE", "task_page_size", integer(func(c *Config, v int) { c.TaskPageSize = v })},
		{"THEME", "theme", str(func(c *Config, v string) { c.Theme = strings.ToLower(v) })},
		{"LOG_LEVEL", "log_level", str(func(c *Config, v string) { c.LogLevel = v })},
		{"LOG_FORMAT", "log_format", str(func(c *Config, v string) { c.LogFormat = v })},
		{"LOG_TIMESTAMPS", "log_timestamps", boolean(func(c *Config, v bool) { c.LogTimestamps = v })},
		{"LOG_CALLER", "log_caller", boolean(func(c *Config, v bool) { c.LogCaller = v })},
		{"KEEP_RUN_LOGS", "keep_run_logs", integer(func(c *Config, v int) { c.KeepRunLogs = v })},
		{"EPHEMERAL", "", boolean(func(c *Config, v bool) { c.Ephemeral = v })},
	}
}

// loadFromEnv overrides config from TASKDECK_* environment variables and
// records the environment as the source of every value it sets.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	for _, b := range envBindings() {
		name := EnvPrefix + b.name
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if sources != nil && b.field != "" {
			sources[b.field] = SourceEnv
		}
	}
	return nil
}

// EnvNames lists the environment variables Load reads.
func EnvNames() []string {
	bindings := envBindings()
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		names = append(names, EnvPrefix+b.name)
	}
	return names
}
