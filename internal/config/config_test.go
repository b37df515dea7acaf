package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// isolate points the user config lookup and working directory at empty
// temp dirs and clears TASKDECK_* variables.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range EnvNames() {
		t.Setenv(name, "")
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", work)
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("taskdeck", flag.ContinueOnError)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.StateDir != DefaultStateDir {
		t.Errorf("StateDir: got %q, want %q", cfg.StateDir, DefaultStateDir)
	}
	if cfg.PostsPageSize != 9 {
		t.Errorf("PostsPageSize: got %d, want 9", cfg.PostsPageSize)
	}
	if cfg.TaskPageSize != 10 {
		t.Errorf("TaskPageSize: got %d, want 10", cfg.TaskPageSize)
	}
	if cfg.FetchTimeout() != 15*time.Second {
		t.Errorf("FetchTimeout: got %v", cfg.FetchTimeout())
	}
	if cfg.PostsURL != "https://dummyjson.com/posts?limit=100" {
		t.Errorf("PostsURL: got %q", cfg.PostsURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	_, work := isolate(t)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	for _, field := range Fields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if want := filepath.Join(work, DefaultStateDir); cws.Config.StateDir != want {
		t.Errorf("StateDir: got %q, want %q", cws.Config.StateDir, want)
	}
	if cws.ConfigFile() != "" {
		t.Errorf("ConfigFile: got %q, want none", cws.ConfigFile())
	}
}

func TestLoadPrecedence(t *testing.T) {
	home, _ := isolate(t)

	writeFile(t, filepath.Join(home, ".taskdeck", "taskdeck.toml"), `
posts_page_size = 5
task_page_size = 20
log_level = "debug"
theme = "light"
`)
	writeFile(t, "taskdeck.toml", `
posts_page_size = 6
log_format = "json"
`)
	t.Setenv("TASKDECK_LOG_FORMAT", "logfmt")
	t.Setenv("TASKDECK_THEME", "DARK")

	cws, err := LoadWithSources(newFlagSet(), []string{"-log-level", "warn", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		got    any
		want   any
		source ConfigSource
	}{
		{"posts_page_size", cfg.PostsPageSize, 6, SourceProjFile},
		{"task_page_size", cfg.TaskPageSize, 20, SourceUserFile},
		{"log_format", cfg.LogFormat, "logfmt", SourceEnv},
		{"theme", cfg.Theme, "dark", SourceEnv},
		{"log_level", cfg.LogLevel, "warn", SourceFlag},
		{"posts_url", cfg.PostsURL, DefaultPostsURL, SourceDefault},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.field, tt.got, tt.want)
		}
		if cws.Sources[tt.field] != tt.source {
			t.Errorf("%s source: got %q, want %q", tt.field, cws.Sources[tt.field], tt.source)
		}
	}
	if len(cws.Files) != 2 || cws.ConfigFile() != "taskdeck.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestLoadLeavesPositionalArgs(t *testing.T) {
	isolate(t)
	fs := newFlagSet()
	if _, err := Load(fs, []string{"-ephemeral", "add", "buy", "milk"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(fs.Args(), " "); got != "add buy milk" {
		t.Errorf("Args: got %q", got)
	}
}

func TestUnsetFlagsKeepFileValues(t *testing.T) {
	isolate(t)
	writeFile(t, ".taskdeck.toml", `fetch_timeout_seconds = 3`)

	cfg, err := Load(newFlagSet(), []string{"-posts-page-size", "4"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FetchTimeoutSeconds != 3 {
		t.Errorf("FetchTimeoutSeconds: got %d, want 3", cfg.FetchTimeoutSeconds)
	}
	if cfg.PostsPageSize != 4 {
		t.Errorf("PostsPageSize: got %d, want 4", cfg.PostsPageSize)
	}
}

func TestLoadFlagsEphemeral(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), []string{"-ephemeral"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Ephemeral {
		t.Error("Ephemeral: got false")
	}

	t.Setenv("TASKDECK_EPHEMERAL", "yes")
	cfg, err = Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Ephemeral {
		t.Error("Ephemeral from env: got false")
	}
}

func TestLoadInvalidEnvInt(t *testing.T) {
	isolate(t)
	t.Setenv("TASKDECK_POSTS_PAGE_SIZE", "nine")
	_, err := Load(newFlagSet(), nil)
	if err == nil || !strings.Contains(err.Error(), "TASKDECK_POSTS_PAGE_SIZE") {
		t.Errorf("got %v, want error naming the variable", err)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	isolate(t)
	writeFile(t, "taskdeck.toml", `posts_page_size = "many"`)
	if _, err := Load(newFlagSet(), nil); err == nil {
		t.Error("expected error for mistyped value")
	}
}

func TestUnknownKeys(t *testing.T) {
	isolate(t)
	writeFile(t, "taskdeck.toml", `
posts_page_size = 9
max_iterations = 50
`)
	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cws.Unknown) != 1 || !strings.Contains(cws.Unknown[0], "max_iterations") {
		t.Errorf("Unknown: got %v", cws.Unknown)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero posts page size", func(c *Config) { c.PostsPageSize = 0 }, "posts_page_size"},
		{"negative task page size", func(c *Config) { c.TaskPageSize = -1 }, "task_page_size"},
		{"negative timeout", func(c *Config) { c.FetchTimeoutSeconds = -5 }, "fetch_timeout_seconds"},
		{"relative url", func(c *Config) { c.PostsURL = "/posts" }, "posts_url"},
		{"ftp url", func(c *Config) { c.PostsURL = "ftp://example.com/posts" }, "posts_url"},
		{"bad theme", func(c *Config) { c.Theme = "sepia" }, "theme"},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"empty state dir", func(c *Config) { c.StateDir = "" }, "state_dir"},
		{"no run logs kept", func(c *Config) { c.KeepRunLogs = 0 }, "keep_run_logs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.want)
			}
		})
	}

	cfg := Defaults()
	cfg.Theme = "auto"
	if err := cfg.Validate(); err != nil {
		t.Errorf("auto theme rejected: %v", err)
	}
}

func TestThemeOverride(t *testing.T) {
	cfg := Defaults()
	if _, ok := cfg.ThemeOverride(); ok {
		t.Error("default config forces a theme")
	}
	cfg.Theme = "dark"
	if th, ok := cfg.ThemeOverride(); !ok || th != "dark" {
		t.Errorf("ThemeOverride: got %q, %v", th, ok)
	}
}

func TestFetchTimeoutDisabled(t *testing.T) {
	cfg := Defaults()
	cfg.FetchTimeoutSeconds = 0
	if cfg.FetchTimeout() != 0 {
		t.Errorf("FetchTimeout: got %v, want 0", cfg.FetchTimeout())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("TASKDECK_TEST_DIR", "/srv/data")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"$TASKDECK_TEST_DIR/state", "/srv/data/state"},
		{"relative/dir", "relative/dir"},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, struct{ in, want string }{`%TASKDECK_TEST_DIR%\x`, `/srv/data\x`})
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValueCoversFields(t *testing.T) {
	cfg := Defaults()
	for _, field := range Fields() {
		if cfg.Value(field) == nil {
			t.Errorf("Value(%s) = nil", field)
		}
	}
	if cfg.Value("theme") != "auto" {
		t.Errorf("Value(theme): got %v, want auto", cfg.Value("theme"))
	}
}

func TestExampleConfigParses(t *testing.T) {
	isolate(t)
	writeFile(t, "taskdeck.toml", ExampleConfig())
	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config: %v", err)
	}
	if len(cws.Unknown) != 0 {
		t.Errorf("example config has unknown keys: %v", cws.Unknown)
	}
	if err := cws.Config.Validate(); err != nil {
		t.Errorf("example config invalid: %v", err)
	}
}
