package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ProjectConfigNames are the project config file names, in lookup order.
var ProjectConfigNames = []string{DefaultConfigFileName, "." + DefaultConfigFileName}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range ProjectConfigNames {
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.taskdeck/taskdeck.toml first, then falls back to the OS-specific
// config directory.
func findUserConfigFile() string {
	for _, path := range UserConfigPaths() {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path
		}
	}
	return ""
}

// UserConfigPaths returns the candidate user config files in lookup order.
func UserConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".taskdeck", DefaultConfigFileName))
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		paths = append(paths, filepath.Join(cfgDir, "taskdeck", DefaultConfigFileName))
	}
	return paths
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		// Respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StateDir = DefaultStateDir
	cfg.LogDir = DefaultLogDir
	cfg.PostsURL = DefaultPostsURL
	cfg.PostsPageSize = DefaultPostsPageSize
	cfg.FetchTimeoutSeconds = DefaultFetchTimeout
	cfg.TaskPageSize = DefaultTaskPageSize
	cfg.Theme = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.KeepRunLogs = DefaultKeepRunLogs
}

// Defaults returns a config holding only built-in defaults, without
// resolving paths.
func Defaults() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}
