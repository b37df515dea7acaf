// Package statedir provides constants and utilities for the .taskdeck directory structure.
package statedir

import "path/filepath"

const (
	// Dir is the name of the taskdeck state directory.
	Dir = ".taskdeck"

	// TasksKey is the storage key of the task list.
	TasksKey = "tasks"

	// ThemeKey is the storage key of the theme preference.
	ThemeKey = "theme"

	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "taskdeck.toml"

	// fileExt is appended to storage keys to form file names.
	fileExt = ".json"
)

// KeyFile returns the file name backing a storage key.
func KeyFile(key string) string {
	return key + fileExt
}

// KeyPath returns the full path of the file backing key inside stateDir.
func KeyPath(stateDir, key string) string {
	return filepath.Join(stateDir, KeyFile(key))
}

// TasksPath returns the path to the tasks file inside stateDir.
func TasksPath(stateDir string) string {
	return KeyPath(stateDir, TasksKey)
}

// ThemePath returns the path to the theme preference file inside stateDir.
func ThemePath(stateDir string) string {
	return KeyPath(stateDir, ThemeKey)
}
