// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskdeck/taskdeck.toml or the OS config directory)
// 3. Project config file (taskdeck.toml or .taskdeck.toml in the working directory)
// 4. Environment variables (TASKDECK_*)
// 5. CLI flags
//
// Paths support ~ expansion and environment variables. A relative state_dir
// is resolved against the project root.
package config
