package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/taskdeck/internal/config"
	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/statedir"
	"github.com/nibzard/taskdeck/internal/store"
	"github.com/nibzard/taskdeck/internal/theme"
)

// doctorCommand checks config, state directory and task file validity.
func (c *cli) doctorCommand(args []string) error {
	fs := c.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	w := c.stdout
	fmt.Fprintln(w, "taskdeck doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Check config
	fmt.Fprintln(w, "Config:")
	if file := c.cws.ConfigFile(); file != "" {
		fmt.Fprintf(w, "  File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  File: (none, using defaults)")
	}
	if err := c.cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "  ❌ %s\n", line)
		}
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ Valid")
	}
	for _, key := range c.cws.Unknown {
		fmt.Fprintf(w, "  ⚠️  Unknown key: %s\n", key)
	}
	fmt.Fprintln(w)

	// Check state directory
	if c.cfg.Ephemeral {
		fmt.Fprintln(w, "State directory: (in memory, --ephemeral)")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "State directory: %s\n", c.cfg.StateDir)
		if !checkStateDir(w, c.cfg.StateDir) {
			allOK = false
		}
		fmt.Fprintln(w)

		// Check tasks file
		tasksPath := statedir.TasksPath(c.cfg.StateDir)
		fmt.Fprintf(w, "Tasks file: %s\n", tasksPath)
		mgr := c.openTasks(c.openKV(), logging.Discard())
		result, err := mgr.Validate()
		switch {
		case errors.Is(err, store.ErrNotFound):
			fmt.Fprintln(w, "  ⚠️  Not found (created on first change)")
		case err != nil:
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		case !result.Valid:
			fmt.Fprintln(w, "  ❌ Validation failed (the list loads as empty):")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		default:
			stats := mgr.Stats()
			fmt.Fprintf(w, "  ✅ Valid (%d tasks, %d completed)\n", stats.Total, stats.Completed)
			if *verbose {
				for _, t := range mgr.All() {
					fmt.Fprintf(w, "    - %d %s\n", t.ID, t.Text)
				}
			}
		}

		// Check theme file
		themePath := statedir.ThemePath(c.cfg.StateDir)
		fmt.Fprintf(w, "Theme file: %s\n", themePath)
		themes := theme.Init(store.NewFileKV(c.cfg.StateDir), nil)
		if _, err := os.Stat(themePath); err != nil {
			fmt.Fprintf(w, "  ⚠️  Not found (using %s)\n", themes.Current())
		} else {
			fmt.Fprintf(w, "  ✅ %s\n", themes.Current())
		}
		fmt.Fprintln(w)
	}

	// Check log directory
	logDir, err := logging.FindLogDir(c.cfg.LogDir, c.cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintf(w, "Log directory: %s\n", c.cfg.LogDir)
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "Log directory: %s\n", logDir)
		runs, err := logging.FindRuns(logDir)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		case len(runs) == 0:
			fmt.Fprintln(w, "  ⚠️  No run logs yet")
		default:
			fmt.Fprintf(w, "  ✅ %d run log(s), latest %s\n", len(runs), runs[0].RunID)
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkStateDir reports whether dir exists (or can be created) and is a
// directory.
func checkStateDir(w io.Writer, dir string) bool {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (created on first change)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		return false
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		fmt.Fprintf(w, "  ❌ Not writable: %v\n", err)
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	fmt.Fprintln(w, "  ✅ OK")
	return true
}

// configCommand prints the effective configuration and where each value
// came from.
func (c *cli) configCommand(args []string) error {
	fs := c.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	paths := fs.Bool("paths", false, "List the config file locations that are searched")

	if err := fs.Parse(args); err != nil {
		return err
	}

	w := c.stdout
	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}
	if *paths {
		for _, p := range config.UserConfigPaths() {
			fmt.Fprintf(w, "user:    %s\n", p)
		}
		for _, name := range config.ProjectConfigNames {
			fmt.Fprintf(w, "project: %s\n", filepath.Join(c.cfg.ProjectRoot, name))
		}
		return nil
	}

	for _, file := range c.cws.Files {
		fmt.Fprintf(w, "# read %s\n", file)
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(w, "%-22s = %-40v # %s\n", field, c.cfg.Value(field), c.cws.Sources[field])
	}
	fmt.Fprintf(w, "%-22s = %v\n", "ephemeral", c.cfg.Ephemeral)
	for _, key := range c.cws.Unknown {
		fmt.Fprintf(w, "# unknown key %s ignored\n", key)
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
