// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/config"
	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/store"
	"github.com/nibzard/taskdeck/internal/tasks"
	"github.com/nibzard/taskdeck/internal/theme"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage")

// cli carries what every subcommand needs.
type cli struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	c := &cli{
		cws:    cws,
		cfg:    cws.Config,
		stdout: stdout,
		stderr: stderr,
	}
	c.logger = logging.NewFromConfig(stderr, c.cfg.LogLevel, c.cfg.LogFormat,
		c.cfg.LogTimestamps, c.cfg.LogCaller, logging.DefaultOptions().Prefix)

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	case "doctor":
		return c.doctorCommand(remainingArgs)
	case "config":
		return c.configCommand(remainingArgs)
	}

	// Everything below operates on state and needs a usable config.
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch subcommand {
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "add":
		return c.addCommand(remainingArgs)
	case "toggle":
		return c.toggleCommand(remainingArgs)
	case "rm", "delete":
		return c.rmCommand(remainingArgs)
	case "ls", "list":
		return c.lsCommand(remainingArgs)
	case "posts":
		return c.postsCommand(ctx, remainingArgs)
	case "theme":
		return c.themeCommand(remainingArgs)
	case "tail":
		return c.tailCommand(ctx, remainingArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openKV returns the persistence layer selected by the config.
func (c *cli) openKV() store.KV {
	if c.cfg.Ephemeral {
		c.logger.Debug("using in-memory state")
		return store.NewMemoryKV()
	}
	return store.NewFileKV(c.cfg.StateDir)
}

func (c *cli) openTasks(kv store.KV, logger *log.Logger) *tasks.Manager {
	mgr := tasks.Open(kv, tasks.WithLogger(logger))
	if err := mgr.LoadErr(); err != nil {
		logger.Debug("starting with an empty task list", "reason", err)
	}
	return mgr
}

// openTheme loads the theme preference and applies a configured override.
func (c *cli) openTheme(kv store.KV, logger *log.Logger) *theme.Provider {
	p := theme.Init(kv, nil, theme.WithLogger(logger))
	if forced, ok := c.cfg.ThemeOverride(); ok && forced != p.Current() {
		if err := p.Set(forced); err != nil {
			logger.Warn("configured theme not persisted", "theme", forced, "err", err)
		}
	}
	return p
}

// newFlagSet returns a subcommand flag set writing usage to stderr.
func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("taskdeck "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskdeck version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskdeck - tasks and posts in the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskdeck [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui [view]          Launch the terminal UI (default; view: home|tasks|posts)")
	fmt.Fprintln(w, "  add <text...>       Add a task")
	fmt.Fprintln(w, "  toggle <id>         Toggle a task between active and completed")
	fmt.Fprintln(w, "  rm <id>             Delete a task")
	fmt.Fprintln(w, "  ls [filter]         List tasks (filter: all|active|completed)")
	fmt.Fprintln(w, "  posts               Fetch and list posts")
	fmt.Fprintln(w, "  theme [light|dark|toggle]  Show or change the theme")
	fmt.Fprintln(w, "  doctor              Check config, state directory and task file")
	fmt.Fprintln(w, "  config              Show effective configuration and sources")
	fmt.Fprintln(w, "  tail                Tail the latest TUI run log")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -search string")
	fmt.Fprintln(w, "        Only show tasks containing the term")
	fmt.Fprintln(w, "  -page int")
	fmt.Fprintln(w, "        Page to show (default 1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Posts Options (use with 'posts' command):")
	fmt.Fprintln(w, "  -search string")
	fmt.Fprintln(w, "        Only show posts whose title, body or tags contain the term")
	fmt.Fprintln(w, "  -page int")
	fmt.Fprintln(w, "        Page to show (default 1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List run logs instead of tailing")
}
