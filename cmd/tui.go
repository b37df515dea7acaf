package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/theme"
	"github.com/nibzard/taskdeck/internal/ui"
)

// tuiCommand launches the TUI. Logs go to a per-run file so they do not
// draw over the screen.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := c.newFlagSet("tui")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []ui.TUIOption
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		opts = append(opts, ui.WithStartView(remaining[0]))
	}

	runLog, err := logging.NewRunLogger(c.cfg.LogDir, c.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()

	logger := logging.NewFromConfig(runLog.Writer(), c.cfg.LogLevel, c.cfg.LogFormat,
		true, c.cfg.LogCaller, logging.DefaultOptions().Prefix)
	logger = logger.With("run_id", runLog.RunID)

	if removed, err := logging.PruneRuns(runLog.Dir, c.cfg.KeepRunLogs); err != nil {
		logger.Warn("pruning old run logs", "err", err)
	} else if removed > 0 {
		logger.Debug("pruned old run logs", "count", removed)
	}

	kv := c.openKV()
	mgr := c.openTasks(kv, logger)
	themes := c.openTheme(kv, logger)

	client := c.newPostsClient()
	client.Logger = logger

	logger.Info("tui started", "state_dir", c.cfg.StateDir, "ephemeral", c.cfg.Ephemeral, "tasks", len(mgr.All()), "theme", themes.Current())
	err = ui.RunTUI(ctx, ui.Deps{
		Tasks:         mgr,
		Theme:         themes,
		Posts:         client,
		TaskPageSize:  c.cfg.TaskPageSize,
		PostsPageSize: c.cfg.PostsPageSize,
		Logger:        logger,
	}, opts...)
	if err != nil {
		logger.Error("tui exited", "err", err)
		return err
	}
	logger.Info("tui exited")
	return nil
}

// themeCommand shows or changes the theme preference.
func (c *cli) themeCommand(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: theme [light|dark|toggle]", errUsage)
	}
	themes := c.openTheme(c.openKV(), c.logger)
	if len(args) == 0 {
		fmt.Fprintln(c.stdout, themes.Current())
		return nil
	}

	var next theme.Theme
	if args[0] == "toggle" {
		next = themes.Current().Opposite()
	} else {
		t, err := theme.Parse(args[0])
		if err != nil {
			return err
		}
		next = t
	}
	if err := themes.Set(next); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	fmt.Fprintf(c.stdout, "Theme set to %s\n", next)
	return nil
}

// tailCommand tails the latest run log.
func (c *cli) tailCommand(ctx context.Context, args []string) error {
	fs := c.newFlagSet("tail")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List run logs instead of tailing")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(c.cfg.LogDir, c.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		runs, err := logging.FindRuns(logDir)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(c.stdout, "No log files found.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(c.stdout, "%s  %s  %d bytes\n", r.RunID, r.ModTime.Format("2006-01-02 15:04:05"), r.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(c.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(c.stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(c.stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(c.stdout)

	return logging.TailLog(ctx, c.stdout, logPath, *n, *follow)
}
