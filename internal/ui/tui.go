// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/posts"
	"github.com/nibzard/taskdeck/internal/tasks"
	"github.com/nibzard/taskdeck/internal/theme"
)

// Fetcher loads posts from the remote source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]posts.Post, error)
}

// Deps are the services the interface operates on.
type Deps struct {
	Tasks         *tasks.Manager
	Theme         *theme.Provider
	Posts         Fetcher
	TaskPageSize  int
	PostsPageSize int
	Logger        *log.Logger
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	startView view
	output    io.Writer
}

// WithStartView opens the TUI on the named view (home, tasks, posts).
func WithStartView(name string) TUIOption {
	return func(c *tuiConfig) {
		if v, ok := parseView(name); ok {
			c.startView = v
		}
	}
}

// RunTUI starts the TUI and blocks until the user quits or ctx is done.
func RunTUI(ctx context.Context, deps Deps, opts ...TUIOption) error {
	c := &tuiConfig{
		startView: viewHome,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newAppModel(ctx, deps)
	model.startView = c.startView
	return runProgram(ctx, model)
}

func runProgram(ctx context.Context, model *appModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	// The feed may still have a fetch in flight after a context cancel.
	model.shutdown()
	if err != nil {
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
