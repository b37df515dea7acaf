// Package theme holds the light/dark preference shared by every view.
//
// The preference is read once by Init and changed only through Set (Toggle
// is Set with the opposite theme). Each change is written back to the state
// directory and announced to subscribers.
package theme

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/statedir"
	"github.com/nibzard/taskdeck/internal/store"
)

// Theme is a color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse parses a theme name.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("invalid theme %q, must be light or dark", s)
	}
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// SystemDefault reports whether the terminal has a dark background.
func SystemDefault() bool {
	return lipgloss.HasDarkBackground()
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// Provider owns the current theme.
type Provider struct {
	mu      sync.Mutex
	list    *store.List[string]
	current Theme
	logger  *log.Logger
}

// Init reads the persisted theme from kv. When none is stored, or the stored
// value is not a theme, detect chooses: true means dark. A nil detect uses
// SystemDefault.
func Init(kv store.KV, detect func() bool, opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	if detect == nil {
		detect = SystemDefault
	}

	p.list = store.Open(kv, statedir.ThemeKey, []string{}, store.WithLogger(p.logger))
	if saved := p.list.Items(); len(saved) > 0 && Theme(saved[0]).Valid() {
		p.current = Theme(saved[0])
		return p
	}

	p.current = Light
	if detect() {
		p.current = Dark
	}
	p.logger.Debug("no saved theme, using system default", "theme", p.current)
	return p
}

// Current returns the active theme.
func (p *Provider) Current() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Set makes t the active theme and persists it. The in-memory theme changes
// even when the write fails.
func (p *Provider) Set(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("invalid theme %q", t)
	}
	p.mu.Lock()
	p.current = t
	p.mu.Unlock()

	if err := p.list.Save([]string{string(t)}); err != nil {
		p.logger.Warn("theme changed but not persisted", "theme", t, "err", err)
		return err
	}
	p.logger.Debug("theme changed", "theme", t)
	return nil
}

// Toggle switches between light and dark and returns the new theme.
func (p *Provider) Toggle() (Theme, error) {
	next := p.Current().Opposite()
	return next, p.Set(next)
}

// Subscribe registers fn to be called with every new theme.
func (p *Provider) Subscribe(fn func(Theme)) (cancel func()) {
	return p.list.Subscribe(func(items []string) {
		if len(items) > 0 {
			fn(Theme(items[0]))
		}
	})
}
