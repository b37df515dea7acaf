package ui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/theme"
)

type view int

const (
	viewHome view = iota
	viewTasks
	viewPosts
)

var viewNames = []string{"Home", "Tasks", "Posts"}

func (v view) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "unknown"
}

func parseView(name string) (view, bool) {
	for i, n := range viewNames {
		if strings.EqualFold(n, name) {
			return view(i), true
		}
	}
	return viewHome, false
}

// appModel is the root bubbletea model. It owns navigation, the theme and
// quitting; everything else is delegated to the active view.
type appModel struct {
	ctx    context.Context
	logger *log.Logger

	themes      *theme.Provider
	styles      theme.Styles
	unsubscribe func()
	notice      string

	view      view
	startView view
	home      *homeView
	tasks     *tasksView
	posts     *postsView

	width  int
	height int
	closed bool
}

func newAppModel(ctx context.Context, deps Deps) *appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &appModel{
		ctx:    ctx,
		logger: logger,
		themes: deps.Theme,
		styles: theme.StylesFor(deps.Theme.Current()),
		home:   newHomeView(),
		tasks:  newTasksView(deps.Tasks, deps.TaskPageSize, logger),
		posts:  newPostsView(deps.Posts, deps.PostsPageSize, logger),
	}
	m.unsubscribe = deps.Theme.Subscribe(func(t theme.Theme) {
		m.styles = theme.StylesFor(t)
	})
	return m
}

func (m *appModel) Init() tea.Cmd {
	return m.switchTo(m.startView)
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tasks.setWidth(msg.Width)
		m.posts.setWidth(msg.Width)
		return m, nil

	case postsLoadedMsg, spinner.TickMsg:
		return m, m.posts.update(m.ctx, msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.inputActive() {
			return m, m.route(msg)
		}
		switch msg.String() {
		case "q":
			return m, m.quit()
		case "t":
			m.toggleTheme()
			return m, nil
		case "tab":
			return m, m.switchTo((m.view + 1) % view(len(viewNames)))
		case "shift+tab":
			return m, m.switchTo((m.view + view(len(viewNames)) - 1) % view(len(viewNames)))
		case "1":
			return m, m.switchTo(viewHome)
		case "2":
			return m, m.switchTo(viewTasks)
		case "3":
			return m, m.switchTo(viewPosts)
		}
		if m.view == viewHome && msg.String() == "enter" {
			return m, m.switchTo(viewTasks)
		}
		return m, m.route(msg)

	default:
		return m, m.route(msg)
	}
}

func (m *appModel) route(msg tea.Msg) tea.Cmd {
	switch m.view {
	case viewTasks:
		return m.tasks.update(msg)
	case viewPosts:
		return m.posts.update(m.ctx, msg)
	}
	return nil
}

func (m *appModel) inputActive() bool {
	switch m.view {
	case viewTasks:
		return m.tasks.inputActive()
	case viewPosts:
		return m.posts.inputActive()
	}
	return false
}

func (m *appModel) switchTo(v view) tea.Cmd {
	if m.view != v {
		m.logger.Debug("view changed", "from", m.view, "to", v)
	}
	m.view = v
	m.notice = ""
	if v == viewPosts {
		return m.posts.enter(m.ctx)
	}
	return nil
}

func (m *appModel) toggleTheme() {
	next, err := m.themes.Toggle()
	if err != nil {
		m.notice = "Theme changed but could not be saved: " + err.Error()
		return
	}
	m.notice = "Theme: " + string(next)
}

func (m *appModel) quit() tea.Cmd {
	m.shutdown()
	return tea.Quit
}

// shutdown discards any fetch still in flight and drops the theme
// subscription. It is safe to call more than once.
func (m *appModel) shutdown() {
	if m.closed {
		return
	}
	m.closed = true
	m.posts.close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *appModel) View() string {
	if m.closed {
		return ""
	}
	st := m.styles

	var body string
	switch m.view {
	case viewTasks:
		body = m.tasks.view(st)
	case viewPosts:
		body = m.posts.view(st)
	default:
		body = m.home.view(st)
	}

	sections := []string{navBar(st, m.view), "", body}
	if m.notice != "" {
		sections = append(sections, "", st.Muted.Render(m.notice))
	}
	sections = append(sections, "", st.Muted.Render(m.footer()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *appModel) footer() string {
	if m.inputActive() {
		return "enter confirm | esc cancel | ctrl+c quit"
	}
	return "tab/1-3 switch view | t theme | q quit"
}
