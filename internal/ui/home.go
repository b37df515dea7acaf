package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskdeck/internal/theme"
)

type homeView struct{}

func newHomeView() *homeView {
	return &homeView{}
}

type feature struct {
	title string
	text  string
}

var features = []feature{
	{"Task Management", "Create tasks and mark them complete when done. Everything is saved in .taskdeck."},
	{"Dark Mode", "Switch between light and dark themes with t. The choice is remembered."},
	{"Posts", "Browse posts from a public API with search and pagination."},
}

func (h *homeView) view(st theme.Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Welcome to taskdeck") + "\n")
	b.WriteString(st.Muted.Render("Manage your tasks from the terminal.") + "\n\n")
	b.WriteString(buttonRow(
		button(st, "enter  Get Started", theme.Primary, false),
		button(st, "3  View Posts", theme.Secondary, false),
	))
	b.WriteString("\n\n")

	cards := make([]string, 0, len(features))
	for _, f := range features {
		cards = append(cards, card(st, f.title, st.Text.Render(wrap(f.text, 28)), 34))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	return b.String()
}

// wrap breaks text into lines of at most width columns on word boundaries.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
