package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskdeck/internal/paging"
	"github.com/nibzard/taskdeck/internal/theme"
)

// button renders a label as a button of variant v.
func button(st theme.Styles, label string, v theme.Variant, disabled bool) string {
	return st.Button(v, disabled).Render(label)
}

// buttonRow joins buttons with a single space.
func buttonRow(buttons ...string) string {
	parts := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// card draws a bordered box with an optional title.
func card(st theme.Styles, title, body string, width int) string {
	content := body
	if title != "" {
		content = st.CardTitle.Render(title) + "\n" + body
	}
	style := st.Card
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}

func navBar(st theme.Styles, active view) string {
	items := make([]string, 0, len(viewNames)+1)
	items = append(items, st.Title.Render("taskdeck"))
	for i, name := range viewNames {
		label := strconv.Itoa(i+1) + " " + name
		if view(i) == active {
			items = append(items, st.NavActive.Render(label))
		} else {
			items = append(items, st.NavItem.Render(label))
		}
	}
	items = append(items, st.Muted.Render(themeIcon(st.Theme)))
	return strings.Join(items, " ")
}

func themeIcon(t theme.Theme) string {
	if t == theme.Dark {
		return "[dark]"
	}
	return "[light]"
}

// pager renders Previous, the numbered page window and Next. It returns ""
// when there is at most one page.
func pager[T any](st theme.Styles, page paging.Page[T], window []int) string {
	if !page.ShowControls() {
		return ""
	}
	buttons := []string{button(st, "Previous", theme.Secondary, !page.HasPrev())}
	for _, n := range window {
		v := theme.Secondary
		if n == page.Number {
			v = theme.Primary
		}
		buttons = append(buttons, button(st, strconv.Itoa(n), v, false))
	}
	buttons = append(buttons, button(st, "Next", theme.Secondary, !page.HasNext()))
	return buttonRow(buttons...) + "\n" + st.Muted.Render("Page "+strconv.Itoa(page.Number)+" of "+strconv.Itoa(page.TotalPages))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
