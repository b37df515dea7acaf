package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/paging"
	"github.com/nibzard/taskdeck/internal/tasks"
	"github.com/nibzard/taskdeck/internal/theme"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
	modeSearch
)

type tasksView struct {
	mgr    *tasks.Manager
	logger *log.Logger

	filter tasks.StatusFilter
	cursor *paging.Cursor
	sel    int

	mode   inputMode
	add    textinput.Model
	search textinput.Model

	notice    string
	noticeErr bool
	width     int
}

func newTasksView(mgr *tasks.Manager, pageSize int, logger *log.Logger) *tasksView {
	if pageSize <= 0 {
		pageSize = 10
	}

	add := textinput.New()
	add.Placeholder = "Enter a new task..."
	add.Prompt = "+ "
	add.CharLimit = 500
	add.Width = 50

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 30

	return &tasksView{
		mgr:    mgr,
		logger: logger,
		filter: tasks.FilterAll,
		cursor: paging.NewCursor(pageSize),
		add:    add,
		search: search,
	}
}

func (v *tasksView) setWidth(w int) {
	v.width = w
	if w > 20 {
		v.add.Width = min(w-12, 80)
	}
}

func (v *tasksView) inputActive() bool {
	return v.mode != modeNormal
}

func (v *tasksView) result() paging.Result[tasks.Task] {
	return paging.Apply(v.cursor, v.mgr.Filter(v.filter), tasks.SearchFields, nil)
}

// selected returns the task under the selection marker.
func (v *tasksView) selected() (tasks.Task, bool) {
	items := v.result().Page.Items
	if v.sel < 0 || v.sel >= len(items) {
		return tasks.Task{}, false
	}
	return items[v.sel], true
}

// clamp keeps page and selection inside the current result after the list
// or the filter changed.
func (v *tasksView) clamp() {
	res := v.result()
	if res.Page.TotalPages > 0 && v.cursor.Page() > res.Page.TotalPages {
		v.cursor.Goto(res.Page.TotalPages, res.Page.TotalPages)
		res = v.result()
	}
	if v.sel >= len(res.Page.Items) {
		v.sel = len(res.Page.Items) - 1
	}
	if v.sel < 0 {
		v.sel = 0
	}
}

func (v *tasksView) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.updateInput(msg)
	}

	switch v.mode {
	case modeAdd:
		return v.updateAdd(key)
	case modeSearch:
		return v.updateSearch(key)
	}

	total := v.result().Page.TotalPages
	switch key.String() {
	case "a", "i", "n":
		v.mode = modeAdd
		v.notice = ""
		return v.add.Focus()
	case "/":
		v.mode = modeSearch
		v.search.SetValue(v.cursor.Term())
		v.search.CursorEnd()
		return v.search.Focus()
	case "esc":
		if v.cursor.Term() != "" {
			v.cursor.SetTerm("")
			v.search.Reset()
			v.sel = 0
		}
	case "f", "right", "l":
		v.setFilter(nextFilter(v.filter, 1))
	case "F", "left", "h":
		v.setFilter(nextFilter(v.filter, -1))
	case "up", "k":
		if v.sel > 0 {
			v.sel--
		}
	case "down", "j":
		if v.sel < len(v.result().Page.Items)-1 {
			v.sel++
		}
	case "pgdown", "]":
		v.cursor.Next(total)
		v.sel = 0
	case "pgup", "[":
		v.cursor.Prev(total)
		v.sel = 0
	case " ", "x", "enter":
		v.toggleSelected()
	case "d", "delete":
		v.deleteSelected()
	}
	return nil
}

func (v *tasksView) updateAdd(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		v.mode = modeNormal
		v.add.Blur()
		return nil
	case "enter":
		v.submitAdd()
		return nil
	}
	var cmd tea.Cmd
	v.add, cmd = v.add.Update(key)
	return cmd
}

func (v *tasksView) updateSearch(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc", "enter":
		v.mode = modeNormal
		v.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(key)
	v.cursor.SetTerm(v.search.Value())
	v.clamp()
	return cmd
}

// updateInput forwards non-key messages such as cursor blinks to the
// focused input.
func (v *tasksView) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.mode {
	case modeAdd:
		v.add, cmd = v.add.Update(msg)
	case modeSearch:
		v.search, cmd = v.search.Update(msg)
	}
	return cmd
}

func (v *tasksView) submitAdd() {
	task, ok, err := v.mgr.Add(v.add.Value())
	if !ok {
		// Blank input is ignored; keep the input focused.
		return
	}
	v.add.Reset()
	if err != nil {
		v.setError("Added but not saved: %v", err)
		return
	}
	v.setNotice("Added %q", truncate(task.Text, 40))

	// Show the new task: it is always last in insertion order.
	if v.filter == tasks.FilterCompleted {
		v.setFilter(tasks.FilterAll)
	}
	res := v.result()
	v.cursor.Goto(res.Page.TotalPages, res.Page.TotalPages)
	v.sel = len(v.result().Page.Items) - 1
	v.clamp()
}

func (v *tasksView) toggleSelected() {
	task, ok := v.selected()
	if !ok {
		return
	}
	if _, err := v.mgr.Toggle(task.ID); err != nil {
		v.setError("Updated but not saved: %v", err)
	} else {
		v.notice = ""
	}
	v.clamp()
}

func (v *tasksView) deleteSelected() {
	task, ok := v.selected()
	if !ok {
		return
	}
	if _, err := v.mgr.Delete(task.ID); err != nil {
		v.setError("Deleted but not saved: %v", err)
	} else {
		v.setNotice("Deleted %q", truncate(task.Text, 40))
	}
	v.clamp()
}

func (v *tasksView) setFilter(f tasks.StatusFilter) {
	if f == v.filter {
		return
	}
	v.filter = f
	v.cursor.Goto(1, 1)
	v.sel = 0
}

func nextFilter(f tasks.StatusFilter, step int) tasks.StatusFilter {
	filters := tasks.Filters()
	for i, candidate := range filters {
		if candidate == f {
			return filters[(i+step+len(filters))%len(filters)]
		}
	}
	return tasks.FilterAll
}

func (v *tasksView) setNotice(format string, args ...any) {
	v.notice = fmt.Sprintf(format, args...)
	v.noticeErr = false
}

func (v *tasksView) setError(format string, args ...any) {
	v.notice = fmt.Sprintf(format, args...)
	v.noticeErr = true
}

func (v *tasksView) view(st theme.Styles) string {
	stats := v.mgr.Stats()
	res := v.result()

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statCard(st, stats.Total, "Total Tasks"),
		statCard(st, stats.Completed, "Completed"),
		statCard(st, stats.Active, "Active"),
	))
	b.WriteString("\n")

	addBody := v.add.View()
	if v.mode != modeAdd {
		addBody = st.Muted.Render("press a to add a task")
	}
	b.WriteString(card(st, "Add New Task", addBody, v.width))
	b.WriteString("\n")

	filterButtons := make([]string, 0, 3)
	for _, f := range tasks.Filters() {
		variant := theme.Secondary
		if f == v.filter {
			variant = theme.Primary
		}
		label := fmt.Sprintf("%s (%d)", f.Label(), stats.Count(f))
		filterButtons = append(filterButtons, button(st, label, variant, false))
	}
	b.WriteString(buttonRow(filterButtons...))
	if v.mode == modeSearch {
		b.WriteString("  " + v.search.View())
	} else if term := v.cursor.Term(); term != "" {
		b.WriteString("  " + st.Muted.Render(fmt.Sprintf("search: %q (esc to clear)", term)))
	}
	b.WriteString("\n")

	b.WriteString(card(st, v.filter.Label()+" Tasks", v.listBody(st, res), v.width))

	if p := pager(st, res.Page, res.Window); p != "" {
		b.WriteString("\n" + p)
	}
	if v.notice != "" {
		style := st.Success
		if v.noticeErr {
			style = st.Error
		}
		b.WriteString("\n" + style.Render(v.notice))
	}
	b.WriteString("\n" + st.Muted.Render("a add | space toggle | d delete | f filter | / search | pgup/pgdn page"))
	return b.String()
}

func (v *tasksView) listBody(st theme.Styles, res paging.Result[tasks.Task]) string {
	if res.Page.Empty() {
		return st.Muted.Render("No tasks found. Add one above!")
	}
	lines := make([]string, 0, len(res.Page.Items))
	for i, task := range res.Page.Items {
		check := "[ ]"
		text := st.Text.Render(task.Text)
		if task.Completed {
			check = "[x]"
			text = st.Done.Render(task.Text)
		}
		marker := "  "
		if i == v.sel {
			marker = st.Selected.Render("> ")
		}
		lines = append(lines, marker+check+" "+text)
	}
	return strings.Join(lines, "\n")
}

func statCard(st theme.Styles, n int, label string) string {
	return card(st, "", st.Title.Render(fmt.Sprintf("%d", n))+"\n"+st.Muted.Render(label), 18)
}
