package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/paging"
	"github.com/nibzard/taskdeck/internal/posts"
	"github.com/nibzard/taskdeck/internal/theme"
	"github.com/nibzard/taskdeck/internal/utils"
)

// postsLoadedMsg carries the outcome of one fetch back to the model.
type postsLoadedMsg struct {
	gen   posts.Generation
	posts []posts.Post
	err   error
}

var errNoFetcher = errors.New("no posts source configured")

type postsView struct {
	fetcher Fetcher
	feed    *posts.Feed
	logger  *log.Logger

	cursor    *paging.Cursor
	searching bool
	search    textinput.Model
	spinner   spinner.Model

	width int
}

func newPostsView(fetcher Fetcher, pageSize int, logger *log.Logger) *postsView {
	if pageSize <= 0 {
		pageSize = 9
	}

	search := textinput.New()
	search.Placeholder = "Search posts..."
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &postsView{
		fetcher: fetcher,
		feed:    posts.NewFeed(),
		logger:  logger,
		cursor:  paging.NewCursor(pageSize),
		search:  search,
		spinner: sp,
	}
}

func (v *postsView) setWidth(w int) {
	v.width = w
}

func (v *postsView) inputActive() bool {
	return v.searching
}

// enter starts the first fetch. Later visits reuse what was loaded.
func (v *postsView) enter(ctx context.Context) tea.Cmd {
	if v.feed.Closed() || v.feed.State() != posts.StateIdle {
		return nil
	}
	return v.load(ctx, v.feed.Begin())
}

func (v *postsView) load(ctx context.Context, gen posts.Generation) tea.Cmd {
	v.logger.Debug("fetching posts", "generation", gen)
	return tea.Batch(v.fetchCmd(ctx, gen), v.spinner.Tick)
}

func (v *postsView) fetchCmd(ctx context.Context, gen posts.Generation) tea.Cmd {
	fetcher := v.fetcher
	return func() tea.Msg {
		if fetcher == nil {
			return postsLoadedMsg{gen: gen, err: errNoFetcher}
		}
		list, err := fetcher.Fetch(ctx)
		return postsLoadedMsg{gen: gen, posts: list, err: err}
	}
}

// close drops any fetch still in flight.
func (v *postsView) close() {
	v.feed.Close()
}

func (v *postsView) result() paging.Result[posts.Post] {
	return paging.Apply(v.cursor, v.feed.Posts(), posts.SearchFields, posts.Tags)
}

func (v *postsView) update(ctx context.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		if !v.feed.Resolve(msg.gen, msg.posts, msg.err) {
			v.logger.Debug("dropped stale posts response", "generation", msg.gen)
			return nil
		}
		if msg.err != nil {
			v.logger.Warn("fetch posts failed", "err", msg.err)
		} else {
			v.logger.Debug("posts loaded", "count", len(msg.posts))
		}
		return nil

	case spinner.TickMsg:
		if v.feed.State() != posts.StateLoading {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.updateKey(ctx, msg)
	}

	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return cmd
	}
	return nil
}

func (v *postsView) updateKey(ctx context.Context, key tea.KeyMsg) tea.Cmd {
	if key.String() == "r" {
		if v.feed.State() != posts.StateFailed {
			return nil
		}
		return v.load(ctx, v.feed.Reload())
	}
	if v.feed.State() != posts.StateReady {
		return nil
	}

	total := v.result().Page.TotalPages
	switch key.String() {
	case "/":
		v.searching = true
		v.search.SetValue(v.cursor.Term())
		v.search.CursorEnd()
		return v.search.Focus()
	case "esc":
		v.cursor.Reset()
		v.search.Reset()
	case "pgdown", "]", "right", "l":
		v.cursor.Next(total)
	case "pgup", "[", "left", "h":
		v.cursor.Prev(total)
	case "home", "g":
		v.cursor.Goto(1, total)
	case "end", "G":
		v.cursor.Goto(total, total)
	}
	return nil
}

func (v *postsView) updateSearch(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc", "enter":
		v.searching = false
		v.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(key)
	v.cursor.SetTerm(v.search.Value())
	return cmd
}

func (v *postsView) view(st theme.Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Posts") + "\n")

	switch v.feed.State() {
	case posts.StateIdle, posts.StateLoading:
		b.WriteString(v.spinner.View() + " " + st.Muted.Render("Loading posts..."))
		return b.String()
	case posts.StateFailed:
		msg := "failed to fetch data"
		if err := v.feed.Err(); err != nil {
			msg = err.Error()
		}
		body := st.Error.Render("Error: "+msg) + "\n" + st.Muted.Render("press r to retry")
		b.WriteString(card(st, "", body, v.width))
		return b.String()
	}

	res := v.result()
	if v.searching {
		b.WriteString(v.search.View() + "\n")
	} else if term := v.cursor.Term(); term != "" {
		b.WriteString(st.Muted.Render(fmt.Sprintf("search: %q (esc to clear)", term)) + "\n")
	}
	b.WriteString(st.Subtitle.Render(fmt.Sprintf("Found %d post%s", len(res.Filtered), utils.Plural(len(res.Filtered)))) + "\n")

	if res.Page.Empty() {
		b.WriteString(st.Muted.Render("No posts found matching your search."))
	} else {
		cards := make([]string, 0, len(res.Page.Items))
		for _, p := range res.Page.Items {
			cards = append(cards, postCard(st, p, v.width))
		}
		b.WriteString(strings.Join(cards, "\n"))
	}

	if p := pager(st, res.Page, res.Window); p != "" {
		b.WriteString("\n" + p)
	}
	b.WriteString("\n" + st.Muted.Render("/ search | pgup/pgdn page | home/end first/last"))
	return b.String()
}

func postCard(st theme.Styles, p posts.Post, width int) string {
	title := fmt.Sprintf("%s  #%d", p.Title, p.ID)
	lines := []string{st.Text.Render(truncate(p.Body, 100))}
	if len(p.Tags) > 0 {
		lines = append(lines, st.Muted.Render("tags: "+strings.Join(p.Tags, ", ")))
	}
	lines = append(lines, st.Muted.Render(fmt.Sprintf("User ID: %d", p.UserID)))
	return card(st, title, strings.Join(lines, "\n"), width)
}
