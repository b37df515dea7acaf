package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskdeck/internal/posts"
	"github.com/nibzard/taskdeck/internal/store"
	"github.com/nibzard/taskdeck/internal/tasks"
	"github.com/nibzard/taskdeck/internal/theme"
)

type fakeFetcher struct {
	mu    sync.Mutex
	posts []posts.Post
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.posts, f.err
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func samplePosts(n int) []posts.Post {
	out := make([]posts.Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, posts.Post{
			ID:     i,
			UserID: i%5 + 1,
			Title:  fmt.Sprintf("Post %d", i),
			Body:   fmt.Sprintf("Body of post number %d", i),
		})
	}
	return out
}

func newTestModel(t *testing.T, fetcher Fetcher) (*appModel, store.KV) {
	t.Helper()
	kv := store.NewMemoryKV()
	deps := Deps{
		Tasks:         tasks.Open(kv),
		Theme:         theme.Init(kv, func() bool { return false }),
		Posts:         fetcher,
		TaskPageSize:  3,
		PostsPageSize: 9,
	}
	return newAppModel(context.Background(), deps), kv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func send(m *appModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// loaded runs cmd and returns the postsLoadedMsg it produces, descending
// into batches.
func loaded(t *testing.T, cmd tea.Cmd) postsLoadedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case postsLoadedMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if lm, ok := c().(postsLoadedMsg); ok {
				return lm
			}
		}
	}
	t.Fatal("command did not produce postsLoadedMsg")
	return postsLoadedMsg{}
}

func TestNavigation(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{})

	if m.view != viewHome {
		t.Fatalf("start view = %v, want Home", m.view)
	}
	if !strings.Contains(m.View(), "Welcome to taskdeck") {
		t.Fatal("home view missing welcome text")
	}

	send(m, key(tea.KeyEnter))
	if m.view != viewTasks {
		t.Fatalf("enter on home: view = %v, want Tasks", m.view)
	}
	send(m, key(tea.KeyTab))
	if m.view != viewPosts {
		t.Fatalf("tab: view = %v, want Posts", m.view)
	}
	send(m, key(tea.KeyTab))
	if m.view != viewHome {
		t.Fatalf("tab wraps: view = %v, want Home", m.view)
	}
	send(m, key(tea.KeyShiftTab))
	if m.view != viewPosts {
		t.Fatalf("shift+tab: view = %v, want Posts", m.view)
	}
	send(m, runes("2"))
	if m.view != viewTasks {
		t.Fatalf("2: view = %v, want Tasks", m.view)
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in   string
		want view
		ok   bool
	}{
		{"home", viewHome, true},
		{"Tasks", viewTasks, true},
		{"POSTS", viewPosts, true},
		{"settings", viewHome, false},
	}
	for _, tt := range tests {
		got, ok := parseView(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseView(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestThemeTogglePersists(t *testing.T) {
	m, kv := newTestModel(t, &fakeFetcher{})
	if m.styles.Theme != theme.Light {
		t.Fatalf("initial theme = %s, want light", m.styles.Theme)
	}

	send(m, runes("t"))
	if m.styles.Theme != theme.Dark {
		t.Fatalf("after toggle styles theme = %s, want dark", m.styles.Theme)
	}
	data, err := kv.Get("theme")
	if err != nil {
		t.Fatalf("theme not saved: %v", err)
	}
	var saved []string
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode saved theme: %v", err)
	}
	if len(saved) != 1 || saved[0] != "dark" {
		t.Errorf("saved theme = %v, want [dark]", saved)
	}

	reopened := theme.Init(kv, func() bool { return false })
	if reopened.Current() != theme.Dark {
		t.Errorf("reopened theme = %s, want dark", reopened.Current())
	}
}

func TestThemeKeyTypedIntoInput(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{})
	send(m, runes("2"), runes("a"), runes("t"))
	if m.styles.Theme != theme.Light {
		t.Fatal("t while adding a task toggled the theme")
	}
	if got := m.tasks.add.Value(); got != "t" {
		t.Errorf("input = %q, want %q", got, "t")
	}
}

func TestTasksAddToggleDelete(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{})
	send(m, runes("2"))

	send(m, runes("a"), runes("Buy milk"), key(tea.KeyEnter))
	send(m, runes("Walk dog"), key(tea.KeyEnter), key(tea.KeyEsc))

	all := m.tasks.mgr.All()
	if len(all) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(all))
	}
	if all[0].Text != "Buy milk" || all[1].Text != "Walk dog" {
		t.Fatalf("tasks = %+v", all)
	}
	if m.tasks.inputActive() {
		t.Fatal("esc did not leave add mode")
	}

	// The newest task is selected after adding.
	send(m, key(tea.KeySpace))
	if got, _ := m.tasks.mgr.Get(all[1].ID); !got.Completed {
		t.Fatal("space did not toggle the selected task")
	}
	if stats := m.tasks.mgr.Stats(); stats.Completed != 1 || stats.Active != 1 {
		t.Errorf("stats = %+v, want 1 completed 1 active", stats)
	}

	send(m, runes("k"), runes("d"))
	all = m.tasks.mgr.All()
	if len(all) != 1 || all[0].Text != "Walk dog" {
		t.Fatalf("after delete tasks = %+v", all)
	}
	if !strings.Contains(m.View(), "Walk dog") {
		t.Error("view missing remaining task")
	}
}

func TestTasksBlankAddIgnored(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{})
	send(m, runes("2"), runes("a"), runes("   "), key(tea.KeyEnter))

	if n := len(m.tasks.mgr.All()); n != 0 {
		t.Fatalf("blank add created %d tasks", n)
	}
	if !m.tasks.inputActive() {
		t.Error("blank add left add mode")
	}
	if !strings.Contains(m.View(), "No tasks found") {
		t.Error("empty list message missing")
	}
}

func TestTasksFilterAndPaging(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{})
	send(m, runes("2"), runes("a"))
	for i := 1; i <= 7; i++ {
		send(m, runes(fmt.Sprintf("task %d", i)), key(tea.KeyEnter))
	}
	send(m, key(tea.KeyEsc))

	// Adding jumps to the last page.
	if got := m.tasks.cursor.Page(); got != 3 {
		t.Fatalf("page after adding = %d, want 3", got)
	}
	send(m, runes("["))
	if got := m.tasks.cursor.Page(); got != 2 {
		t.Fatalf("page after [ = %d, want 2", got)
	}

	send(m, runes("f"))
	if m.tasks.filter != tasks.FilterActive {
		t.Fatalf("filter = %v, want active", m.tasks.filter)
	}
	if got := m.tasks.cursor.Page(); got != 1 {
		t.Errorf("filter change page = %d, want 1", got)
	}

	send(m, runes("/"), runes("task 7"), key(tea.KeyEnter))
	res := m.tasks.result()
	if len(res.Filtered) != 1 || res.Filtered[0].Text != "task 7" {
		t.Fatalf("search result = %+v", res.Filtered)
	}
	send(m, key(tea.KeyEsc))
	if m.tasks.cursor.Term() != "" {
		t.Error("esc did not clear search")
	}
}

func TestPostsLoad(t *testing.T) {
	fetcher := &fakeFetcher{posts: samplePosts(20)}
	m, _ := newTestModel(t, fetcher)

	cmd := send(m, runes("3"))
	if got := m.posts.feed.State(); got != posts.StateLoading {
		t.Fatalf("state = %v, want loading", got)
	}
	if !strings.Contains(m.View(), "Loading posts...") {
		t.Fatal("spinner text missing while loading")
	}

	send(m, loaded(t, cmd))
	if got := m.posts.feed.State(); got != posts.StateReady {
		t.Fatalf("state = %v, want ready", got)
	}
	out := m.View()
	for _, want := range []string{"Found 20 posts", "Post 1", "User ID:", "Page 1 of 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Returning to the view does not fetch again.
	send(m, runes("1"))
	if cmd := send(m, runes("3")); cmd != nil {
		t.Error("re-entering posts started another fetch")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestPostsStaleResponseIgnored(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{posts: samplePosts(3)})
	cmd := send(m, runes("3"))
	msg := loaded(t, cmd)

	send(m, postsLoadedMsg{gen: msg.gen + 1, posts: samplePosts(50)})
	if got := m.posts.feed.State(); got != posts.StateLoading {
		t.Fatalf("state after stale message = %v, want loading", got)
	}

	send(m, msg)
	if got := len(m.posts.feed.Posts()); got != 3 {
		t.Errorf("len(posts) = %d, want 3", got)
	}
}

func TestPostsErrorAndRetry(t *testing.T) {
	fetcher := &fakeFetcher{err: posts.ErrFetchFailed}
	m, _ := newTestModel(t, fetcher)

	send(m, loaded(t, send(m, runes("3"))))
	if got := m.posts.feed.State(); got != posts.StateFailed {
		t.Fatalf("state = %v, want failed", got)
	}
	out := m.View()
	if !strings.Contains(out, "failed to fetch data") || !strings.Contains(out, "retry") {
		t.Fatalf("error view = %q", out)
	}

	fetcher.setErr(nil)
	fetcher.posts = samplePosts(4)
	cmd := send(m, runes("r"))
	if got := m.posts.feed.State(); got != posts.StateLoading {
		t.Fatalf("state after retry = %v, want loading", got)
	}
	send(m, loaded(t, cmd))
	if got := len(m.posts.feed.Posts()); got != 4 {
		t.Errorf("len(posts) after retry = %d, want 4", got)
	}
	if cmd := send(m, runes("r")); cmd != nil {
		t.Error("r on a loaded feed started a fetch")
	}
}

func TestPostsNoFetcher(t *testing.T) {
	m, _ := newTestModel(t, nil)
	send(m, loaded(t, send(m, runes("3"))))
	if !errors.Is(m.posts.feed.Err(), errNoFetcher) {
		t.Errorf("err = %v, want errNoFetcher", m.posts.feed.Err())
	}
}

func TestPostsSearchResetsPage(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{posts: samplePosts(25)})
	send(m, loaded(t, send(m, runes("3"))))

	send(m, runes("]"), runes("]"))
	if got := m.posts.cursor.Page(); got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}

	send(m, runes("/"), runes("post 2"))
	if got := m.posts.cursor.Page(); got != 1 {
		t.Errorf("page after search = %d, want 1", got)
	}
	// "Post 2" and "Post 20".."Post 25".
	if got := len(m.posts.result().Filtered); got != 7 {
		t.Errorf("matches = %d, want 7", got)
	}

	send(m, key(tea.KeyEnter), runes("/"), runes("zzz"), key(tea.KeyEnter))
	if !strings.Contains(m.View(), "No posts found matching your search.") {
		t.Error("empty search message missing")
	}
}

func TestQuitClosesFeed(t *testing.T) {
	m, _ := newTestModel(t, &fakeFetcher{posts: samplePosts(5)})
	cmd := send(m, runes("3"))

	if got := send(m, runes("q")); got == nil {
		t.Fatal("q returned no command")
	}
	if !m.posts.feed.Closed() {
		t.Fatal("feed not closed on quit")
	}

	send(m, loaded(t, cmd))
	if got := m.posts.feed.State(); got == posts.StateReady {
		t.Error("response after quit was applied")
	}
	m.shutdown()
}

func TestPager(t *testing.T) {
	st := theme.StylesFor(theme.Light)
	m, _ := newTestModel(t, &fakeFetcher{posts: samplePosts(5)})
	send(m, loaded(t, send(m, runes("3"))))
	res := m.posts.result()
	if got := pager(st, res.Page, res.Window); got != "" {
		t.Errorf("pager for a single page = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer sentence", 8, "a lon..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
