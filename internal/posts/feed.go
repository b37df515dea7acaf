package posts

import "sync"

// State is the lifecycle of a feed.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Generation tags a fetch. Only the latest generation may resolve a feed.
type Generation uint64

// Feed holds the result of the most recent fetch. A response tagged with an
// older generation, or arriving after Close, is dropped.
type Feed struct {
	mu     sync.Mutex
	gen    Generation
	state  State
	posts  []Post
	err    error
	closed bool
}

// NewFeed returns an idle feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Begin starts a new fetch, clearing previous results.
func (f *Feed) Begin() Generation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.state = StateLoading
	f.posts = nil
	f.err = nil
	return f.gen
}

// Reload starts a fresh fetch after a failure.
func (f *Feed) Reload() Generation {
	return f.Begin()
}

// Resolve applies the outcome of fetch gen. It reports whether the outcome
// was applied.
func (f *Feed) Resolve(gen Generation, posts []Post, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.gen || f.state != StateLoading {
		return false
	}
	if err != nil {
		f.state = StateFailed
		f.err = err
		f.posts = nil
		return true
	}
	f.state = StateReady
	f.posts = nonNil(posts)
	return true
}

// Close discards any response still in flight.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Closed reports whether Close was called.
func (f *Feed) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// State returns the current state.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the failure of the last fetch, if any.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Posts returns a copy of the fetched posts.
func (f *Feed) Posts() []Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Post, len(f.posts))
	copy(out, f.posts)
	return out
}
