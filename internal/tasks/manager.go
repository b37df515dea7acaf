package tasks

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/paging"
	"github.com/nibzard/taskdeck/internal/statedir"
	"github.com/nibzard/taskdeck/internal/store"
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager applies task operations to a persisted list.
type Manager struct {
	list   *store.List[Task]
	now    func() time.Time
	logger *log.Logger

	mu     sync.Mutex
	lastID int64
}

// Open loads the task list from kv, validating it against the embedded
// schema. A missing or invalid stored list yields an empty manager.
func Open(kv store.KV, opts ...Option) *Manager {
	m := newManager(opts...)

	listOpts := []store.Option{store.WithLogger(m.logger)}
	if schema, err := Schema(); err != nil {
		m.logger.Warn("task schema unavailable, loading without validation", "err", err)
	} else {
		listOpts = append(listOpts, store.WithSchema(schema))
	}

	m.list = store.Open(kv, statedir.TasksKey, []Task{}, listOpts...)
	m.lastID = maxID(m.list.Items())
	return m
}

func newManager(opts ...Option) *Manager {
	m := &Manager{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	return m
}

// LoadErr reports why the stored list was not used, if it was not.
func (m *Manager) LoadErr() error {
	return m.list.LoadErr()
}

// Validate checks the stored task file against the schema. It returns
// store.ErrNotFound when no file has been written yet.
func (m *Manager) Validate() (*store.ValidationResult, error) {
	return m.list.Validate()
}

// All returns every task in insertion order.
func (m *Manager) All() []Task {
	return m.list.Items()
}

// Get returns the task with id.
func (m *Manager) Get(id int64) (Task, bool) {
	for _, t := range m.list.Items() {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Filter returns the tasks matching f.
func (m *Manager) Filter(f StatusFilter) []Task {
	return FilterTasks(m.list.Items(), f)
}

// Stats summarizes the current list.
func (m *Manager) Stats() Stats {
	return ComputeStats(m.list.Items())
}

// Subscribe registers fn to be called after every change.
func (m *Manager) Subscribe(fn func([]Task)) (cancel func()) {
	return m.list.Subscribe(fn)
}

// Add creates a task from text. Whitespace-only text is ignored and
// reported with ok == false. The returned error is a persistence failure;
// the task is kept in memory regardless.
func (m *Manager) Add(text string) (task Task, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}

	err = m.list.Update(func(items []Task) []Task {
		task = Task{
			ID:        m.nextID(items),
			Text:      text,
			Completed: false,
			CreatedAt: m.now().UTC().Truncate(time.Millisecond),
		}
		return append(items, task)
	})
	if err != nil {
		m.logger.Warn("task added but not persisted", "id", task.ID, "err", err)
	} else {
		m.logger.Debug("task added", "id", task.ID)
	}
	return task, true, err
}

// Toggle flips the completed flag of task id. ok is false when no such
// task exists, in which case nothing is written.
func (m *Manager) Toggle(id int64) (ok bool, err error) {
	if _, found := m.Get(id); !found {
		return false, nil
	}

	err = m.list.Update(func(items []Task) []Task {
		for i := range items {
			if items[i].ID == id {
				items[i].Completed = !items[i].Completed
			}
		}
		return items
	})
	if err != nil {
		m.logger.Warn("task toggled but not persisted", "id", id, "err", err)
	} else {
		m.logger.Debug("task toggled", "id", id)
	}
	return true, err
}

// Delete removes task id. ok is false when no such task exists, in which
// case nothing is written.
func (m *Manager) Delete(id int64) (ok bool, err error) {
	if _, found := m.Get(id); !found {
		return false, nil
	}

	err = m.list.Update(func(items []Task) []Task {
		kept := items[:0]
		for _, t := range items {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		return kept
	})
	if err != nil {
		m.logger.Warn("task deleted but not persisted", "id", id, "err", err)
	} else {
		m.logger.Debug("task deleted", "id", id)
	}
	return true, err
}

// nextID returns an id that is time-derived and larger than any id seen.
func (m *Manager) nextID(items []Task) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.now().UnixMilli()
	if floor := maxID(items); id <= floor {
		id = floor + 1
	}
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func maxID(items []Task) int64 {
	var max int64
	for _, t := range items {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// FilterTasks returns the tasks in items matching f.
func FilterTasks(items []Task, f StatusFilter) []Task {
	out := make([]Task, 0, len(items))
	for _, t := range items {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Search returns the tasks whose text contains term, case-insensitively.
func Search(items []Task, term string) []Task {
	return paging.Filter(items, term, SearchFields, nil)
}
