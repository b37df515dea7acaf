package tasks

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskdeck/internal/store"
)

// ErrNotFound is returned when a task id does not exist.
var ErrNotFound = errors.New("task not found")

//go:embed tasks.schema.json
var schemaSource string

// SchemaName is the resource name of the embedded schema.
const SchemaName = "tasks.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return store.CompileSchema(SchemaName, schemaSource)
})

// Schema returns the compiled task list schema.
func Schema() (*jsonschema.Schema, error) {
	return compiledSchema()
}

// SchemaSource returns the raw schema document.
func SchemaSource() string {
	return schemaSource
}

// Task is a single to-do item.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchFields returns the text fields matched by a search.
func SearchFields(t Task) []string {
	return []string{t.Text}
}

// ParseID parses a task id given on the command line.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

// Filters lists the filters in display order.
func Filters() []StatusFilter {
	return []StatusFilter{FilterAll, FilterActive, FilterCompleted}
}

// ParseStatusFilter parses a filter name. The empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, "todo", "open":
		return FilterActive, nil
	case FilterCompleted, "done":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid filter %q, must be one of: all, active, completed", s)
	}
}

// Match reports whether t passes the filter.
func (f StatusFilter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Label returns the capitalized filter name, e.g. "Active".
func (f StatusFilter) Label() string {
	s := string(f)
	if s == "" {
		s = string(FilterAll)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Stats summarizes a task list.
type Stats struct {
	Total     int
	Completed int
	Active    int
}

// Count returns the number of tasks matching f.
func (s Stats) Count(f StatusFilter) int {
	switch f {
	case FilterActive:
		return s.Active
	case FilterCompleted:
		return s.Completed
	default:
		return s.Total
	}
}

// ComputeStats counts tasks by state.
func ComputeStats(items []Task) Stats {
	s := Stats{Total: len(items)}
	for _, t := range items {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}
