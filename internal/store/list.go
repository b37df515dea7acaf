// Package store persists typed lists in a key-value store.
//
// A List loads its value once when opened and writes the whole value back
// after every change. Unreadable stored values are never fatal: the list
// falls back to the caller's default and records why in LoadErr.
//
// Stored values are JSON arrays written with 2-space indentation and a
// trailing newline.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var errNullValue = errors.New("stored value is null")

// Option configures a List.
type Option func(*listConfig)

type listConfig struct {
	schema *jsonschema.Schema
	logger *log.Logger
}

// WithSchema validates stored values against schema on load. A value that
// fails validation is treated like a corrupt value.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(c *listConfig) {
		c.schema = schema
	}
}

// WithLogger sets the logger used to report load fallbacks and write failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *listConfig) {
		c.logger = logger
	}
}

// List is a persisted, whole-value-replace list of T.
type List[T any] struct {
	mu      sync.Mutex
	kv      KV
	key     string
	items   []T
	loadErr error
	cfg     listConfig

	observers map[int]func([]T)
	nextObs   int
}

// Open loads key from kv. If the key is absent or its value cannot be
// decoded, the list starts from a copy of def.
func Open[T any](kv KV, key string, def []T, opts ...Option) *List[T] {
	cfg := listConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	l := &List[T]{
		kv:        kv,
		key:       key,
		cfg:       cfg,
		observers: make(map[int]func([]T)),
	}

	items, err := l.load()
	if err != nil {
		l.loadErr = err
		items = clone(def)
		if errors.Is(err, ErrNotFound) {
			cfg.logger.Debug("no stored value, using default", "key", key)
		} else {
			cfg.logger.Warn("stored value unreadable, using default", "key", key, "err", err)
		}
	}
	if items == nil {
		items = []T{}
	}
	l.items = items
	return l
}

func (l *List[T]) load() ([]T, error) {
	data, err := l.kv.Get(l.key)
	if err != nil {
		return nil, err
	}
	return Decode[T](data, l.cfg.schema)
}

// Decode parses a stored value, validating it against schema when one is given.
func Decode[T any](data []byte, schema *jsonschema.Schema) ([]T, error) {
	if schema != nil {
		if err := ValidateBytes(data, schema).Err(); err != nil {
			return nil, err
		}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode stored value: %w", err)
	}
	if items == nil {
		return nil, errNullValue
	}
	return items, nil
}

// Encode serializes items the way they are written to storage.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadErr returns why Open fell back to the default, or nil if the stored
// value was used.
func (l *List[T]) LoadErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

// Validate checks the value currently stored under the list's key, not the
// in-memory value. It returns ErrNotFound when nothing is stored.
func (l *List[T]) Validate() (*ValidationResult, error) {
	data, err := l.kv.Get(l.key)
	if err != nil {
		return nil, err
	}
	return ValidateBytes(data, l.cfg.schema), nil
}

// Items returns a copy of the current value.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.items)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Save replaces the whole value and writes it through.
func (l *List[T]) Save(items []T) error {
	return l.Update(func([]T) []T {
		return clone(items)
	})
}

// Update applies fn to a copy of the current value, makes the result the
// current value and writes it through exactly once. When the write fails
// the in-memory value is kept and the error is returned.
func (l *List[T]) Update(fn func([]T) []T) error {
	l.mu.Lock()
	next := fn(clone(l.items))
	if next == nil {
		next = []T{}
	}
	l.items = next

	var err error
	data, encErr := Encode(next)
	if encErr != nil {
		err = encErr
	} else {
		err = l.kv.Put(l.key, data)
	}

	observers := make([]func([]T), 0, len(l.observers))
	for _, fn := range l.observers {
		observers = append(observers, fn)
	}
	snapshot := clone(next)
	l.mu.Unlock()

	for _, notify := range observers {
		notify(clone(snapshot))
	}

	if err != nil {
		l.cfg.logger.Error("persist failed, keeping in-memory value", "key", l.key, "err", err)
		return fmt.Errorf("save %s: %w", l.key, err)
	}
	return nil
}

// Subscribe registers fn to be called with the new value after every
// change. The returned function removes the subscription.
func (l *List[T]) Subscribe(fn func([]T)) (cancel func()) {
	l.mu.Lock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
