// Package paging filters in-memory collections by a search term and slices
// them into fixed-size pages.
//
// All functions are pure: identical inputs give identical outputs.
package paging

import "strings"

// DefaultWindowSize is the number of page buttons shown at once.
const DefaultWindowSize = 5

// Filter returns the items for which the lowercased term is a substring of
// any value returned by fields or tags. An empty term matches every item.
// Either accessor may be nil. Order is preserved.
func Filter[T any](items []T, term string, fields func(T) []string, tags func(T) []string) []T {
	if term == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, needle, fields) || matches(item, needle, tags) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T any](item T, needle string, values func(T) []string) bool {
	if values == nil {
		return false
	}
	for _, v := range values(item) {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Page is one page of a filtered collection.
type Page[T any] struct {
	Items      []T
	Number     int // requested page, 1-based
	Size       int
	Total      int // number of filtered items
	TotalPages int
}

// Paginate returns page number page (1-based) of items. TotalPages is
// ceil(len(items)/size) and 0 for an empty collection. A page outside
// [1, TotalPages] has no items. size must be positive.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size <= 0 {
		panic("paging: page size must be positive")
	}

	n := len(items)
	p := Page[T]{
		Number:     page,
		Size:       size,
		Total:      n,
		TotalPages: TotalPages(n, size),
		Items:      []T{},
	}
	if page < 1 || page > p.TotalPages {
		return p
	}

	start := (page - 1) * size
	end := start + size
	if end > n {
		end = n
	}
	p.Items = make([]T, end-start)
	copy(p.Items, items[start:end])
	return p
}

// TotalPages returns ceil(n/size), 0 when n is 0.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ShowControls reports whether pagination controls should be displayed.
func (p Page[T]) ShowControls() bool {
	return p.TotalPages > 1
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// Empty reports whether the page has no items.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}

// Window returns the page numbers to show as buttons around current.
// Near the start the first size pages are shown, near the end the last
// size pages, otherwise a window centered on current. Numbers outside
// [1, total] are omitted.
func Window(current, total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}
	half := size / 2
	edge := half + 1

	var first, last int
	switch {
	case current <= edge:
		first, last = 1, size
	case current > total-edge:
		first, last = total-size+1, total
	default:
		first, last = current-half, current-half+size-1
	}

	pages := make([]int, 0, size)
	for n := first; n <= last; n++ {
		if n < 1 || n > total {
			continue
		}
		pages = append(pages, n)
	}
	return pages
}
