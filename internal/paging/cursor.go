package paging

// Cursor tracks the search term and current page of a view. Changing the
// term always moves back to page 1.
type Cursor struct {
	term string
	page int
	size int
}

// NewCursor returns a cursor on page 1 with an empty term. size must be
// positive.
func NewCursor(size int) *Cursor {
	if size <= 0 {
		panic("paging: page size must be positive")
	}
	return &Cursor{page: 1, size: size}
}

// Term returns the current search term.
func (c *Cursor) Term() string {
	return c.term
}

// Page returns the current page number.
func (c *Cursor) Page() int {
	return c.page
}

// Size returns the page size.
func (c *Cursor) Size() int {
	return c.size
}

// SetTerm sets the search term. A different term resets the page to 1.
func (c *Cursor) SetTerm(term string) {
	if term == c.term {
		return
	}
	c.term = term
	c.page = 1
}

// Reset clears the term and returns to page 1.
func (c *Cursor) Reset() {
	c.term = ""
	c.page = 1
}

// Goto moves to page n, clamped to [1, totalPages]. With no pages the
// cursor stays on page 1.
func (c *Cursor) Goto(n, totalPages int) {
	if n > totalPages {
		n = totalPages
	}
	if n < 1 {
		n = 1
	}
	c.page = n
}

// Next moves forward one page if one exists.
func (c *Cursor) Next(totalPages int) {
	c.Goto(c.page+1, totalPages)
}

// Prev moves back one page if one exists.
func (c *Cursor) Prev(totalPages int) {
	c.Goto(c.page-1, totalPages)
}

// Result is a filtered, paginated view of a collection.
type Result[T any] struct {
	Filtered []T
	Page     Page[T]
	Window   []int
}

// Apply filters items with the cursor's term and returns the current page.
// The cursor page is not modified; a page beyond the filtered result is
// returned empty.
func Apply[T any](c *Cursor, items []T, fields func(T) []string, tags func(T) []string) Result[T] {
	filtered := Filter(items, c.term, fields, tags)
	page := Paginate(filtered, c.size, c.page)
	return Result[T]{
		Filtered: filtered,
		Page:     page,
		Window:   Window(c.page, page.TotalPages, DefaultWindowSize),
	}
}
