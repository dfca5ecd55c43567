package ecs

import "iter"

// Cursor provides stateful, resumable iteration over a Query snapshot, for
// callers that prefer advancing one entity at a time (e.g. a system that
// needs to bail out partway through and resume next tick) over ranging
// directly over the slice Query returns.
type Cursor struct {
	results []QueryResult
	index   int
}

// NewCursor wraps results for stepwise iteration. results is typically the
// slice returned by World.Query.
func NewCursor(results []QueryResult) *Cursor {
	return &Cursor{results: results, index: -1}
}

// Next advances the cursor and reports whether another result is available.
func (c *Cursor) Next() bool {
	if c.index+1 >= len(c.results) {
		return false
	}
	c.index++
	return true
}

// Current returns the result at the cursor's current position. Calling it
// before the first Next, or on an empty cursor, panics; after Next has
// returned false it keeps returning the last result.
func (c *Cursor) Current() QueryResult {
	return c.results[c.index]
}

// EntityAtOffset returns the result at the given offset from the cursor's
// current position, without moving the cursor.
func (c *Cursor) EntityAtOffset(offset int) (QueryResult, bool) {
	i := c.index + offset
	if i < 0 || i >= len(c.results) {
		return QueryResult{}, false
	}
	return c.results[i], true
}

// Remaining returns the number of results left after the current position.
func (c *Cursor) Remaining() int {
	return len(c.results) - c.index - 1
}

// Reset rewinds the cursor to before the first result.
func (c *Cursor) Reset() {
	c.index = -1
}

// Len returns the total number of results the cursor was built from.
func (c *Cursor) Len() int {
	return len(c.results)
}

// All returns an iterator sequence over every result, index-keyed, without
// disturbing the cursor's own position.
func (c *Cursor) All() iter.Seq2[int, QueryResult] {
	return func(yield func(int, QueryResult) bool) {
		for i, r := range c.results {
			if !yield(i, r) {
				return
			}
		}
	}
}
