// Package screen implements the list screens of the administration and kitchen pages:
// fetch the whole collection, keep it next to a filtered copy and paginate locally.
package screen

import (
	"context"
	"strings"
	"sync"
)

// Fetcher loads the full collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// MatchFunc reports whether item matches a non-empty, lower-cased query.
type MatchFunc[T any] func(item T, query string) bool

// Page is one page of the filtered collection. Number is 1-based.
type Page[T any] struct {
	Items  []T `json:"items"`
	Number int `json:"page"`
	Size   int `json:"pageSize"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
	// Offset is the position of Items[0] in the filtered collection.
	Offset int `json:"offset"`
}

// Collection is safe for concurrent use. It starts stale; the first Ensure fetches.
type Collection[T any] struct {
	fetch    Fetcher[T]
	match    MatchFunc[T]
	pageSize int

	mu         sync.Mutex
	original   []T
	filtered   []T
	query      string
	scope      func(T) bool
	stale      bool
	generation uint64
	inflight   int
}

func NewCollection[T any](fetch Fetcher[T], match MatchFunc[T], pageSize int) *Collection[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Collection[T]{fetch: fetch, match: match, pageSize: pageSize, stale: true}
}

// Load fetches the collection and re-applies the current filter. A load overtaken by
// a newer one is dropped. On error the previous items are kept.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.inflight++
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		return err
	}
	if gen != c.generation {
		return nil
	}
	c.original = items
	c.stale = false
	c.apply()
	return nil
}

// Ensure loads the collection when it was never loaded or marked for reload.
func (c *Collection[T]) Ensure(ctx context.Context) error {
	c.mu.Lock()
	stale := c.stale
	c.mu.Unlock()
	if !stale {
		return nil
	}
	return c.Load(ctx)
}

// Reload marks the collection so the next Ensure fetches again. A load already in
// flight started before the change, so its result is dropped.
func (c *Collection[T]) Reload() {
	c.mu.Lock()
	c.stale = true
	c.generation++
	c.mu.Unlock()
}

// SetFilter sets the free-text query. Matching is case-insensitive.
func (c *Collection[T]) SetFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = strings.ToLower(strings.TrimSpace(query))
	c.apply()
}

// SetScope restricts the collection before the query is applied. nil removes it.
func (c *Collection[T]) SetScope(scope func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = scope
	c.apply()
}

// Filter returns the current query.
func (c *Collection[T]) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Page returns page n of the filtered items, clamped to the available range.
func (c *Collection[T]) Page(n int) Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := len(c.filtered)
	pages := (total + c.pageSize - 1) / c.pageSize
	if n > pages {
		n = pages
	}
	if n < 1 {
		n = 1
	}

	start := (n - 1) * c.pageSize
	end := min(start+c.pageSize, total)
	items := []T{}
	if start < end {
		items = append(items, c.filtered[start:end]...)
	}
	return Page[T]{Items: items, Number: n, Size: c.pageSize, Total: total, Pages: pages, Offset: start}
}

// Items returns a copy of the filtered items.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.filtered...)
}

// All returns a copy of the unfiltered items.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.original...)
}

// Loading reports whether a fetch is outstanding.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Stale reports whether the next Ensure will fetch.
func (c *Collection[T]) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// apply rebuilds filtered from original. Callers hold mu.
func (c *Collection[T]) apply() {
	c.filtered = c.filtered[:0:0]
	for _, item := range c.original {
		if c.scope != nil && !c.scope(item) {
			continue
		}
		if c.query != "" && c.match != nil && !c.match(item, c.query) {
			continue
		}
		c.filtered = append(c.filtered, item)
	}
}

// Contains reports whether s contains the lower-cased query, ignoring case.
func Contains(s, query string) bool {
	return strings.Contains(strings.ToLower(s), query)
}
