package testutil

import (
	"context"
	"fmt"
	"sync"
)

// Item returns the canonical item value for index within page, the same
// value a Source generates. Tests compare loader output against it.
func Item(page, index int) string {
	return fmt.Sprintf("p%d-%d", page, index)
}

// PageItems returns the full canonical item slice for page under the given
// capacity and total collection size.
func PageItems(page, capacity, total int) []string {
	start := (page - 1) * capacity
	if start >= total {
		return nil
	}
	n := min(capacity, total-start)
	items := make([]string, n)
	for i := range items {
		items[i] = Item(page, i)
	}
	return items
}

// Source is a deterministic in-memory collection serving fixed pages.
// Thread-safe; Refresh fan-out hits it concurrently.
type Source struct {
	mu       sync.Mutex
	capacity int
	total    int
	fail     map[int]error
	calls    map[int]int
}

// NewSource creates a source holding total items chunked into pages of
// capacity items. The last page may be short; pages past the end load
// empty.
func NewSource(capacity, total int) *Source {
	if capacity < 1 {
		panic(fmt.Sprintf("testutil: capacity must be positive, got %d", capacity))
	}
	return &Source{
		capacity: capacity,
		total:    total,
		fail:     make(map[int]error),
		calls:    make(map[int]int),
	}
}

// Load serves one page. It matches the paginator's Loader contract.
func (s *Source) Load(ctx context.Context, page int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[page]++
	if err := s.fail[page]; err != nil {
		return nil, err
	}
	return PageItems(page, s.capacity, s.total), nil
}

// FailPage makes every subsequent load of page return err.
func (s *Source) FailPage(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[page] = err
}

// HealPage clears a failure injected with FailPage.
func (s *Source) HealPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fail, page)
}

// SetTotal changes the collection size, e.g. to simulate items appearing
// or disappearing between refreshes.
func (s *Source) SetTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
}

// Calls returns how many times page has been loaded.
func (s *Source) Calls(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[page]
}

// TotalCalls returns the number of loads across all pages.
func (s *Source) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}
