package page

import (
	"fmt"
	"iter"
	"sort"
)

// Store is a sparse, page-indexed collection of states kept sorted by page
// number, giving O(log n) point access and ordered traversal. It performs
// no loading and publishes nothing; the owning engine drives it.
//
// A Store is not safe for concurrent use. The engine above it assumes a
// single logical writer.
type Store[T any] struct {
	entries  []State[T]
	capacity int
}

// NewStore creates an empty store with the given page capacity, which must
// be positive or Unlimited.
func NewStore[T any](capacity int) *Store[T] {
	checkCapacity(capacity)
	return &Store[T]{capacity: capacity}
}

func checkCapacity(capacity int) {
	if capacity < 1 && capacity != Unlimited {
		panic(fmt.Sprintf("page: capacity must be positive or Unlimited, got %d", capacity))
	}
}

// Capacity returns the target item count per page, or Unlimited.
func (s *Store[T]) Capacity() int { return s.capacity }

// SetCapacity changes the target item count per page. Cached pages are not
// re-chunked; pages whose length no longer matches simply stop reporting as
// filled.
func (s *Store[T]) SetCapacity(capacity int) {
	checkCapacity(capacity)
	s.capacity = capacity
}

// Len returns the number of cached pages.
func (s *Store[T]) Len() int { return len(s.entries) }

// indexOf binary-searches for page. When absent, the returned index is the
// insertion point.
func (s *Store[T]) indexOf(page int) (int, bool) {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].page >= page })
	if i < len(s.entries) && s.entries[i].page == page {
		return i, true
	}
	return i, false
}

// Get returns the cached state for page.
func (s *Store[T]) Get(page int) (State[T], bool) {
	if i, ok := s.indexOf(page); ok {
		return s.entries[i], true
	}
	var zero State[T]
	return zero, false
}

// Set inserts or replaces the state for st's page, keeping entries ordered.
func (s *Store[T]) Set(st State[T]) {
	if st.page < 1 {
		panic(fmt.Sprintf("page: page numbers start at 1, got %d", st.page))
	}
	i, ok := s.indexOf(st.page)
	if ok {
		s.entries[i] = st
		return
	}
	s.entries = append(s.entries, State[T]{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = st
}

// Remove deletes the state for page, reporting whether it was cached.
func (s *Store[T]) Remove(page int) bool {
	i, ok := s.indexOf(page)
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Clear drops every cached page.
func (s *Store[T]) Clear() {
	s.entries = s.entries[:0]
}

// First returns the lowest-numbered cached state.
func (s *Store[T]) First() (State[T], bool) {
	if len(s.entries) == 0 {
		var zero State[T]
		return zero, false
	}
	return s.entries[0], true
}

// Last returns the highest-numbered cached state.
func (s *Store[T]) Last() (State[T], bool) {
	if len(s.entries) == 0 {
		var zero State[T]
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

// Pages returns the cached page numbers in ascending order.
func (s *Store[T]) Pages() []int {
	pages := make([]int, len(s.entries))
	for i, st := range s.entries {
		pages[i] = st.page
	}
	return pages
}

// All iterates the cached states in ascending page order. The store must
// not be mutated during iteration.
func (s *Store[T]) All() iter.Seq[State[T]] {
	return func(yield func(State[T]) bool) {
		for _, st := range s.entries {
			if !yield(st) {
				return
			}
		}
	}
}

// Range iterates the cached states with page numbers in [lo, hi], ascending.
func (s *Store[T]) Range(lo, hi int) iter.Seq[State[T]] {
	return func(yield func(State[T]) bool) {
		i, _ := s.indexOf(lo)
		for ; i < len(s.entries) && s.entries[i].page <= hi; i++ {
			if !yield(s.entries[i]) {
				return
			}
		}
	}
}

// IsFilled applies the package-level predicate under the store's capacity.
func (s *Store[T]) IsFilled(st State[T]) bool {
	return IsFilled(st, s.capacity)
}

// FilledAt reports whether page is cached and filled.
func (s *Store[T]) FilledAt(page int) bool {
	st, ok := s.Get(page)
	return ok && s.IsFilled(st)
}
