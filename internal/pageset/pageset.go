// Package pageset tracks sets of page numbers on a 32-bit roaring bitmap.
// The engine uses it for dirty-page bookkeeping, where sparse numbers and
// cheap range queries matter more than raw slice scans.
package pageset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a mutable set of positive page numbers. It wraps the official
// roaring implementation. Not safe for concurrent use.
type Set struct {
	rb *roaring.Bitmap
}

// New creates an empty set.
func New() *Set {
	return &Set{rb: roaring.New()}
}

// Of creates a set holding the given pages.
func Of(pages ...int) *Set {
	s := New()
	for _, p := range pages {
		s.Add(p)
	}
	return s
}

// Add inserts page into the set.
func (s *Set) Add(page int) {
	s.rb.Add(uint32(page))
}

// Remove deletes page from the set.
func (s *Set) Remove(page int) {
	s.rb.Remove(uint32(page))
}

// Contains checks whether page is in the set.
func (s *Set) Contains(page int) bool {
	return s.rb.Contains(uint32(page))
}

// IsEmpty returns true if the set holds nothing.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Len returns the number of pages in the set.
func (s *Set) Len() int {
	return int(s.rb.GetCardinality())
}

// Clear removes every page.
func (s *Set) Clear() {
	s.rb.Clear()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{rb: s.rb.Clone()}
}

// Slice returns the pages in ascending order.
func (s *Set) Slice() []int {
	out := make([]int, 0, s.Len())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// InRange returns the pages within [lo, hi] in ascending order.
func (s *Set) InRange(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	var out []int
	it := s.rb.Iterator()
	it.AdvanceIfNeeded(uint32(lo))
	for it.HasNext() {
		v := int(it.Next())
		if v > hi {
			break
		}
		out = append(out, v)
	}
	return out
}

// DrainRange removes and returns the pages within [lo, hi].
func (s *Set) DrainRange(lo, hi int) []int {
	out := s.InRange(lo, hi)
	if len(out) > 0 {
		s.rb.RemoveRange(uint64(lo), uint64(hi)+1)
	}
	return out
}

// All iterates the pages in ascending order.
func (s *Set) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}
