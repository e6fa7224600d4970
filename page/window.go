package page

import (
	"fmt"
	"sort"
)

// Window bounds the contiguous run of filled pages currently in view,
// inclusive on both ends. The zero value means no window has been
// established yet.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsZero reports whether the window is the unset sentinel.
func (w Window) IsZero() bool { return w.Start == 0 && w.End == 0 }

// Contains reports whether page lies inside the window.
func (w Window) Contains(page int) bool {
	return !w.IsZero() && page >= w.Start && page <= w.End
}

// Span returns the number of pages the window covers.
func (w Window) Span() int {
	if w.IsZero() {
		return 0
	}
	return w.End - w.Start + 1
}

// String returns the conventional [start,end] form.
func (w Window) String() string {
	return fmt.Sprintf("[%d,%d]", w.Start, w.End)
}

// ExpandStart walks backward from pivot through contiguous filled pages and
// returns the furthest page reached. An unfilled or absent pivot returns
// pivot unchanged.
func (s *Store[T]) ExpandStart(pivot int) int {
	st, ok := s.WalkWhile(pivot, func(p int) int { return p - 1 }, s.IsFilled)
	if !ok {
		return pivot
	}
	return st.page
}

// ExpandEnd walks forward from pivot through contiguous filled pages and
// returns the furthest page reached. An unfilled or absent pivot returns
// pivot unchanged.
func (s *Store[T]) ExpandEnd(pivot int) int {
	st, ok := s.WalkWhile(pivot, func(p int) int { return p + 1 }, s.IsFilled)
	if !ok {
		return pivot
	}
	return st.page
}

// Expand grows a window in both directions from pivot through contiguous
// filled pages. When pivot is not a filled cached page the window pins to
// [pivot, pivot], which is how a freshly loading or partial page anchors
// the view.
func (s *Store[T]) Expand(pivot int) Window {
	return Window{Start: s.ExpandStart(pivot), End: s.ExpandEnd(pivot)}
}

// ClusterBounds returns the maximal run of contiguously numbered cached
// pages containing page, regardless of their kinds.
func (s *Store[T]) ClusterBounds(page int) (Window, bool) {
	cached := func(State[T]) bool { return true }
	lo, ok := s.WalkWhile(page, func(p int) int { return p - 1 }, cached)
	if !ok {
		return Window{}, false
	}
	hi, _ := s.WalkWhile(page, func(p int) int { return p + 1 }, cached)
	return Window{Start: lo.page, End: hi.page}, true
}

// NearestWindow relocates a context window around two probe points, the
// former start and end of a window that no longer holds. The store is
// reduced to its filled pages; an exact hit on either probe snaps the
// window to that page's cluster. Otherwise the nearest filled pages
// at-or-below and at-or-above each probe compete on a distance-minus-one
// cost and the cheapest candidate's cluster wins, earlier candidates
// taking ties. ok is false when no filled page exists at all.
func (s *Store[T]) NearestWindow(startPoint, endPoint int) (Window, bool) {
	filled := make([]int, 0, len(s.entries))
	for _, st := range s.entries {
		if s.IsFilled(st) {
			filled = append(filled, st.page)
		}
	}
	if len(filled) == 0 {
		return Window{}, false
	}

	// Candidates enumerate as start-below, start-above, end-below,
	// end-above, each scored against the probe that produced it. A page
	// adjacent to its probe costs zero.
	type candidate struct {
		page int
		cost int
	}
	var candidates []candidate
	for _, probe := range [2]int{startPoint, endPoint} {
		i := sort.SearchInts(filled, probe)
		if i < len(filled) && filled[i] == probe {
			return s.Expand(probe), true
		}
		if i > 0 {
			candidates = append(candidates, candidate{page: filled[i-1], cost: probe - filled[i-1] - 1})
		}
		if i < len(filled) {
			candidates = append(candidates, candidate{page: filled[i], cost: filled[i] - probe - 1})
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	return s.Expand(best.page), true
}
