package page

// WalkWhile traverses cached states starting at pivot, using step to derive
// each next page number, for as long as pred holds. It returns the last
// state that satisfied pred, or false when pivot is absent or itself fails
// pred. The walk ends at the first missing or failing page, so it never
// crosses a gap in the cache.
//
// step must move off the current page; a non-advancing step ends the walk
// rather than looping.
func (s *Store[T]) WalkWhile(pivot int, step func(page int) int, pred func(State[T]) bool) (State[T], bool) {
	var zero State[T]

	i, ok := s.indexOf(pivot)
	if !ok {
		return zero, false
	}

	cur := s.entries[i]
	if !pred(cur) {
		return zero, false
	}

	for {
		next := step(cur.page)
		if next == cur.page {
			return cur, true
		}

		j, ok := s.neighborIndex(i, next)
		if !ok {
			return cur, true
		}

		cand := s.entries[j]
		if !pred(cand) {
			return cur, true
		}

		cur, i = cand, j
	}
}

// neighborIndex locates page starting from the slots physically adjacent to
// index i before falling back to a binary search. Unit steps, the common
// case, resolve in O(1) regardless of store size.
func (s *Store[T]) neighborIndex(i int, page int) (int, bool) {
	if j := i + 1; j < len(s.entries) && s.entries[j].page == page {
		return j, true
	}
	if j := i - 1; j >= 0 && s.entries[j].page == page {
		return j, true
	}
	return s.indexOf(page)
}
