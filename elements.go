package paginator

import (
	"github.com/jamal-wia/Paginator-sub000/page"
)

// SetElement replaces the item at index on the given page. The page state is
// replaced wholesale (fresh revision), its kind is preserved, and one
// snapshot publishes on completion.
func (p *Paginator[T]) SetElement(pageNum, index int, value T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}

	st, ok := p.store.Get(pageNum)
	if !ok {
		return &ErrPageNotCached{Page: pageNum}
	}
	if index < 0 || index >= st.Len() {
		err := &ErrIndexOutOfRange{Page: pageNum, Index: index, Length: st.Len()}
		p.logger.LogElementOp("set", pageNum, err)
		return err
	}

	items := append([]T(nil), st.Items()...)
	items[index] = value
	p.store.Set(st.WithItems(items))

	p.publishLocked()
	p.logger.LogElementOp("set", pageNum, nil)
	return nil
}

// RemoveElement removes the item at index on the given page. Under a bounded
// capacity the hole is backfilled by pulling the first item from the
// immediately following page when that page holds the same kind of state,
// which in turn leaves a hole there, so the pull cascades page by page until
// it reaches a gap, a different kind, or a page that can absorb the loss.
// A page drained to zero items is removed from the cache entirely, with the
// same window repair RemoveState performs.
func (p *Paginator[T]) RemoveElement(pageNum, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}

	st, ok := p.store.Get(pageNum)
	if !ok {
		return &ErrPageNotCached{Page: pageNum}
	}
	if index < 0 || index >= st.Len() {
		err := &ErrIndexOutOfRange{Page: pageNum, Index: index, Length: st.Len()}
		p.logger.LogElementOp("remove", pageNum, err)
		return err
	}

	// Each pass removes one item from the current page and, when the page is
	// left short, steals the head of the next same-kind page; the theft is the
	// next pass's removal. The work moves strictly forward, so the loop is the
	// bounded equivalent of the natural recursion.
	cur, at := pageNum, index
	for {
		st, _ := p.store.Get(cur)
		items := append([]T(nil), st.Items()...)
		items = append(items[:at], items[at+1:]...)

		capacity := p.store.Capacity()
		if capacity != page.Unlimited && len(items) < capacity {
			if next, ok := p.store.Get(cur + 1); ok && next.Kind() == st.Kind() && next.Len() > 0 {
				items = append(items, next.Items()[0])
				p.store.Set(st.WithItems(items))
				cur, at = cur+1, 0
				continue
			}
		}

		p.store.Set(st.WithItems(items))
		if len(items) == 0 {
			p.removeStateLocked(cur)
		}
		break
	}

	p.publishLocked()
	p.logger.LogElementOp("remove", pageNum, nil)
	return nil
}

// AddElements inserts items on the given page before index (index may equal
// the page length to append). Under a bounded capacity the surplus beyond
// capacity spills into the head of the following page, which may overflow in
// turn; an absent following page is materialized through the page factory
// when one is configured. When the surplus has nowhere to go — no next page
// and no factory, or a next page of a different kind — the current page
// keeps its surplus (it stops reporting as filled) and every page after it
// is dropped, since their contents no longer line up with the shifted
// sequence; a window reaching past the drop point is relocated.
func (p *Paginator[T]) AddElements(items []T, pageNum, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}

	st, ok := p.store.Get(pageNum)
	if !ok {
		return &ErrPageNotCached{Page: pageNum}
	}
	if index < 0 || index > st.Len() {
		err := &ErrIndexOutOfRange{Page: pageNum, Index: index, Length: st.Len()}
		p.logger.LogElementOp("add", pageNum, err)
		return err
	}
	if len(items) == 0 {
		p.publishLocked()
		p.logger.LogElementOp("add", pageNum, nil)
		return nil
	}

	merged := make([]T, 0, st.Len()+len(items))
	merged = append(merged, st.Items()[:index]...)
	merged = append(merged, items...)
	merged = append(merged, st.Items()[index:]...)
	p.store.Set(st.WithItems(merged))

	// Walk the overflow forward one page at a time.
	capacity := p.store.Capacity()
	for cur := pageNum; capacity != page.Unlimited; {
		st, _ := p.store.Get(cur)
		if st.Len() <= capacity {
			break
		}

		next, nextOK := p.store.Get(cur + 1)
		spillNext := nextOK && next.Kind() == st.Kind()
		spillNew := !nextOK && p.factory != nil
		if !spillNext && !spillNew {
			p.truncateAfterLocked(cur)
			break
		}

		keep := append([]T(nil), st.Items()[:capacity]...)
		over := append([]T(nil), st.Items()[capacity:]...)
		p.store.Set(st.WithItems(keep))
		if spillNext {
			p.store.Set(next.WithItems(append(over, next.Items()...)))
		} else {
			p.store.Set(p.factory(cur+1, over))
		}
		cur++
	}

	p.publishLocked()
	p.logger.LogElementOp("add", pageNum, nil)
	return nil
}

// truncateAfterLocked drops every cached page above pageNum and relocates a
// window that reached past it. mu must be held.
func (p *Paginator[T]) truncateAfterLocked(pageNum int) {
	last, ok := p.store.Last()
	if !ok {
		return
	}
	for q := pageNum + 1; q <= last.Page(); q++ {
		p.store.Remove(q)
	}
	p.dirty.DrainRange(pageNum+1, last.Page())

	if !p.window.IsZero() && p.window.End > pageNum {
		if w, ok := p.store.NearestWindow(p.window.Start, p.window.End); ok {
			p.window = w
		} else {
			p.window = page.Window{}
		}
	}
}

// ReplaceElements scans every cached item in page order and rewrites the
// ones match accepts: provide returns the replacement, or ok=false to delete
// the item instead. Deletion does not skip the element that shifts into the
// vacated position. Pages emptied by deletions are collapsed afterwards,
// highest page first so the renumbering cannot disturb lower pages. Returns
// the number of items replaced or deleted.
func (p *Paginator[T]) ReplaceElements(match func(T) bool, provide func(T) (T, bool)) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || match == nil {
		return 0
	}

	touched := 0
	var emptied []int
	for _, pageNum := range p.store.Pages() {
		st, _ := p.store.Get(pageNum)
		if st.Len() == 0 {
			continue
		}

		items := append([]T(nil), st.Items()...)
		changed := false
		for i := 0; i < len(items); {
			if !match(items[i]) {
				i++
				continue
			}
			touched++
			changed = true
			if provide == nil {
				items = append(items[:i], items[i+1:]...)
				continue
			}
			if v, keep := provide(items[i]); keep {
				items[i] = v
				i++
			} else {
				items = append(items[:i], items[i+1:]...)
			}
		}
		if !changed {
			continue
		}

		p.store.Set(st.WithItems(items))
		if len(items) == 0 {
			emptied = append(emptied, pageNum)
		}
	}

	for i := len(emptied) - 1; i >= 0; i-- {
		p.removeStateLocked(emptied[i])
	}

	p.publishLocked()
	p.logger.LogElementOp("replace", touched, nil)
	return touched
}

// RemoveState deletes a page from the cache. With no window established this
// is a plain delete. Under an active window the page's cluster is collapsed:
// every following page of the cluster is renumbered down by one so the run
// stays contiguous, the window end retreats by one when the removal happened
// inside the window, the whole window shifts down by one when the removal
// happened below it in the same cluster (its pages moved, the bounds track
// them), and a window squeezed to nothing is relocated to the nearest filled
// cluster, or reset when none remains.
func (p *Paginator[T]) RemoveState(pageNum int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if _, ok := p.store.Get(pageNum); !ok {
		return &ErrPageNotCached{Page: pageNum}
	}

	p.removeStateLocked(pageNum)
	p.publishLocked()
	p.logger.LogElementOp("remove_state", pageNum, nil)
	return nil
}

// removeStateLocked implements RemoveState without publishing, for callers
// mid-mutation. mu must be held and the page must be cached.
func (p *Paginator[T]) removeStateLocked(pageNum int) {
	if p.window.IsZero() {
		p.store.Remove(pageNum)
		p.dirty.Remove(pageNum)
		return
	}

	cluster, _ := p.store.ClusterBounds(pageNum)
	p.store.Remove(pageNum)
	p.dirty.Remove(pageNum)
	for q := pageNum + 1; q <= cluster.End; q++ {
		st, _ := p.store.Get(q)
		p.store.Remove(q)
		p.store.Set(st.WithPage(q - 1))
		if p.dirty.Contains(q) {
			p.dirty.Remove(q)
			p.dirty.Add(q - 1)
		}
	}

	switch {
	case p.window.Contains(pageNum):
		p.window.End--
	case pageNum < p.window.Start && cluster.End >= p.window.Start:
		// The removed page sat below the window in the same cluster, so the
		// window's own pages were renumbered down; the bounds follow them.
		p.window.Start--
		p.window.End--
	}
	if p.window.End < p.window.Start {
		if w, ok := p.store.NearestWindow(pageNum, pageNum); ok {
			p.window = w
		} else {
			p.window = page.Window{}
		}
	}
}

// Resize changes the target page capacity. Without redistribution cached
// pages are left as they are; any page whose length no longer matches simply
// stops reporting as filled until something reloads it. With redistribution
// the filled span the window sits in — from the start of the cluster holding
// the nearest filled page at or before the window start, through the end of
// the cluster holding the nearest filled page at or after the window end —
// is flattened into one ordered sequence and re-chunked into pages of the
// new capacity starting at the span's first page. Item order is preserved
// and every rebuilt page except possibly the last holds exactly the new
// capacity. Pages outside the span are untouched. The window re-anchors on
// the rebuilt run.
func (p *Paginator[T]) Resize(capacity int, redistribute bool) error {
	if capacity < 1 && capacity != page.Unlimited {
		return &ErrInvalidCapacity{Capacity: capacity}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}

	if !redistribute || p.window.IsZero() {
		p.store.SetCapacity(capacity)
		p.publishLocked()
		p.logger.LogElementOp("resize", capacity, nil)
		return nil
	}

	// The span is determined under the old capacity; only then does the new
	// one take effect.
	lo, hi, ok := p.resizeSpanLocked()
	if !ok {
		p.store.SetCapacity(capacity)
		p.publishLocked()
		p.logger.LogElementOp("resize", capacity, nil)
		return nil
	}

	var flat []T
	for st := range p.store.Range(lo, hi) {
		if p.store.IsFilled(st) {
			flat = append(flat, st.Items()...)
		}
	}
	for q := lo; q <= hi; q++ {
		p.store.Remove(q)
	}
	p.dirty.DrainRange(lo, hi)
	p.store.SetCapacity(capacity)

	size := capacity
	if size == page.Unlimited {
		size = len(flat)
	}
	for i, q := 0, lo; i < len(flat); i, q = i+size, q+1 {
		end := min(i+size, len(flat))
		p.store.Set(page.Success(q, flat[i:end]))
	}

	p.window = p.store.Expand(lo)
	p.publishLocked()
	p.logger.LogElementOp("resize", capacity, nil)
	return nil
}

// resizeSpanLocked locates the page range a redistributing resize rebuilds.
// Anchors fall back across the window when one side has no filled page; ok
// is false when no filled page exists at all. mu must be held.
func (p *Paginator[T]) resizeSpanLocked() (lo, hi int, ok bool) {
	var filled []int
	for st := range p.store.All() {
		if p.store.IsFilled(st) {
			filled = append(filled, st.Page())
		}
	}
	if len(filled) == 0 {
		return 0, 0, false
	}

	loAnchor, hiAnchor := -1, -1
	for _, q := range filled {
		if q <= p.window.Start {
			loAnchor = q
		}
		if hiAnchor < 0 && q >= p.window.End {
			hiAnchor = q
		}
	}
	if loAnchor < 0 {
		loAnchor = filled[0]
	}
	if hiAnchor < 0 {
		hiAnchor = filled[len(filled)-1]
	}

	return p.store.ExpandStart(loAnchor), p.store.ExpandEnd(hiAnchor), true
}
