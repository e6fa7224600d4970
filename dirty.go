package paginator

import (
	"context"
)

// MarkDirty flags pages as stale-but-displayable: their cached data keeps
// rendering while a background Refresh is expected to replace it. Page
// numbers below 1 are ignored.
func (p *Paginator[T]) MarkDirty(pages ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pageNum := range pages {
		if pageNum >= 1 {
			p.dirty.Add(pageNum)
		}
	}
}

// ClearDirty removes the dirty flag from pages without reloading them.
func (p *Paginator[T]) ClearDirty(pages ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pageNum := range pages {
		p.dirty.Remove(pageNum)
	}
}

// IsDirty reports whether page is flagged for background refresh.
func (p *Paginator[T]) IsDirty(pageNum int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty.Contains(pageNum)
}

// DirtyPages returns every dirty page in ascending order.
func (p *Paginator[T]) DirtyPages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty.Slice()
}

// DirtyInRange returns the dirty pages with numbers in [lo, hi], ascending.
func (p *Paginator[T]) DirtyInRange(lo, hi int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty.InRange(lo, hi)
}

// TakeDirtyInRange removes and returns the dirty pages in [lo, hi], for
// hosts that drain the dirty set into their own refresh scheduling.
func (p *Paginator[T]) TakeDirtyInRange(lo, hi int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty.DrainRange(lo, hi)
}

// RefreshDirty reloads the dirty pages inside the current context window.
// Dirty pages outside the window stay flagged for a later pass; refreshing
// what nobody is looking at wastes loader calls. A nil return with no
// window or no dirty pages in range is a no-op.
func (p *Paginator[T]) RefreshDirty(ctx context.Context) error {
	p.mu.Lock()
	if p.window.IsZero() {
		p.mu.Unlock()
		return nil
	}
	pages := p.dirty.InRange(p.window.Start, p.window.End)
	p.mu.Unlock()

	if len(pages) == 0 {
		return nil
	}
	return p.Refresh(ctx, pages...)
}
