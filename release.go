package paginator

import (
	"github.com/jamal-wia/Paginator-sub000/page"
)

// Release tears the paginator down: the cache, the dirty set and the
// window are discarded and both snapshot streams close, waking every
// subscriber with a closed channel. Navigation and element calls after
// Release fail with ErrReleased. Release is idempotent; loads already in
// flight finish but their results are not committed.
func (p *Paginator[T]) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true

	p.store.Clear()
	p.dirty.Clear()
	p.window = page.Window{}
	p.visible = page.Window{}

	p.windowed.Close()
	p.full.Close()
}

// Released reports whether Release has been called.
func (p *Paginator[T]) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}
