package paginator

import (
	"github.com/jamal-wia/Paginator-sub000/page"
)

// SavedEntry is one cached page in portable form.
type SavedEntry[T any] struct {
	Page  int       `json:"page"`
	Kind  page.Kind `json:"kind"`
	Items []T       `json:"data,omitempty"`
}

// SavedState is the portable snapshot of a paginator: every cached page,
// the capacity, the context window bounds, and the dirty set. Pair it with
// a statestore.Manager to persist sessions across process restarts.
type SavedState[T any] struct {
	Entries          []SavedEntry[T] `json:"entries"`
	Capacity         int             `json:"capacity"`
	StartContextPage int             `json:"startContextPage"`
	EndContextPage   int             `json:"endContextPage"`
	DirtyPages       []int           `json:"dirtyPages,omitempty"`
}

// SaveState captures the current cache, window and dirty set. In-flight and
// failed pages are saved with whatever items they carry; their kinds are
// coerced on restore, not on save, so the snapshot reflects what the
// paginator actually held.
func (p *Paginator[T]) SaveState() SavedState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := SavedState[T]{
		Entries:          make([]SavedEntry[T], 0, p.store.Len()),
		Capacity:         p.store.Capacity(),
		StartContextPage: p.window.Start,
		EndContextPage:   p.window.End,
		DirtyPages:       p.dirty.Slice(),
	}
	for s := range p.store.All() {
		st.Entries = append(st.Entries, SavedEntry[T]{
			Page:  s.Page(),
			Kind:  s.Kind(),
			Items: s.Items(),
		})
	}
	return st
}

// RestoreState replaces the paginator's contents with a saved snapshot.
// Cached payloads are trusted: in-flight and failed entries come back as
// successes flagged dirty for background refresh, and entries without
// items come back empty. Every restored state receives a fresh identity;
// there is no revision continuity across a restore. The saved window is
// kept when both bounds still point at filled pages, otherwise the window
// relocates to the nearest filled cluster, or resets when none exists.
// One snapshot publishes after the rebuild.
func (p *Paginator[T]) RestoreState(st SavedState[T]) error {
	if st.Capacity < 1 && st.Capacity != page.Unlimited {
		return &ErrInvalidCapacity{Capacity: st.Capacity}
	}
	for _, e := range st.Entries {
		if e.Page < 1 {
			return &ErrInvalidPage{Page: e.Page}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}

	p.store.Clear()
	p.store.SetCapacity(st.Capacity)
	p.dirty.Clear()

	for _, e := range st.Entries {
		switch {
		case len(e.Items) == 0:
			p.store.Set(page.Empty[T](e.Page))
		default:
			p.store.Set(page.Success(e.Page, e.Items))
		}
		if e.Kind == page.KindProgress || e.Kind == page.KindError {
			p.dirty.Add(e.Page)
		}
	}
	for _, pageNum := range st.DirtyPages {
		if _, ok := p.store.Get(pageNum); ok {
			p.dirty.Add(pageNum)
		}
	}

	saved := page.Window{Start: st.StartContextPage, End: st.EndContextPage}
	switch {
	case saved.IsZero():
		p.window = page.Window{}
	case p.store.FilledAt(saved.Start) && p.store.FilledAt(saved.End):
		p.window = saved
	default:
		if w, ok := p.store.NearestWindow(saved.Start, saved.End); ok {
			p.window = w
		} else {
			p.window = page.Window{}
		}
	}

	p.publishLocked()
	p.logger.LogRestore(len(st.Entries), p.window)
	return nil
}
