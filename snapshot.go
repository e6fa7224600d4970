package paginator

import (
	"github.com/jamal-wia/Paginator-sub000/page"
)

// Snapshot is one published view of the page cache.
type Snapshot[T any] struct {
	// States holds the visible span in ascending page order: the cached
	// pages inside the context window plus any in-flight or failed page
	// immediately adjoining it on either side, so the loading edge renders.
	// Full-cache snapshots hold every cached page instead.
	States []page.State[T]

	// Window is the context window the snapshot was built around.
	Window page.Window

	// Seq increases with every publication. A subscriber that was drained
	// past intermediate values observes gaps.
	Seq uint64
}

// Span returns the page bounds of the snapshot's states, zero when the
// snapshot holds none.
func (s Snapshot[T]) Span() page.Window {
	if len(s.States) == 0 {
		return page.Window{}
	}
	return page.Window{
		Start: s.States[0].Page(),
		End:   s.States[len(s.States)-1].Page(),
	}
}

// Current returns the latest published windowed snapshot.
func (p *Paginator[T]) Current() (Snapshot[T], bool) {
	return p.windowed.Current()
}

// Subscribe returns a conflated stream of windowed snapshots. The channel
// arrives preloaded with the current snapshot when one exists; delivery is
// latest-value-wins, so a slow consumer may miss intermediate snapshots but
// never the final one. cancel releases the subscription and is safe to call
// more than once.
func (p *Paginator[T]) Subscribe() (<-chan Snapshot[T], func()) {
	return p.windowed.Subscribe()
}

// CurrentCache returns the latest published full-cache snapshot.
func (p *Paginator[T]) CurrentCache() (Snapshot[T], bool) {
	return p.full.Current()
}

// SubscribeCache returns a conflated stream of full-cache snapshots, one
// state per cached page. Meant for diagnostics; rendering hosts want
// Subscribe.
func (p *Paginator[T]) SubscribeCache() (<-chan Snapshot[T], func()) {
	return p.full.Subscribe()
}

// publishLocked builds and publishes both snapshot flavors and records the
// visible span for bookmark navigation. mu must be held.
func (p *Paginator[T]) publishLocked() {
	p.seq++

	snap := Snapshot[T]{Window: p.window, Seq: p.seq}
	if !p.window.IsZero() {
		if st, ok := p.store.Get(p.window.Start - 1); ok && isEdge(st.Kind()) {
			snap.States = append(snap.States, st)
		}
		for st := range p.store.Range(p.window.Start, p.window.End) {
			snap.States = append(snap.States, st)
		}
		if st, ok := p.store.Get(p.window.End + 1); ok && isEdge(st.Kind()) {
			snap.States = append(snap.States, st)
		}
	}
	p.visible = snap.Span()
	p.windowed.Publish(snap)

	full := Snapshot[T]{
		States: make([]page.State[T], 0, p.store.Len()),
		Window: p.window,
		Seq:    p.seq,
	}
	for st := range p.store.All() {
		full.States = append(full.States, st)
	}
	p.full.Publish(full)
}

// isEdge reports whether a state kind may adjoin the window in a snapshot.
func isEdge(k page.Kind) bool {
	return k == page.KindProgress || k == page.KindError
}
