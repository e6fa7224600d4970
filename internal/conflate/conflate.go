// Package conflate provides a latest-value-wins broadcast cell. Publishing
// replaces any value a subscriber has not yet consumed, so a slow consumer
// can miss intermediate values but always observes the most recent one.
package conflate

import "sync"

// Holder broadcasts values of type T to any number of subscribers through
// capacity-one channels. A publish never blocks on a subscriber.
type Holder[T any] struct {
	mu     sync.Mutex
	cur    T
	has    bool
	closed bool
	subs   map[uint64]chan T
	nextID uint64
}

// NewHolder creates an empty holder.
func NewHolder[T any]() *Holder[T] {
	return &Holder[T]{subs: make(map[uint64]chan T)}
}

// Publish stores v as the current value and offers it to every subscriber,
// discarding any value a subscriber has not consumed yet. Publishing to a
// closed holder is a no-op.
func (h *Holder[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.cur, h.has = v, true
	for _, ch := range h.subs {
		// Drain the stale value, if any. Only Publish sends and the lock
		// serializes it, so after the drain the buffer has room.
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Current returns the most recently published value.
func (h *Holder[T]) Current() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur, h.has
}

// Subscribe registers a consumer. The returned channel is preloaded with
// the current value when one exists. cancel detaches the consumer and
// closes its channel; it is safe to call more than once. Subscribing to a
// closed holder yields an already-closed channel.
func (h *Holder[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	if h.has {
		ch <- h.cur
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Len returns the number of active subscribers.
func (h *Holder[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close detaches every subscriber and closes their channels. Pending
// values remain readable before the close is observed.
func (h *Holder[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
