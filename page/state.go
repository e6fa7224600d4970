// Package page provides the sparse page cache underlying the paginator:
// the state variants a page moves through while loading, an ordered store
// with binary-search access, and the window arithmetic that keeps a
// contiguous run of filled pages in view.
package page

import (
	"fmt"
	"sync/atomic"
)

// Unlimited disables the per-page capacity bound.
const Unlimited = -1

// Kind discriminates the variants of a page State.
// The set is closed; hosts switch exhaustively over it.
type Kind uint8

const (
	// KindProgress marks a page whose load is in flight.
	KindProgress Kind = iota
	// KindSuccess marks a page that loaded with data.
	KindSuccess
	// KindEmpty marks a page that loaded successfully with no data.
	// It is a refinement of success, never of error.
	KindEmpty
	// KindError marks a page whose most recent load failed.
	KindError
)

var kindNames = [...]string{"progress", "success", "empty", "error"}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler so persisted entries carry
// readable kind names.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("page: unknown state kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if string(text) == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("page: unknown state kind %q", text)
}

// revCounter stamps every constructed state. Two states built from the same
// inputs still carry distinct revisions, which is how replacements and
// restored entries are told apart from their predecessors.
var revCounter atomic.Uint64

// State is one cached page. Values are immutable by convention: mutation
// means constructing a replacement with a fresh revision via WithItems or
// the package constructors.
type State[T any] struct {
	page  int
	kind  Kind
	items []T
	err   error
	rev   uint64
}

// Progress returns an in-flight state for page. items carries data already
// known for the page (a stale copy shown while reloading), which may be nil.
func Progress[T any](page int, items []T) State[T] {
	return newState(page, KindProgress, items, nil)
}

// Success returns a loaded state holding items.
func Success[T any](page int, items []T) State[T] {
	return newState(page, KindSuccess, items, nil)
}

// Empty returns a loaded state that came back without data.
func Empty[T any](page int) State[T] {
	return newState[T](page, KindEmpty, nil, nil)
}

// Failed returns a failed state for page. err is the load failure and items
// carries the last data known before the failure, which may be nil.
func Failed[T any](page int, err error, items []T) State[T] {
	return newState(page, KindError, items, err)
}

func newState[T any](page int, kind Kind, items []T, err error) State[T] {
	if page < 1 {
		panic(fmt.Sprintf("page: page numbers start at 1, got %d", page))
	}
	var copied []T
	if len(items) > 0 {
		copied = make([]T, len(items))
		copy(copied, items)
	}
	return State[T]{
		page:  page,
		kind:  kind,
		items: copied,
		err:   err,
		rev:   revCounter.Add(1),
	}
}

// Page returns the page number the state belongs to.
func (s State[T]) Page() int { return s.page }

// Kind returns the state variant.
func (s State[T]) Kind() Kind { return s.kind }

// Items returns the page data. The returned slice is shared; callers must
// not modify it.
func (s State[T]) Items() []T { return s.items }

// Len returns the number of items the state carries.
func (s State[T]) Len() int { return len(s.items) }

// Err returns the load failure of a KindError state, nil otherwise.
func (s State[T]) Err() error { return s.err }

// Rev returns the revision stamped at construction. Revisions increase
// monotonically per process and restart from scratch after a restore.
func (s State[T]) Rev() uint64 { return s.rev }

// WithItems returns a replacement state carrying items instead of the
// current data. Page, kind and error are preserved; the revision is fresh.
func (s State[T]) WithItems(items []T) State[T] {
	return newState(s.page, s.kind, items, s.err)
}

// WithPage returns a replacement state renumbered to page. Kind, items and
// error are preserved; the revision is fresh.
func (s State[T]) WithPage(page int) State[T] {
	return newState(page, s.kind, s.items, s.err)
}

// String returns a compact description for logs.
func (s State[T]) String() string {
	if s.kind == KindError {
		return fmt.Sprintf("page %d %s (%d items, %v)", s.page, s.kind, len(s.items), s.err)
	}
	return fmt.Sprintf("page %d %s (%d items)", s.page, s.kind, len(s.items))
}

// IsFilled reports whether s is a data-complete success: KindEmpty never
// qualifies, and a bounded capacity requires an exact item count. This is
// the single definition of "filled" used by window expansion, relocation
// and sequential navigation.
func IsFilled[T any](s State[T], capacity int) bool {
	if s.kind != KindSuccess {
		return false
	}
	return capacity == Unlimited || len(s.items) == capacity
}
