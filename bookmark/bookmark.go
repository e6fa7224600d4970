// Package bookmark maintains saved page references and the cursor walk
// used to hop between them during non-sequential navigation.
package bookmark

// Bookmark is a saved reference to a page.
type Bookmark struct {
	Page int `json:"page"`
}

// New returns a bookmark for page.
func New(page int) Bookmark {
	return Bookmark{Page: page}
}

// List is an ordered collection of bookmarks with a movable cursor. The
// cursor is a plain index revalidated against a version counter, so
// mutating the list between navigations cannot leave it dangling. Not
// safe for concurrent use.
type List struct {
	items         []Bookmark
	cursor        int // index of the last accepted bookmark, -1 before any
	version       uint64
	cursorVersion uint64
}

// NewList creates a list holding items in the given order.
func NewList(items ...Bookmark) *List {
	return &List{
		items:  append([]Bookmark(nil), items...),
		cursor: -1,
	}
}

// Len returns the number of bookmarks.
func (l *List) Len() int { return len(l.items) }

// Items returns a copy of the bookmarks in order.
func (l *List) Items() []Bookmark {
	return append([]Bookmark(nil), l.items...)
}

// Cursor returns the index of the last accepted bookmark, -1 when the list
// has not been navigated yet.
func (l *List) Cursor() int { return l.cursor }

// Add appends bookmarks to the list.
func (l *List) Add(bms ...Bookmark) {
	l.items = append(l.items, bms...)
	l.version++
}

// Remove deletes the first bookmark equal to bm, reporting whether one was
// found.
func (l *List) Remove(bm Bookmark) bool {
	for i, it := range l.items {
		if it == bm {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.version++
			return true
		}
	}
	return false
}

// Clear removes every bookmark and resets the cursor.
func (l *List) Clear() {
	l.items = l.items[:0]
	l.cursor = -1
	l.version++
}

// Reset moves the cursor back before the first bookmark.
func (l *List) Reset() {
	l.cursor = -1
	l.cursorVersion = l.version
}

// Forward advances the cursor to the next bookmark whose page is not
// currently visible and returns it. recycle wraps the walk past the end,
// visiting each bookmark at most once per call. When every examined
// candidate was visible the last one examined is taken anyway, so the
// navigation still makes progress. ok is false only when no candidate was
// examined at all: an empty list, or the cursor already at the end without
// recycling.
func (l *List) Forward(recycle bool, visible func(page int) bool) (Bookmark, bool) {
	l.revalidate()
	n := len(l.items)
	if n == 0 {
		return Bookmark{}, false
	}

	last := -1
	i := l.cursor
	for step := 0; step < n; step++ {
		i++
		if i >= n {
			if !recycle {
				break
			}
			i = 0
		}
		last = i
		if visible == nil || !visible(l.items[i].Page) {
			return l.commit(i), true
		}
	}

	if last < 0 {
		return Bookmark{}, false
	}
	return l.commit(last), true
}

// Back is the mirror of Forward, walking toward the front of the list.
// Before any navigation the walk starts from the far end.
func (l *List) Back(recycle bool, visible func(page int) bool) (Bookmark, bool) {
	l.revalidate()
	n := len(l.items)
	if n == 0 {
		return Bookmark{}, false
	}

	last := -1
	i := l.cursor
	if i < 0 {
		i = n
	}
	for step := 0; step < n; step++ {
		i--
		if i < 0 {
			if !recycle {
				break
			}
			i = n - 1
		}
		last = i
		if visible == nil || !visible(l.items[i].Page) {
			return l.commit(i), true
		}
	}

	if last < 0 {
		return Bookmark{}, false
	}
	return l.commit(last), true
}

// revalidate clamps the cursor after list mutations. The cursor tracks a
// position, not a bookmark identity, so clamping into range is all the
// repair needed.
func (l *List) revalidate() {
	if l.cursorVersion == l.version {
		return
	}
	l.cursorVersion = l.version
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < -1 {
		l.cursor = -1
	}
}

func (l *List) commit(i int) Bookmark {
	l.cursor = i
	l.cursorVersion = l.version
	return l.items[i]
}
