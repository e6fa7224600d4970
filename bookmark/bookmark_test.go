package bookmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nothingVisible(int) bool { return false }

func TestListBasics(t *testing.T) {
	l := NewList(New(1), New(5))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, -1, l.Cursor())

	l.Add(New(10))
	assert.Equal(t, []Bookmark{{Page: 1}, {Page: 5}, {Page: 10}}, l.Items())

	assert.True(t, l.Remove(New(5)))
	assert.False(t, l.Remove(New(5)))
	assert.Equal(t, 2, l.Len())

	l.Clear()
	assert.Zero(t, l.Len())
}

func TestListForward(t *testing.T) {
	t.Run("walks in order", func(t *testing.T) {
		l := NewList(New(1), New(5), New(10))

		bm, ok := l.Forward(false, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 1, bm.Page)

		bm, ok = l.Forward(false, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 5, bm.Page)

		bm, ok = l.Forward(false, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 10, bm.Page)

		_, ok = l.Forward(false, nothingVisible)
		assert.False(t, ok)
	})

	t.Run("skips visible pages", func(t *testing.T) {
		l := NewList(New(1), New(5), New(10))
		visible := func(p int) bool { return p <= 3 }

		bm, ok := l.Forward(false, visible)
		require.True(t, ok)
		assert.Equal(t, 5, bm.Page)
	})

	t.Run("all visible falls back to the last examined", func(t *testing.T) {
		l := NewList(New(1), New(2), New(3))
		visible := func(int) bool { return true }

		bm, ok := l.Forward(false, visible)
		require.True(t, ok)
		assert.Equal(t, 3, bm.Page)
	})

	t.Run("recycling wraps once", func(t *testing.T) {
		l := NewList(New(1), New(5), New(10))
		_, _ = l.Forward(false, nothingVisible) // cursor on 1
		_, _ = l.Forward(false, nothingVisible) // cursor on 5
		_, _ = l.Forward(false, nothingVisible) // cursor on 10

		bm, ok := l.Forward(true, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 1, bm.Page)
	})

	t.Run("empty list", func(t *testing.T) {
		l := NewList()
		_, ok := l.Forward(true, nothingVisible)
		assert.False(t, ok)
	})
}

func TestListBack(t *testing.T) {
	t.Run("starts from the far end", func(t *testing.T) {
		l := NewList(New(1), New(5), New(10))

		bm, ok := l.Back(false, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 10, bm.Page)

		bm, ok = l.Back(false, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 5, bm.Page)
	})

	t.Run("exhausts at the front without recycling", func(t *testing.T) {
		l := NewList(New(1), New(5))
		_, _ = l.Back(false, nothingVisible) // 5
		_, _ = l.Back(false, nothingVisible) // 1

		_, ok := l.Back(false, nothingVisible)
		assert.False(t, ok)
	})

	t.Run("recycling wraps to the back", func(t *testing.T) {
		l := NewList(New(1), New(5))
		_, _ = l.Back(false, nothingVisible) // 5
		_, _ = l.Back(false, nothingVisible) // 1

		bm, ok := l.Back(true, nothingVisible)
		require.True(t, ok)
		assert.Equal(t, 5, bm.Page)
	})

	t.Run("skips visible pages", func(t *testing.T) {
		l := NewList(New(1), New(5), New(10))
		visible := func(p int) bool { return p == 10 }

		bm, ok := l.Back(false, visible)
		require.True(t, ok)
		assert.Equal(t, 5, bm.Page)
	})
}

func TestListCursorRevalidation(t *testing.T) {
	l := NewList(New(1), New(5), New(10))
	_, _ = l.Forward(false, nothingVisible)
	_, _ = l.Forward(false, nothingVisible)
	_, _ = l.Forward(false, nothingVisible)
	require.Equal(t, 2, l.Cursor())

	// Shrinking the list clamps the stale cursor instead of dangling.
	l.Remove(New(10))

	bm, ok := l.Back(false, nothingVisible)
	require.True(t, ok)
	assert.Equal(t, 1, bm.Page)

	// Clamped onto the lone remaining element, both directions exhaust
	// without recycling.
	l.Remove(New(5))
	_, ok = l.Back(false, nothingVisible)
	assert.False(t, ok)
	_, ok = l.Forward(false, nothingVisible)
	assert.False(t, ok)
}

func TestListReset(t *testing.T) {
	l := NewList(New(1), New(5))
	_, _ = l.Forward(false, nothingVisible)
	l.Reset()

	bm, ok := l.Forward(false, nothingVisible)
	require.True(t, ok)
	assert.Equal(t, 1, bm.Page)
}
