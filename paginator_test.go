package paginator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamal-wia/Paginator-sub000/bookmark"
	"github.com/jamal-wia/Paginator-sub000/page"
	"github.com/jamal-wia/Paginator-sub000/testutil"
)

// seedClusters rebuilds the cache with one-item filled pages at the given
// numbers, capacity 1, and no window.
func seedClusters(t *testing.T, p *Paginator[string], pages ...int) {
	t.Helper()
	st := SavedState[string]{Capacity: 1}
	for _, num := range pages {
		st.Entries = append(st.Entries, SavedEntry[string]{
			Page:  num,
			Kind:  page.KindSuccess,
			Items: []string{testutil.Item(num, 0)},
		})
	}
	require.NoError(t, p.RestoreState(st))
}

func TestNewValidation(t *testing.T) {
	loader := testutil.NewSource(1, 10).Load

	t.Run("nil loader", func(t *testing.T) {
		_, err := New[string](nil)
		assert.ErrorIs(t, err, ErrNoLoader)
	})

	t.Run("bad capacity", func(t *testing.T) {
		_, err := New(loader, WithCapacity[string](0))
		var capErr *ErrInvalidCapacity
		assert.ErrorAs(t, err, &capErr)
	})

	t.Run("defaults", func(t *testing.T) {
		p, err := New(loader)
		require.NoError(t, err)
		assert.Equal(t, page.Unlimited, p.Capacity())
		assert.True(t, p.Window().IsZero())
	})
}

func TestJump(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects page below 1", func(t *testing.T) {
		p, _ := New(testutil.NewSource(1, 10).Load)
		_, err := p.Jump(ctx, bookmark.New(0))
		var invalid *ErrInvalidPage
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("rejects past the final page", func(t *testing.T) {
		p, _ := New(testutil.NewSource(1, 10).Load, WithFinalPage[string](3))
		_, err := p.Jump(ctx, bookmark.New(4))
		var final *ErrFinalPage
		require.ErrorAs(t, err, &final)
		assert.Equal(t, 4, final.Attempted)
		assert.Equal(t, 3, final.FinalPage)
	})

	t.Run("loads and anchors the window", func(t *testing.T) {
		src := testutil.NewSource(2, 20)
		p, _ := New(src.Load, WithCapacity[string](2))

		st, err := p.Jump(ctx, bookmark.New(3))
		require.NoError(t, err)
		assert.Equal(t, page.KindSuccess, st.Kind())
		assert.Equal(t, testutil.PageItems(3, 2, 20), st.Items())
		assert.Equal(t, page.Window{Start: 3, End: 3}, p.Window())
		assert.Equal(t, 1, src.Calls(3))
	})

	t.Run("filled cache hit re-anchors without a fetch", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 1, 2, 3, 11, 12, 13, 21, 22, 23)

		st, err := p.Jump(ctx, bookmark.New(13))
		require.NoError(t, err)
		assert.Equal(t, 13, st.Page())
		assert.Equal(t, page.Window{Start: 11, End: 13}, p.Window())
		assert.Zero(t, src.TotalCalls())
	})

	t.Run("loader failure lands as an error state", func(t *testing.T) {
		src := testutil.NewSource(1, 10)
		boom := errors.New("backend down")
		src.FailPage(2, boom)

		p, _ := New(src.Load, WithCapacity[string](1))
		st, err := p.Jump(ctx, bookmark.New(2))
		require.NoError(t, err) // loader failures are data, not errors
		assert.Equal(t, page.KindError, st.Kind())
		assert.ErrorIs(t, st.Err(), boom)
		assert.Equal(t, page.Window{Start: 2, End: 2}, p.Window())
	})

	t.Run("error state retains prior items", func(t *testing.T) {
		src := testutil.NewSource(1, 10)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 2)

		// The page is cached but we mark it dirty and break the backend;
		// a refresh keeps the stale items on the error state.
		src.FailPage(2, errors.New("backend down"))
		require.NoError(t, p.Refresh(ctx, 2))

		st, ok := p.State(2)
		require.True(t, ok)
		assert.Equal(t, page.KindError, st.Kind())
		assert.Equal(t, []string{testutil.Item(2, 0)}, st.Items())
	})

	t.Run("empty load", func(t *testing.T) {
		p, _ := New(testutil.NewSource(5, 10).Load, WithCapacity[string](5))
		st, err := p.Jump(ctx, bookmark.New(9))
		require.NoError(t, err)
		assert.Equal(t, page.KindEmpty, st.Kind())
	})

	t.Run("jump expands into neighboring filled pages", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 11, 13)

		st, err := p.Jump(ctx, bookmark.New(12))
		require.NoError(t, err)
		assert.Equal(t, page.KindSuccess, st.Kind())
		assert.Equal(t, page.Window{Start: 11, End: 13}, p.Window())
	})
}

func TestLoadGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection aborts before the loader", func(t *testing.T) {
		src := testutil.NewSource(1, 10)
		guard := func(pageNum int, current page.State[string], cached bool) bool {
			return pageNum != 3
		}
		p, _ := New(src.Load, WithCapacity[string](1), WithLoadGuard(guard))

		_, err := p.Jump(ctx, bookmark.New(3))
		var rejected *ErrGuardRejected
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, 3, rejected.Page)
		assert.Zero(t, src.Calls(3))

		// The pin and progress mark already happened.
		st, ok := p.State(3)
		require.True(t, ok)
		assert.Equal(t, page.KindProgress, st.Kind())
	})

	t.Run("guard sees cached flag", func(t *testing.T) {
		var sawCached bool
		guard := func(pageNum int, current page.State[string], cached bool) bool {
			sawCached = cached
			return true
		}
		src := testutil.NewSource(1, 10)
		p, _ := New(src.Load, WithCapacity[string](1), WithLoadGuard(guard))

		_, err := p.Jump(ctx, bookmark.New(1))
		require.NoError(t, err)
		assert.False(t, sawCached)

		require.NoError(t, p.Refresh(ctx, 1))
		assert.True(t, sawCached)
	})
}

func TestLocks(t *testing.T) {
	ctx := context.Background()
	p, _ := New(testutil.NewSource(1, 10).Load, WithCapacity[string](1))

	p.Lock(OpJump)
	assert.True(t, p.Locked(OpJump))

	_, err := p.Jump(ctx, bookmark.New(1))
	var locked *ErrLocked
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, OpJump, locked.Op)

	// Other operations are independent.
	_, err = p.NextPage(ctx)
	require.NoError(t, err)

	p.Unlock(OpJump)
	assert.False(t, p.Locked(OpJump))
	_, err = p.Jump(ctx, bookmark.New(2))
	assert.NoError(t, err)
}

func TestNextPage(t *testing.T) {
	ctx := context.Background()

	t.Run("no window delegates to page 1", func(t *testing.T) {
		src := testutil.NewSource(2, 20)
		p, _ := New(src.Load, WithCapacity[string](2))

		st, err := p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Page())
		assert.Equal(t, page.Window{Start: 1, End: 1}, p.Window())
	})

	t.Run("walks the collection to the final page", func(t *testing.T) {
		// Three full pages of five; the bound is explicit.
		src := testutil.NewSource(5, 15)
		p, err := Pages[string](src.Load).Capacity(5).FinalPage(3).Build()
		require.NoError(t, err)

		_, err = p.Jump(ctx, bookmark.New(1))
		require.NoError(t, err)

		st, err := p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, st.Page())

		st, err = p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, st.Page())
		assert.Equal(t, page.Window{Start: 1, End: 3}, p.Window())

		_, err = p.NextPage(ctx)
		var final *ErrFinalPage
		require.ErrorAs(t, err, &final)
		assert.Equal(t, 4, final.Attempted)
		assert.Equal(t, 3, final.FinalPage)
	})

	t.Run("partial page is retried, not skipped", func(t *testing.T) {
		// Eight items at capacity five: page 2 loads short.
		src := testutil.NewSource(5, 8)
		p, _ := New(src.Load, WithCapacity[string](5))

		_, err := p.Jump(ctx, bookmark.New(1))
		require.NoError(t, err)

		st, err := p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, st.Page())
		assert.Len(t, st.Items(), 3)
		// The short page never joined the window.
		assert.Equal(t, page.Window{Start: 1, End: 1}, p.Window())

		// More items appear upstream; the retry targets page 2 again.
		src.SetTotal(10)
		st, err = p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, st.Page())
		assert.Len(t, st.Items(), 5)
		assert.Equal(t, 2, src.Calls(2))
		assert.Equal(t, page.Window{Start: 1, End: 2}, p.Window())
	})

	t.Run("fast-forwards through already filled pages", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 1, 2, 3)

		_, err := p.Jump(ctx, bookmark.New(1))
		require.NoError(t, err)
		assert.Equal(t, page.Window{Start: 1, End: 3}, p.Window())

		st, err := p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, st.Page())
		assert.Equal(t, page.Window{Start: 1, End: 4}, p.Window())
	})

	t.Run("coalesces an in-flight target", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 1)

		_, err := p.Jump(ctx, bookmark.New(1))
		require.NoError(t, err)

		// Simulate a load already in flight for the target.
		p.mu.Lock()
		p.store.Set(page.Progress[string](2, nil))
		p.mu.Unlock()

		st, err := p.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, page.KindProgress, st.Kind())
		assert.Zero(t, src.Calls(2))
	})
}

func TestPrevPage(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a window", func(t *testing.T) {
		p, _ := New(testutil.NewSource(1, 10).Load, WithCapacity[string](1))
		_, err := p.PrevPage(ctx)
		assert.ErrorIs(t, err, ErrNotStarted)
	})

	t.Run("walks backward and stops at page 1", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))

		_, err := p.Jump(ctx, bookmark.New(2))
		require.NoError(t, err)

		st, err := p.PrevPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Page())
		assert.Equal(t, page.Window{Start: 1, End: 2}, p.Window())

		_, err = p.PrevPage(ctx)
		var invalid *ErrInvalidPage
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("retries a partial start page", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 5)

		_, err := p.Jump(ctx, bookmark.New(5))
		require.NoError(t, err)

		// Page 4 fails; it anchors the window start as a partial page.
		boom := errors.New("flaky")
		src.FailPage(4, boom)
		st, err := p.PrevPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, page.KindError, st.Kind())

		// The retry targets page 4 again instead of moving to 3.
		src.HealPage(4)
		st, err = p.PrevPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, st.Page())
		assert.Equal(t, page.KindSuccess, st.Kind())
		assert.Equal(t, 2, src.Calls(4))
		assert.Zero(t, src.Calls(3))
	})
}

func TestRestart(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewSource(1, 30)
	p, _ := New(src.Load, WithCapacity[string](1))
	seedClusters(t, p, 1, 2, 3, 11, 12)
	p.MarkDirty(11)

	_, err := p.Jump(ctx, bookmark.New(11))
	require.NoError(t, err)

	st, err := p.Restart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Page())
	assert.Equal(t, page.KindSuccess, st.Kind())
	assert.Equal(t, page.Window{Start: 1, End: 1}, p.Window())
	assert.Equal(t, []int{1}, p.CachedPages())
	assert.Empty(t, p.DirtyPages())
	// The cached copy of page 1 was ignored; the loader ran.
	assert.Equal(t, 1, src.Calls(1))
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("reloads a batch and clears dirty flags", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 1, 2, 3)
		p.MarkDirty(1, 2)

		require.NoError(t, p.Refresh(ctx, 1, 2, 2, 0)) // dupes and bad pages ignored
		assert.Equal(t, 1, src.Calls(1))
		assert.Equal(t, 1, src.Calls(2))
		assert.Zero(t, src.Calls(3))
		assert.Empty(t, p.DirtyPages())
	})

	t.Run("uncached pages load too", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))

		require.NoError(t, p.Refresh(ctx, 7))
		st, ok := p.State(7)
		require.True(t, ok)
		assert.Equal(t, page.KindSuccess, st.Kind())
	})

	t.Run("guard rejection spares siblings", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		guard := func(pageNum int, current page.State[string], cached bool) bool {
			return pageNum != 2
		}
		p, _ := New(src.Load, WithCapacity[string](1), WithLoadGuard(guard))
		seedClusters(t, p, 1, 2, 3)

		err := p.Refresh(ctx, 1, 2, 3)
		var rejected *ErrGuardRejected
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, 2, rejected.Page)

		// Pages 1 and 3 still committed their reloads.
		assert.Equal(t, 1, src.Calls(1))
		assert.Equal(t, 1, src.Calls(3))
		assert.Zero(t, src.Calls(2))
		st, _ := p.State(1)
		assert.Equal(t, page.KindSuccess, st.Kind())
		st, _ = p.State(2)
		assert.Equal(t, page.KindProgress, st.Kind())
	})

	t.Run("RefreshAll covers the cache", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		seedClusters(t, p, 4, 9)

		require.NoError(t, p.RefreshAll(ctx))
		assert.Equal(t, 1, src.Calls(4))
		assert.Equal(t, 1, src.Calls(9))
		assert.Equal(t, 2, src.TotalCalls())
	})

	t.Run("empty refresh is a no-op", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load, WithCapacity[string](1))
		require.NoError(t, p.Refresh(ctx))
		assert.Zero(t, src.TotalCalls())
	})
}

func TestBookmarkNavigation(t *testing.T) {
	ctx := context.Background()

	t.Run("skips bookmarks already visible", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load,
			WithCapacity[string](1),
			WithBookmarks[string](bookmark.New(1), bookmark.New(5), bookmark.New(10)),
		)
		seedClusters(t, p, 1, 2, 3)

		// Establish a visible span covering pages 1..3.
		_, err := p.Jump(ctx, bookmark.New(1))
		require.NoError(t, err)
		assert.Equal(t, page.Window{Start: 1, End: 3}, p.Window())

		st, ok, err := p.JumpForward(ctx, true)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 5, st.Page())
	})

	t.Run("exhausted without recycling", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load,
			WithCapacity[string](1),
			WithBookmarks[string](bookmark.New(4)),
		)

		_, ok, err := p.JumpForward(ctx, false)
		require.NoError(t, err)
		assert.True(t, ok)

		_, ok, err = p.JumpForward(ctx, false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		p, _ := New(testutil.NewSource(1, 10).Load, WithCapacity[string](1))
		_, ok, err := p.JumpForward(ctx, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("busy gate reopens after a loader panic", func(t *testing.T) {
		calls := 0
		loader := func(ctx context.Context, pageNum int) ([]string, error) {
			calls++
			if calls == 1 {
				panic("loader blew up")
			}
			return []string{testutil.Item(pageNum, 0)}, nil
		}
		p, _ := New(loader,
			WithCapacity[string](1),
			WithBookmarks[string](bookmark.New(2)),
		)

		func() {
			defer func() {
				require.NotNil(t, recover())
			}()
			_, _, _ = p.JumpForward(ctx, true)
		}()

		assert.False(t, p.Locked(OpJump))
		st, ok, err := p.JumpForward(ctx, true)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, st.Page())
	})

	t.Run("backward walk", func(t *testing.T) {
		src := testutil.NewSource(1, 30)
		p, _ := New(src.Load,
			WithCapacity[string](1),
			WithBookmarks[string](bookmark.New(4), bookmark.New(8)),
		)

		st, ok, err := p.JumpBack(ctx, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 8, st.Page())

		st, ok, err = p.JumpBack(ctx, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 4, st.Page())
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	p, _ := New(testutil.NewSource(1, 10).Load, WithCapacity[string](1))

	_, err := p.Jump(ctx, bookmark.New(1))
	require.NoError(t, err)

	ch, cancel := p.Subscribe()
	defer cancel()

	p.Release()
	assert.True(t, p.Released())
	assert.Empty(t, p.CachedPages())

	_, err = p.Jump(ctx, bookmark.New(1))
	assert.ErrorIs(t, err, ErrReleased)
	assert.ErrorIs(t, p.RemoveState(1), ErrReleased)

	// The stream drains its last value and closes.
	for range ch {
	}

	// Idempotent.
	p.Release()
}

func TestConcurrentLoadLimits(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewSource(1, 30)
	p, _ := New(src.Load,
		WithCapacity[string](1),
		WithConcurrentLoads[string](2),
	)

	require.NoError(t, p.Refresh(ctx, 1, 2, 3, 4, 5))
	assert.Equal(t, 5, src.TotalCalls())
	for i := 1; i <= 5; i++ {
		st, ok := p.State(i)
		require.True(t, ok)
		assert.Equal(t, page.KindSuccess, st.Kind())
	}
}
