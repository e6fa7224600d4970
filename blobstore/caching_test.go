package blobstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a Store and counts Get calls.
type countingStore struct {
	Store
	mu   sync.Mutex
	gets int
}

func (c *countingStore) Get(ctx context.Context, name string) ([]byte, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Store.Get(ctx, name)
}

func (c *countingStore) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func TestCachingStore(t *testing.T) {
	ctx := context.Background()

	t.Run("read-through populates the cache", func(t *testing.T) {
		remote := &countingStore{Store: NewMemoryStore()}
		require.NoError(t, remote.Put(ctx, "state", []byte("v1")))

		cs := NewCachingStore(remote, NewMemoryStore())

		data, err := cs.Get(ctx, "state")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), data)
		assert.Equal(t, 1, remote.getCount())

		// Second read is served from the cache.
		data, err = cs.Get(ctx, "state")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), data)
		assert.Equal(t, 1, remote.getCount())
	})

	t.Run("Put refreshes the cached copy", func(t *testing.T) {
		remote := NewMemoryStore()
		cache := NewMemoryStore()
		cs := NewCachingStore(remote, cache)

		require.NoError(t, cs.Put(ctx, "state", []byte("v1")))
		require.NoError(t, cs.Put(ctx, "state", []byte("v2")))

		cached, err := cache.Get(ctx, "state")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), cached)
	})

	t.Run("Delete drops both copies", func(t *testing.T) {
		remote := NewMemoryStore()
		cache := NewMemoryStore()
		cs := NewCachingStore(remote, cache)

		require.NoError(t, cs.Put(ctx, "state", []byte("v1")))
		require.NoError(t, cs.Delete(ctx, "state"))

		_, err := remote.Get(ctx, "state")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = cache.Get(ctx, "state")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("misses fall through", func(t *testing.T) {
		cs := NewCachingStore(NewMemoryStore(), NewMemoryStore())
		_, err := cs.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Warm prefetches in parallel", func(t *testing.T) {
		remote := &countingStore{Store: NewMemoryStore()}
		require.NoError(t, remote.Put(ctx, "a", []byte("1")))
		require.NoError(t, remote.Put(ctx, "b", []byte("2")))

		cache := NewMemoryStore()
		cs := NewCachingStore(remote, cache)

		// Absent names are skipped, not errors.
		require.NoError(t, cs.Warm(ctx, 4, "a", "b", "missing"))
		assert.Equal(t, 3, remote.getCount())

		names, err := cache.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)
	})
}

func TestCachingStoreWarmAborts(t *testing.T) {
	boom := errors.New("remote down")
	cs := NewCachingStore(failingStore{err: boom}, NewMemoryStore())

	err := cs.Warm(context.Background(), 2, "a", "b")
	assert.ErrorIs(t, err, boom)
}

// failingStore fails every operation with a fixed error.
type failingStore struct {
	err error
}

func (f failingStore) Put(context.Context, string, []byte) error      { return f.err }
func (f failingStore) Get(context.Context, string) ([]byte, error)    { return nil, f.err }
func (f failingStore) Delete(context.Context, string) error           { return f.err }
func (f failingStore) List(context.Context, string) ([]string, error) { return nil, f.err }
