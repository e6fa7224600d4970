package blobstore

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// CachingStore layers a fast local cache over a slow remote store. Reads go
// through the cache and populate it on a miss; writes and deletes hit the
// remote first and keep the cache in sync. Listing always comes from the
// remote, which stays the source of truth.
//
// Cache population is best effort: a cache write failure degrades to remote
// reads instead of failing the call.
type CachingStore struct {
	remote Store
	cache  Store
}

// NewCachingStore wraps remote with cache, typically a MemoryStore or a
// LocalStore on fast disk in front of an S3-backed store.
func NewCachingStore(remote, cache Store) *CachingStore {
	return &CachingStore{remote: remote, cache: cache}
}

// Put writes to the remote store and refreshes the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.remote.Put(ctx, name, data); err != nil {
		return err
	}
	_ = s.cache.Put(ctx, name, data)
	return nil
}

// Get reads through the cache, falling back to the remote on a miss and
// caching what it fetched.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, err := s.cache.Get(ctx, name); err == nil {
		return data, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data, err := s.remote.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Put(ctx, name, data)
	return data, nil
}

// Delete removes the blob from the remote store and drops the cached copy.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	if err := s.remote.Delete(ctx, name); err != nil {
		return err
	}
	return s.cache.Delete(ctx, name)
}

// List lists the remote store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}

// Warm fetches the named blobs into the cache, up to parallel at a time
// (sequentially when parallel < 2). Blobs absent from the remote are
// skipped; any other fetch failure aborts the warm-up.
func (s *CachingStore) Warm(ctx context.Context, parallel int, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 1 {
		g.SetLimit(parallel)
	} else {
		g.SetLimit(1)
	}

	for _, name := range names {
		g.Go(func() error {
			_, err := s.Get(ctx, name)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
