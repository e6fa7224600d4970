// Package paginator provides a sparse, page-indexed cache of remotely
// loaded list data for incremental consumption.
//
// Pages are fetched on demand through a caller-supplied Loader, held in an
// ordered cache keyed by page number, and exposed as a contiguous context
// window of filled pages that grows as the consumer navigates forward,
// backward, or jumps to a bookmarked location. Loader failures never
// surface as errors from navigation calls; they land in the cache as error
// states carrying the last known data, so a host can keep rendering stale
// content next to a retry affordance.
//
// # Quick Start
//
//	ctx := context.Background()
//	p, err := paginator.Pages[Article](loadArticles).
//	    Capacity(20).
//	    FinalPage(50).
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//	defer p.Release()
//
//	snapshots, cancel := p.Subscribe()
//	defer cancel()
//
//	p.Jump(ctx, bookmark.New(1))
//	p.NextPage(ctx)
//
// The subscription is conflated: a slow consumer may miss intermediate
// snapshots but always observes the latest one.
//
// # Navigation
//
//   - Jump re-anchors the window on any page, serving filled pages from
//     cache without a fetch.
//   - NextPage / PrevPage grow the window one page at a time. A page that
//     loaded short of capacity is retried in place instead of skipped.
//   - Restart discards everything and reloads from page 1.
//   - Refresh reloads a batch of pages concurrently under one snapshot.
//   - JumpForward / JumpBack walk a bookmark list, skipping bookmarks
//     already on screen.
//
// Navigation expects a single logical caller. The per-operation gates
// reject overlapping calls of the same operation with ErrLocked; they are
// a cooperative busy signal, not a mutex.
//
// # Element Operations
//
// SetElement, RemoveElement, AddElements and ReplaceElements mutate cached
// items in place, cascading overflow and underflow across adjacent pages
// so every page stays at its target capacity. Resize re-chunks the cached
// span around the window to a new capacity without losing item order.
//
// # Persistence
//
// SaveState and RestoreState convert the cache to and from a portable
// snapshot. The statestore package persists snapshots through pluggable
// blob backends (local disk, S3, MinIO) with optional compression.
package paginator
