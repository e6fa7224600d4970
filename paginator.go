package paginator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamal-wia/Paginator-sub000/bookmark"
	"github.com/jamal-wia/Paginator-sub000/internal/conflate"
	"github.com/jamal-wia/Paginator-sub000/internal/loadctl"
	"github.com/jamal-wia/Paginator-sub000/internal/pageset"
	"github.com/jamal-wia/Paginator-sub000/page"
)

// Loader fetches one page of items. It is the only outward call the
// paginator makes. A returned error is never raised back through navigation:
// it is folded into a KindError page state carrying the last known items.
type Loader[T any] func(ctx context.Context, pageNum int) ([]T, error)

// LoadGuard is consulted immediately before every loader call. current is
// the state cached for the page at that moment, already marked in flight and
// carrying any prior items; cached reports whether the page held a state
// before the operation began. Returning false vetoes the load.
type LoadGuard[T any] func(pageNum int, current page.State[T], cached bool) bool

// PageFactory materializes a synthetic page when element insertion overflows
// past the last cached page. items is the overflow spilling into it.
type PageFactory[T any] func(pageNum int, items []T) page.State[T]

// Op identifies a lockable navigation operation.
type Op uint8

const (
	OpJump Op = iota
	OpNextPage
	OpPrevPage
	OpRestart
	OpRefresh
)

const opCount = 5

var opNames = [opCount]string{"jump", "next_page", "prev_page", "restart", "refresh"}

// String returns the snake_case name of the operation.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// NavOptions contains per-call options for navigation operations.
type NavOptions struct {
	// Silently suppresses the intermediate loading snapshot of the call.
	// Closing snapshots always publish.
	Silently bool
}

// Silently suppresses the intermediate loading snapshot of one navigation
// call. The closing snapshot still publishes.
func Silently() func(o *NavOptions) {
	return func(o *NavOptions) {
		o.Silently = true
	}
}

func applyNavOptions(optFns []func(o *NavOptions)) NavOptions {
	var opts NavOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts
}

// Paginator is a sparse page cache with window-based navigation. Pages load
// on demand through the Loader, land in an ordered store, and are exposed to
// subscribers as a contiguous context window of filled pages plus any
// loading or failed page adjoining it.
//
// Navigation calls are expected from a single logical owner. The per-op busy
// gates reject overlapping calls of the same operation; distinct operations
// may overlap, and Refresh fans its loads out internally. Snapshot
// subscription is safe from any goroutine.
type Paginator[T any] struct {
	mu        sync.Mutex
	store     *page.Store[T]
	window    page.Window
	visible   page.Window
	loader    Loader[T]
	guard     LoadGuard[T]
	factory   PageFactory[T]
	finalPage int
	bookmarks *bookmark.List
	dirty     *pageset.Set
	ctl       *loadctl.Controller
	logger    *Logger
	metrics   MetricsCollector

	locks [opCount]bool
	busy  [opCount]bool

	windowed *conflate.Holder[Snapshot[T]]
	full     *conflate.Holder[Snapshot[T]]
	seq      uint64
	released bool
}

// New creates a Paginator around loader. Most callers use the Pages builder;
// New is the options-based equivalent.
func New[T any](loader Loader[T], optFns ...Option[T]) (*Paginator[T], error) {
	if loader == nil {
		return nil, ErrNoLoader
	}

	opts := applyOptions(optFns)
	if opts.capacity < 1 && opts.capacity != page.Unlimited {
		return nil, &ErrInvalidCapacity{Capacity: opts.capacity}
	}
	if opts.finalPage < 0 {
		return nil, &ErrInvalidPage{Page: opts.finalPage}
	}

	logger := opts.logger
	if logger == nil {
		logger = NoopLogger()
	}
	metrics := opts.metricsCollector
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &Paginator[T]{
		store:     page.NewStore[T](opts.capacity),
		loader:    loader,
		guard:     opts.guard,
		factory:   opts.factory,
		finalPage: opts.finalPage,
		bookmarks: bookmark.NewList(opts.bookmarks...),
		dirty:     pageset.New(),
		ctl: loadctl.New(loadctl.Config{
			MaxConcurrent: opts.maxConcurrent,
			RatePerSec:    opts.ratePerSec,
			Burst:         opts.rateBurst,
		}),
		logger:   logger,
		metrics:  metrics,
		windowed: conflate.NewHolder[Snapshot[T]](),
		full:     conflate.NewHolder[Snapshot[T]](),
	}, nil
}

// Window returns the current context window. The zero window means no
// navigation has anchored a view yet.
func (p *Paginator[T]) Window() page.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// Capacity returns the target item count per page, or page.Unlimited.
func (p *Paginator[T]) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Capacity()
}

// FinalPage returns the configured last reachable page, zero when unbounded.
func (p *Paginator[T]) FinalPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finalPage
}

// SetFinalPage bounds navigation to pages at or below finalPage. Zero lifts
// the bound. Hosts typically call this once a short page reveals the end of
// the remote collection.
func (p *Paginator[T]) SetFinalPage(finalPage int) {
	if finalPage < 0 {
		finalPage = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finalPage = finalPage
}

// State returns the cached state for a page.
func (p *Paginator[T]) State(pageNum int) (page.State[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Get(pageNum)
}

// CachedPages returns the cached page numbers in ascending order.
func (p *Paginator[T]) CachedPages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Pages()
}

// Bookmarks returns the bookmark list driving JumpForward and JumpBack.
// Mutating it between calls is allowed; the cursor revalidates itself.
func (p *Paginator[T]) Bookmarks() *bookmark.List {
	return p.bookmarks
}

// Lock closes the gate for op: matching calls fail with ErrLocked until
// Unlock. Operations already in flight are unaffected.
func (p *Paginator[T]) Lock(op Op) {
	if int(op) >= opCount {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locks[op] = true
}

// Unlock reopens the gate for op.
func (p *Paginator[T]) Unlock(op Op) {
	if int(op) >= opCount {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locks[op] = false
}

// Locked reports whether op is gated, either explicitly via Lock or by a
// call of the same operation still in flight.
func (p *Paginator[T]) Locked(op Op) bool {
	if int(op) >= opCount {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locks[op] || p.busy[op]
}

// acquireOp claims the busy gate for op, failing fast when the paginator is
// released, the op is locked, or an identical op is in flight.
func (p *Paginator[T]) acquireOp(op Op) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if p.locks[op] || p.busy[op] {
		return &ErrLocked{Op: op}
	}
	p.busy[op] = true
	return nil
}

func (p *Paginator[T]) releaseOp(op Op) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy[op] = false
}

// admitLocked runs the load guard for a page about to load. mu must be held.
func (p *Paginator[T]) admitLocked(pageNum int, hadPrior bool) bool {
	if p.guard == nil {
		return true
	}
	current, _ := p.store.Get(pageNum)
	return p.guard(pageNum, current, hadPrior)
}

// load runs one admission-controlled loader call and folds the outcome into
// the state to cache. Loader failures become KindError states carrying the
// last known items; on this path errors are data.
func (p *Paginator[T]) load(ctx context.Context, target int, prior []T) page.State[T] {
	start := time.Now()
	if err := p.ctl.Acquire(ctx); err != nil {
		p.metrics.RecordLoad(time.Since(start), err)
		return page.Failed(target, err, prior)
	}
	items, err := p.loader(ctx, target)
	p.ctl.Release()
	p.metrics.RecordLoad(time.Since(start), err)
	if err != nil {
		return page.Failed(target, err, prior)
	}
	if len(items) == 0 {
		return page.Empty[T](target)
	}
	return page.Success(target, items)
}

// commitLocked stores a load result and clears the page's dirty flag. mu
// must be held.
func (p *Paginator[T]) commitLocked(st page.State[T]) {
	p.store.Set(st)
	p.dirty.Remove(st.Page())
}

// Jump moves the context window to the bookmarked page. A cached filled
// target re-anchors the window without loading; anything else pins the
// window to the target, marks it in flight and loads it. The returned state
// is the page's state after the operation; a failed load comes back as a
// KindError state with a nil error, while policy rejections (lock, guard,
// bounds) surface as errors.
func (p *Paginator[T]) Jump(ctx context.Context, bm bookmark.Bookmark, optFns ...func(o *NavOptions)) (page.State[T], error) {
	start := time.Now()
	st, err := p.runJump(ctx, bm.Page, applyNavOptions(optFns))
	p.metrics.RecordJump(time.Since(start), err)
	p.logger.LogJump(ctx, bm.Page, st.Kind(), err)
	return st, err
}

func (p *Paginator[T]) runJump(ctx context.Context, target int, opts NavOptions) (page.State[T], error) {
	var zero page.State[T]
	if err := p.acquireOp(OpJump); err != nil {
		return zero, err
	}
	defer p.releaseOp(OpJump)
	return p.jumpTo(ctx, target, opts)
}

// jumpTo is the shared jump flow. The caller holds a busy gate; mu is not
// held across the loader call.
func (p *Paginator[T]) jumpTo(ctx context.Context, target int, opts NavOptions) (page.State[T], error) {
	var zero page.State[T]

	p.mu.Lock()
	if target < 1 {
		p.mu.Unlock()
		return zero, &ErrInvalidPage{Page: target}
	}
	if p.finalPage > 0 && target > p.finalPage {
		err := &ErrFinalPage{Attempted: target, FinalPage: p.finalPage}
		p.mu.Unlock()
		return zero, err
	}

	if st, ok := p.store.Get(target); ok && p.store.IsFilled(st) {
		p.window = p.store.Expand(target)
		p.publishLocked()
		p.mu.Unlock()
		return st, nil
	}

	prior, hadPrior := p.store.Get(target)
	p.window = page.Window{Start: target, End: target}
	p.store.Set(page.Progress(target, prior.Items()))
	if !opts.Silently {
		p.publishLocked()
	}
	if !p.admitLocked(target, hadPrior) {
		p.mu.Unlock()
		return zero, &ErrGuardRejected{Page: target}
	}
	p.mu.Unlock()

	st := p.load(ctx, target, prior.Items())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return zero, ErrReleased
	}
	p.commitLocked(st)
	if p.store.IsFilled(st) {
		p.window = p.store.Expand(target)
	}
	p.publishLocked()
	return st, nil
}

// NextPage advances the view forward by one page. With no window yet it
// behaves as a jump to page 1. When the window's trailing page is filled,
// the window first fast-forwards through contiguously filled pages and the
// page after the run becomes the target; an unfilled trailing page is
// retried in place rather than skipped. A target past the final page fails
// with ErrFinalPage, and a target already in flight is returned as-is
// instead of issuing a second load.
func (p *Paginator[T]) NextPage(ctx context.Context, optFns ...func(o *NavOptions)) (page.State[T], error) {
	start := time.Now()
	st, target, err := p.nextPage(ctx, applyNavOptions(optFns))
	p.metrics.RecordNextPage(time.Since(start), err)
	p.logger.LogNextPage(ctx, target, st.Kind(), err)
	return st, err
}

func (p *Paginator[T]) nextPage(ctx context.Context, opts NavOptions) (page.State[T], int, error) {
	var zero page.State[T]
	if err := p.acquireOp(OpNextPage); err != nil {
		return zero, 0, err
	}
	defer p.releaseOp(OpNextPage)

	p.mu.Lock()
	if p.window.IsZero() {
		p.mu.Unlock()
		st, err := p.jumpTo(ctx, 1, opts)
		return st, 1, err
	}

	pivot := p.window.End
	if p.store.FilledAt(pivot) {
		p.window.End = p.store.ExpandEnd(pivot)
		pivot = p.window.End
	}
	target := pivot
	if p.store.FilledAt(pivot) {
		target = pivot + 1
	}

	if p.finalPage > 0 && target > p.finalPage {
		err := &ErrFinalPage{Attempted: target, FinalPage: p.finalPage}
		p.mu.Unlock()
		return zero, target, err
	}
	if st, ok := p.store.Get(target); ok && st.Kind() == page.KindProgress {
		p.mu.Unlock()
		return st, target, nil
	}

	prior, hadPrior := p.store.Get(target)
	p.store.Set(page.Progress(target, prior.Items()))
	if !opts.Silently {
		p.publishLocked()
	}
	if !p.admitLocked(target, hadPrior) {
		p.mu.Unlock()
		return zero, target, &ErrGuardRejected{Page: target}
	}
	p.mu.Unlock()

	st := p.load(ctx, target, prior.Items())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return zero, target, ErrReleased
	}
	p.commitLocked(st)
	if p.store.IsFilled(st) && (target == p.window.End || target == p.window.End+1) {
		p.window.End = p.store.ExpandEnd(target)
	}
	p.publishLocked()
	return st, target, nil
}

// PrevPage advances the view backward by one page, symmetric to NextPage.
// It requires an established window (ErrNotStarted otherwise) and the
// computed target must stay at or above page 1.
func (p *Paginator[T]) PrevPage(ctx context.Context, optFns ...func(o *NavOptions)) (page.State[T], error) {
	start := time.Now()
	st, target, err := p.prevPage(ctx, applyNavOptions(optFns))
	p.metrics.RecordPrevPage(time.Since(start), err)
	p.logger.LogPrevPage(ctx, target, st.Kind(), err)
	return st, err
}

func (p *Paginator[T]) prevPage(ctx context.Context, opts NavOptions) (page.State[T], int, error) {
	var zero page.State[T]
	if err := p.acquireOp(OpPrevPage); err != nil {
		return zero, 0, err
	}
	defer p.releaseOp(OpPrevPage)

	p.mu.Lock()
	if p.window.IsZero() {
		p.mu.Unlock()
		return zero, 0, ErrNotStarted
	}

	pivot := p.window.Start
	if p.store.FilledAt(pivot) {
		p.window.Start = p.store.ExpandStart(pivot)
		pivot = p.window.Start
	}
	target := pivot
	if p.store.FilledAt(pivot) {
		target = pivot - 1
	}

	if target < 1 {
		p.mu.Unlock()
		return zero, target, &ErrInvalidPage{Page: target}
	}
	if st, ok := p.store.Get(target); ok && st.Kind() == page.KindProgress {
		p.mu.Unlock()
		return st, target, nil
	}

	prior, hadPrior := p.store.Get(target)
	p.store.Set(page.Progress(target, prior.Items()))
	if !opts.Silently {
		p.publishLocked()
	}
	if !p.admitLocked(target, hadPrior) {
		p.mu.Unlock()
		return zero, target, &ErrGuardRejected{Page: target}
	}
	p.mu.Unlock()

	st := p.load(ctx, target, prior.Items())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return zero, target, ErrReleased
	}
	p.commitLocked(st)
	if p.store.IsFilled(st) && (target == p.window.Start || target == p.window.Start-1) {
		p.window.Start = p.store.ExpandStart(target)
	}
	p.publishLocked()
	return st, target, nil
}

// Restart discards the entire cache and dirty set, pins the window to
// [1,1] and force-loads page 1, ignoring any cached copy.
func (p *Paginator[T]) Restart(ctx context.Context, optFns ...func(o *NavOptions)) (page.State[T], error) {
	start := time.Now()
	st, err := p.restart(ctx, applyNavOptions(optFns))
	p.metrics.RecordRestart(time.Since(start), err)
	p.logger.LogRestart(ctx, st.Kind(), err)
	return st, err
}

func (p *Paginator[T]) restart(ctx context.Context, opts NavOptions) (page.State[T], error) {
	var zero page.State[T]
	if err := p.acquireOp(OpRestart); err != nil {
		return zero, err
	}
	defer p.releaseOp(OpRestart)

	p.mu.Lock()
	p.store.Clear()
	p.dirty.Clear()
	p.window = page.Window{Start: 1, End: 1}
	p.store.Set(page.Progress[T](1, nil))
	if !opts.Silently {
		p.publishLocked()
	}
	if !p.admitLocked(1, false) {
		p.mu.Unlock()
		return zero, &ErrGuardRejected{Page: 1}
	}
	p.mu.Unlock()

	st := p.load(ctx, 1, nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return zero, ErrReleased
	}
	p.commitLocked(st)
	if p.store.IsFilled(st) {
		p.window = p.store.Expand(1)
	}
	p.publishLocked()
	return st, nil
}

// Refresh reloads the given pages. Every page is marked in flight up front
// with one loading snapshot, loads fan out concurrently bounded by the
// concurrency controller, and all results commit together under one closing
// snapshot; no partial-refresh view is observable. Pages the guard rejects
// keep their in-flight state and the first rejection is returned after the
// batch completes; sibling loads are not cancelled. Pages need not be cached
// already; an uncached page enters as a fresh in-flight state and is loaded
// like the rest. Duplicates and page numbers below 1 are ignored.
func (p *Paginator[T]) Refresh(ctx context.Context, pages ...int) error {
	start := time.Now()
	attempted, failed, err := p.refreshPages(ctx, pages)
	p.metrics.RecordRefresh(attempted, failed, time.Since(start))
	p.logger.LogRefresh(ctx, attempted, failed, err)
	return err
}

// RefreshAll reloads every cached page.
func (p *Paginator[T]) RefreshAll(ctx context.Context) error {
	p.mu.Lock()
	pages := p.store.Pages()
	p.mu.Unlock()
	return p.Refresh(ctx, pages...)
}

func (p *Paginator[T]) refreshPages(ctx context.Context, pages []int) (attempted, failed int, err error) {
	if err := p.acquireOp(OpRefresh); err != nil {
		return 0, 0, err
	}
	defer p.releaseOp(OpRefresh)

	p.mu.Lock()
	seen := pageset.New()
	targets := make([]int, 0, len(pages))
	priors := make([]page.State[T], 0, len(pages))
	cached := make([]bool, 0, len(pages))
	for _, pageNum := range pages {
		if pageNum < 1 || seen.Contains(pageNum) {
			continue
		}
		prior, ok := p.store.Get(pageNum)
		seen.Add(pageNum)
		targets = append(targets, pageNum)
		priors = append(priors, prior)
		cached = append(cached, ok)
	}
	if len(targets) == 0 {
		p.mu.Unlock()
		return 0, 0, nil
	}

	for i, target := range targets {
		p.store.Set(page.Progress(target, priors[i].Items()))
	}
	p.publishLocked()

	var guardErr error
	admitted := make([]bool, len(targets))
	for i, target := range targets {
		if p.admitLocked(target, cached[i]) {
			admitted[i] = true
		} else if guardErr == nil {
			guardErr = &ErrGuardRejected{Page: target}
		}
	}
	p.mu.Unlock()

	results := make([]page.State[T], len(targets))
	var g errgroup.Group
	for i, target := range targets {
		if !admitted[i] {
			continue
		}
		g.Go(func() error {
			results[i] = p.load(ctx, target, priors[i].Items())
			return nil
		})
	}
	_ = g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return len(targets), 0, ErrReleased
	}
	for i := range targets {
		if !admitted[i] {
			continue
		}
		if results[i].Kind() == page.KindError {
			failed++
		}
		p.commitLocked(results[i])
	}
	p.publishLocked()
	return len(targets), failed, guardErr
}

// JumpForward advances the bookmark cursor to the next bookmark whose page
// lies outside the currently visible span and jumps to it. When every
// examined candidate is visible the last one examined is taken anyway, so a
// call that finds candidates always makes progress. ok is false, with no
// error, when the list is empty or exhausted without recycling.
func (p *Paginator[T]) JumpForward(ctx context.Context, recycle bool, optFns ...func(o *NavOptions)) (page.State[T], bool, error) {
	return p.jumpBookmark(ctx, recycle, applyNavOptions(optFns), p.bookmarks.Forward)
}

// JumpBack is the backward counterpart of JumpForward.
func (p *Paginator[T]) JumpBack(ctx context.Context, recycle bool, optFns ...func(o *NavOptions)) (page.State[T], bool, error) {
	return p.jumpBookmark(ctx, recycle, applyNavOptions(optFns), p.bookmarks.Back)
}

func (p *Paginator[T]) jumpBookmark(ctx context.Context, recycle bool, opts NavOptions, advance func(bool, func(int) bool) (bookmark.Bookmark, bool)) (page.State[T], bool, error) {
	var zero page.State[T]
	start := time.Now()
	if err := p.acquireOp(OpJump); err != nil {
		return zero, false, err
	}
	defer p.releaseOp(OpJump)

	p.mu.Lock()
	bm, ok := advance(recycle, p.visible.Contains)
	p.mu.Unlock()
	if !ok {
		return zero, false, nil
	}

	st, err := p.jumpTo(ctx, bm.Page, opts)
	p.metrics.RecordJump(time.Since(start), err)
	p.logger.LogJump(ctx, bm.Page, st.Kind(), err)
	return st, true, err
}
