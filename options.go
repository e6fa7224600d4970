package paginator

import (
	"log/slog"

	"github.com/jamal-wia/Paginator-sub000/bookmark"
	"github.com/jamal-wia/Paginator-sub000/page"
)

type options[T any] struct {
	capacity         int
	finalPage        int
	guard            LoadGuard[T]
	factory          PageFactory[T]
	bookmarks        []bookmark.Bookmark
	maxConcurrent    int64
	ratePerSec       float64
	rateBurst        int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Paginator constructor behavior.
//
// Most options carry the item type parameter only because the load guard and
// page factory do; the Pages builder applies them without the explicit
// instantiation the bare functions need.
type Option[T any] func(*options[T])

// WithCapacity configures the target item count per page. A page is
// considered filled, and therefore part of a contiguous context window,
// only when it is a successful load of exactly this many items.
//
// Pass page.Unlimited (the default) to treat any successful non-empty load
// as filled.
func WithCapacity[T any](capacity int) Option[T] {
	return func(o *options[T]) {
		o.capacity = capacity
	}
}

// WithFinalPage configures the last reachable page. Navigation past it fails
// with ErrFinalPage. Zero (the default) leaves the page range unbounded.
func WithFinalPage[T any](finalPage int) Option[T] {
	return func(o *options[T]) {
		o.finalPage = finalPage
	}
}

// WithLoadGuard configures a predicate consulted before every loader call.
// Returning false vetoes the load: the page keeps its in-flight state and
// the operation fails with ErrGuardRejected.
//
// The guard sees the page number, the state currently cached for it (already
// marked in flight) and whether the page was cached at all. Use it to gate
// loads on connectivity, auth state or staleness windows.
func WithLoadGuard[T any](guard LoadGuard[T]) Option[T] {
	return func(o *options[T]) {
		o.guard = guard
	}
}

// WithPageFactory configures how synthetic trailing pages are materialized
// when element insertion overflows past the last cached page. Without a
// factory such overflow cannot be placed and the tail is dropped instead.
func WithPageFactory[T any](factory PageFactory[T]) Option[T] {
	return func(o *options[T]) {
		o.factory = factory
	}
}

// WithBookmarks seeds the bookmark list used by JumpForward and JumpBack.
// Bookmarks keep their insertion order; the cursor starts before the first.
func WithBookmarks[T any](bookmarks ...bookmark.Bookmark) Option[T] {
	return func(o *options[T]) {
		o.bookmarks = append(o.bookmarks[:0], bookmarks...)
	}
}

// WithConcurrentLoads caps the number of loader calls in flight at once.
// Zero (the default) leaves concurrency unbounded. Refresh batches are the
// main beneficiary; sequential navigation rarely holds more than one permit.
func WithConcurrentLoads[T any](n int64) Option[T] {
	return func(o *options[T]) {
		o.maxConcurrent = n
	}
}

// WithLoadRateLimit throttles loader calls to perSec with the given burst.
// Zero perSec (the default) disables rate limiting.
func WithLoadRateLimit[T any](perSec float64, burst int) Option[T] {
	return func(o *options[T]) {
		o.ratePerSec = perSec
		o.rateBurst = burst
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &paginator.BasicMetricsCollector{}
//	p, _ := paginator.New(loader, paginator.WithMetricsCollector[Article](metrics))
//	// ... use p ...
//	stats := metrics.GetStats()
//	fmt.Printf("Jumps: %d, Avg latency: %dns\n", stats.JumpCount, stats.JumpAvgNanos)
func WithMetricsCollector[T any](mc MetricsCollector) Option[T] {
	return func(o *options[T]) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := paginator.NewJSONLogger(slog.LevelInfo)
//	p, _ := paginator.New(loader, paginator.WithLogger[Article](logger))
func WithLogger[T any](logger *Logger) Option[T] {
	return func(o *options[T]) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel[T any](level slog.Level) Option[T] {
	return func(o *options[T]) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions[T any](optFns []Option[T]) options[T] {
	o := options[T]{
		capacity:         page.Unlimited,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
