// Package paginator provides a sparse page cache with window-based navigation.
//
// This file implements the fluent builder API for creating and configuring Paginator instances.
// The builder is immutable - each method returns a new builder with the updated configuration.
package paginator

import (
	"github.com/jamal-wia/Paginator-sub000/bookmark"
	"github.com/jamal-wia/Paginator-sub000/page"
)

// Pages creates a new paginator builder around the given loader.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents accidental
// state sharing.
//
// Example:
//
//	p, err := paginator.Pages[Article](loadArticles).
//	    Capacity(20).
//	    FinalPage(50).
//	    ConcurrentLoads(4).
//	    Build()
func Pages[T any](loader Loader[T]) Builder[T] {
	return Builder[T]{
		loader:   loader,
		capacity: page.Unlimited,
	}
}

// Builder is an immutable fluent builder for creating Paginator instances.
// Each method returns a new builder with the updated configuration.
type Builder[T any] struct {
	loader        Loader[T]
	capacity      int
	finalPage     int
	guard         LoadGuard[T]
	factory       PageFactory[T]
	bookmarks     []bookmark.Bookmark
	maxConcurrent int64
	ratePerSec    float64
	rateBurst     int
	logger        *Logger
	metrics       MetricsCollector
}

// Capacity sets the target item count per page. A page counts as filled only
// when it is a successful load of exactly this many items.
// Default: page.Unlimited (any successful non-empty load is filled).
func (b Builder[T]) Capacity(capacity int) Builder[T] {
	b.capacity = capacity
	return b
}

// FinalPage sets the last reachable page. Navigation past it fails with
// ErrFinalPage. Default: 0 (unbounded).
func (b Builder[T]) FinalPage(finalPage int) Builder[T] {
	b.finalPage = finalPage
	return b
}

// Guard sets a predicate consulted before every loader call.
// Returning false vetoes the load and fails the operation with
// ErrGuardRejected.
func (b Builder[T]) Guard(guard LoadGuard[T]) Builder[T] {
	b.guard = guard
	return b
}

// Factory sets how synthetic trailing pages are materialized when element
// insertion overflows past the last cached page.
func (b Builder[T]) Factory(factory PageFactory[T]) Builder[T] {
	b.factory = factory
	return b
}

// Bookmarks seeds the bookmark list used by JumpForward and JumpBack.
func (b Builder[T]) Bookmarks(bms ...bookmark.Bookmark) Builder[T] {
	b.bookmarks = bms
	return b
}

// ConcurrentLoads caps the number of loader calls in flight at once.
// Default: 0 (unbounded).
func (b Builder[T]) ConcurrentLoads(n int64) Builder[T] {
	b.maxConcurrent = n
	return b
}

// RateLimit throttles loader calls to perSec with the given burst.
// Default: no rate limiting.
func (b Builder[T]) RateLimit(perSec float64, burst int) Builder[T] {
	b.ratePerSec = perSec
	b.rateBurst = burst
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder[T]) Logger(l *Logger) Builder[T] {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder[T]) Metrics(mc MetricsCollector) Builder[T] {
	b.metrics = mc
	return b
}

// Build creates the Paginator instance.
func (b Builder[T]) Build() (*Paginator[T], error) {
	optFns := []Option[T]{
		WithCapacity[T](b.capacity),
	}
	if b.finalPage > 0 {
		optFns = append(optFns, WithFinalPage[T](b.finalPage))
	}
	if b.guard != nil {
		optFns = append(optFns, WithLoadGuard(b.guard))
	}
	if b.factory != nil {
		optFns = append(optFns, WithPageFactory(b.factory))
	}
	if len(b.bookmarks) > 0 {
		optFns = append(optFns, WithBookmarks[T](b.bookmarks...))
	}
	if b.maxConcurrent > 0 {
		optFns = append(optFns, WithConcurrentLoads[T](b.maxConcurrent))
	}
	if b.ratePerSec > 0 {
		optFns = append(optFns, WithLoadRateLimit[T](b.ratePerSec, b.rateBurst))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger[T](b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector[T](b.metrics))
	}

	return New(b.loader, optFns...)
}

// MustBuild creates the Paginator instance, panicking on error.
func (b Builder[T]) MustBuild() *Paginator[T] {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
