package paginator

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    jumpCounter   prometheus.Counter
//	    loadHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordJump(duration time.Duration, err error) {
//	    p.jumpCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordJump is called after each jump operation.
	// duration is the total time taken, err is nil if the jump went through.
	RecordJump(duration time.Duration, err error)

	// RecordNextPage is called after each forward navigation step.
	RecordNextPage(duration time.Duration, err error)

	// RecordPrevPage is called after each backward navigation step.
	RecordPrevPage(duration time.Duration, err error)

	// RecordRestart is called after each restart.
	RecordRestart(duration time.Duration, err error)

	// RecordRefresh is called after each refresh batch.
	// pages is the number of pages attempted, failed is the number whose
	// reload came back failed, duration is the total time taken.
	RecordRefresh(pages, failed int, duration time.Duration)

	// RecordLoad is called after each individual loader invocation.
	// err is the raw loader failure before it is folded into a page state.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordJump(time.Duration, error)       {}
func (NoopMetricsCollector) RecordNextPage(time.Duration, error)   {}
func (NoopMetricsCollector) RecordPrevPage(time.Duration, error)   {}
func (NoopMetricsCollector) RecordRestart(time.Duration, error)    {}
func (NoopMetricsCollector) RecordRefresh(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	JumpCount      atomic.Int64
	JumpErrors     atomic.Int64
	JumpTotalNanos atomic.Int64
	NextCount      atomic.Int64
	NextErrors     atomic.Int64
	PrevCount      atomic.Int64
	PrevErrors     atomic.Int64
	RestartCount   atomic.Int64
	RestartErrors  atomic.Int64
	RefreshCount   atomic.Int64
	RefreshPages   atomic.Int64
	RefreshFailed  atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadTotalNanos atomic.Int64
}

// RecordJump implements MetricsCollector.
func (b *BasicMetricsCollector) RecordJump(duration time.Duration, err error) {
	b.JumpCount.Add(1)
	b.JumpTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.JumpErrors.Add(1)
	}
}

// RecordNextPage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNextPage(duration time.Duration, err error) {
	b.NextCount.Add(1)
	if err != nil {
		b.NextErrors.Add(1)
	}
}

// RecordPrevPage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPrevPage(duration time.Duration, err error) {
	b.PrevCount.Add(1)
	if err != nil {
		b.PrevErrors.Add(1)
	}
}

// RecordRestart implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestart(duration time.Duration, err error) {
	b.RestartCount.Add(1)
	if err != nil {
		b.RestartErrors.Add(1)
	}
}

// RecordRefresh implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRefresh(pages, failed int, duration time.Duration) {
	b.RefreshCount.Add(1)
	b.RefreshPages.Add(int64(pages))
	b.RefreshFailed.Add(int64(failed))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		JumpCount:     b.JumpCount.Load(),
		JumpErrors:    b.JumpErrors.Load(),
		JumpAvgNanos:  b.getAvgJumpNanos(),
		NextCount:     b.NextCount.Load(),
		NextErrors:    b.NextErrors.Load(),
		PrevCount:     b.PrevCount.Load(),
		PrevErrors:    b.PrevErrors.Load(),
		RestartCount:  b.RestartCount.Load(),
		RestartErrors: b.RestartErrors.Load(),
		RefreshCount:  b.RefreshCount.Load(),
		RefreshPages:  b.RefreshPages.Load(),
		RefreshFailed: b.RefreshFailed.Load(),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadAvgNanos:  b.getAvgLoadNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgJumpNanos() int64 {
	count := b.JumpCount.Load()
	if count == 0 {
		return 0
	}
	return b.JumpTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgLoadNanos() int64 {
	count := b.LoadCount.Load()
	if count == 0 {
		return 0
	}
	return b.LoadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	JumpCount     int64
	JumpErrors    int64
	JumpAvgNanos  int64
	NextCount     int64
	NextErrors    int64
	PrevCount     int64
	PrevErrors    int64
	RestartCount  int64
	RestartErrors int64
	RefreshCount  int64
	RefreshPages  int64
	RefreshFailed int64
	LoadCount     int64
	LoadErrors    int64
	LoadAvgNanos  int64
}
