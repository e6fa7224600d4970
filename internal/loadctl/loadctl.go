// Package loadctl gates loader invocations. It bounds how many loads run
// at once and how fast they are admitted, protecting the backend a loader
// talks to during wide refreshes.
package loadctl

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds admission limits. Zero values disable the matching limit.
type Config struct {
	// MaxConcurrent is the maximum number of loads in flight at once.
	MaxConcurrent int64

	// RatePerSec is the sustained load admission rate.
	RatePerSec float64

	// Burst is the admission burst size. Defaults to 1 when a rate is set.
	Burst int
}

// Controller serializes access to the loader according to its limits.
// A nil Controller admits everything immediately.
type Controller struct {
	sem     *semaphore.Weighted // nil if unbounded
	limiter *rate.Limiter       // nil if unlimited
}

// New creates a controller from cfg. When cfg enables no limit at all the
// returned controller still works; every Acquire succeeds without waiting.
func New(cfg Config) *Controller {
	c := &Controller{}

	if cfg.MaxConcurrent > 0 {
		c.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}

	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	return c
}

// Acquire blocks until a load may start or ctx is canceled. Every
// successful Acquire must be paired with a Release.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if c.sem != nil {
				c.sem.Release(1)
			}
			return err
		}
	}

	return nil
}

// Release returns a load slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	if c.sem != nil {
		c.sem.Release(1)
	}
}
