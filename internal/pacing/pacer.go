// Package pacing spaces out calls to the external language service.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between calls.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a Pacer allowing one call per interval. A non-positive interval
// disables pacing.
func New(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
	}
}

// Wait blocks until the next call may be made or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Interval returns the configured minimum interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
