package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff yields the pause between webhook post attempts.
type Backoff interface {
	Next(attempt int) time.Duration
}

const (
	defaultBase = 100 * time.Millisecond
	defaultMax  = 5 * time.Second
)

// ExponentialBackoff doubles Base per attempt up to Max. Jitter, in [0,1],
// subtracts a random share of the delay so parallel workers spread out.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

// Next returns the delay after the given 1-based attempt.
func (b ExponentialBackoff) Next(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = defaultBase
	}
	limit := b.Max
	if limit <= 0 {
		limit = defaultMax
	}
	delay := base
	for i := 1; i < attempt && delay < limit; i++ {
		delay *= 2
	}
	delay = min(delay, limit)
	if b.Jitter > 0 {
		share := min(b.Jitter, 1)
		delay -= time.Duration(rand.Float64() * share * float64(delay))
	}
	return delay
}

// Wait sleeps for d unless ctx ends first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
