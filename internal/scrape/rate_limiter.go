package scrape

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces outgoing requests so the supplier site is never hit more
// than the configured number of times per second. Waiting respects request
// cancellation: a caller that gives up does not block the next one, its
// reserved slot simply passes unused.
type Limiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

func NewLimiter(requestsPerSecond int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Limiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

// Wait blocks until the caller's slot arrives or ctx is done, returning the
// context error in the latter case.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	scheduled := now
	if l.nextAllowedAt.After(now) {
		scheduled = l.nextAllowedAt
	}
	l.nextAllowedAt = scheduled.Add(l.interval)
	l.mu.Unlock()

	sleep := time.Until(scheduled)
	if sleep <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
