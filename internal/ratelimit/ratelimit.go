// Package ratelimit provides a sliding-window request throttle used by
// provider adapters. Unlike a token bucket, the window guarantees at most
// N grants inside any rolling interval of the configured length.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Limiter grants at most maxRequests slots per rolling window. Acquire
// never rejects; it blocks until a slot frees up or the context ends.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	grants      []time.Time
	name        string

	now   func() time.Time             // injectable for testing
	sleep func(context.Context, time.Duration) error
}

// New creates a limiter allowing maxRequests per window.
func New(name string, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		name:        name,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// WithClock overrides the time source and sleeper for tests.
func (l *Limiter) WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) *Limiter {
	l.now = now
	l.sleep = sleep
	return l
}

// Acquire blocks until a request slot is available, then records the grant.
// It returns a non-nil error only when ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.evict(now)

		if len(l.grants) < l.maxRequests {
			l.grants = append(l.grants, now)
			l.mu.Unlock()
			return nil
		}

		// Oldest grant leaves the window first; wait it out.
		wait := l.grants[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		zap.L().Warn("rate limit reached, waiting for slot",
			zap.String("provider", l.name),
			zap.Duration("wait", wait),
		)
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Reset clears all recorded grants.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.grants = nil
}

// Pending returns the number of grants currently inside the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(l.now())
	return len(l.grants)
}

// evict drops grants older than the window. Caller holds l.mu.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.grants) && !l.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
