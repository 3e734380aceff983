package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// Limiter spaces out operations by a fixed interval with optional jitter.
// It replaces the hard-coded sleep between enhanced articles so the pacing
// policy can be tuned without touching orchestration code. A zero interval
// never blocks. Safe for concurrent use.
type Limiter struct {
	ticker   *time.Ticker
	jitter   float64 // 0.0 to 1.0
	interval time.Duration
	ch       <-chan time.Time
}

// NewLimiter creates a limiter that allows one operation per interval.
// Jitter must be between 0.0 and 1.0.
func NewLimiter(interval time.Duration, jitter float64) *Limiter {
	if interval <= 0 {
		return &Limiter{jitter: jitter}
	}

	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	ticker := time.NewTicker(interval)

	return &Limiter{
		ticker:   ticker,
		jitter:   jitter,
		interval: interval,
		ch:       ticker.C,
	}
}

// Wait blocks until the next operation may proceed, or until the context is
// canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.ch == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ch:
		if l.jitter > 0 {
			jitterFactor := (rand.Float64() * 2) - 1.0 // -1.0 to 1.0
			jitterDuration := time.Duration(float64(l.interval) * l.jitter * jitterFactor)

			// Negative jitter cannot run earlier than the ticker allows, so
			// only positive jitter adds extra sleep.
			if jitterDuration > 0 {
				select {
				case <-time.After(jitterDuration):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

// Stop releases the limiter's resources.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
}
