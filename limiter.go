// Tideland Go Task Engine - Rate Limiter
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a ticking gate granting one permit per interval. It
// doesn't accumulate bursts beyond one pending permit. Concurrent callers
// are served in the order of their arrival.
type RateLimiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewRateLimiter creates a rate limiter for the given interval. An interval
// of zero or less creates an unthrottled limiter.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		interval: interval,
	}
	if interval > 0 {
		rl.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return rl
}

// Acquire blocks until the next permit is granted or the context is done.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	if rl == nil || rl.limiter == nil {
		return ctx.Err()
	}
	if err := rl.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			// The permit would be granted after the deadline of the context.
			<-ctx.Done()
		}
		return ctx.Err()
	}
	return nil
}

// Interval returns the configured interval, zero if unthrottled.
func (rl *RateLimiter) Interval() time.Duration {
	if rl == nil {
		return 0
	}
	return rl.interval
}

// EOF
