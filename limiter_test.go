// Tideland Go Task Engine - Rate Limiter - Unit Tests
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tideland.dev/go/audit/asserts"
)

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

// TestRateLimiterUnthrottled tests that a limiter without interval grants
// immediately.
func TestRateLimiterUnthrottled(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()

	rl := NewRateLimiter(0)
	assert.Equal(rl.Interval(), time.Duration(0))

	start := time.Now()
	for range 100 {
		assert.NoError(rl.Acquire(ctx))
	}
	assert.True(time.Since(start) < 50*time.Millisecond)

	var nilrl *RateLimiter
	assert.NoError(nilrl.Acquire(ctx))
}

// TestRateLimiterRate tests that grants are spaced by the interval.
func TestRateLimiterRate(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	interval := 50 * time.Millisecond
	rl := NewRateLimiter(interval)

	// First permit is available immediately.
	assert.NoError(rl.Acquire(ctx))
	for range 4 {
		now := time.Now()
		assert.NoError(rl.Acquire(ctx))
		duration := time.Since(now)
		assert.Logf("duration %v", duration)
		assert.About(float64(duration), float64(interval), float64(25*time.Millisecond))
	}
}

// TestRateLimiterConcurrent tests that concurrent callers don't get more
// than one permit per interval.
func TestRateLimiterConcurrent(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	interval := 20 * time.Millisecond
	rl := NewRateLimiter(interval)

	var mu sync.Mutex
	var grants []time.Time
	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rl.Acquire(ctx); err != nil {
				return
			}
			mu.Lock()
			grants = append(grants, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(len(grants), 6)
	first, last := grants[0], grants[0]
	for _, g := range grants {
		if g.Before(first) {
			first = g
		}
		if g.After(last) {
			last = g
		}
	}
	// Six permits need at least five intervals, minus some timer slack.
	assert.True(last.Sub(first) >= 5*interval-10*time.Millisecond)
}

// TestRateLimiterFIFO tests that waiting callers are served in the order
// of their arrival.
func TestRateLimiterFIFO(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	interval := 40 * time.Millisecond
	rl := NewRateLimiter(interval)
	assert.NoError(rl.Acquire(ctx))

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rl.Acquire(ctx); err != nil {
				return
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
		// Stagger the arrivals well below the interval.
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.Logf("grant order %v", order)
	assert.Equal(order, []int{0, 1, 2, 3, 4})
}

// TestRateLimiterCancel tests that a waiting caller returns promptly after
// cancellation.
func TestRateLimiterCancel(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx, cancel := context.WithCancel(context.Background())
	rl := NewRateLimiter(time.Hour)
	assert.NoError(rl.Acquire(ctx))

	done := make(chan error, 1)
	go func() {
		done <- rl.Acquire(ctx)
	}()
	time.Sleep(10 * time.Millisecond)
	start := time.Now()
	cancel()

	select {
	case err := <-done:
		assert.True(errors.Is(err, context.Canceled))
		assert.True(time.Since(start) < 50*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("acquire not cancelled")
	}
}

// TestRateLimiterDeadline tests that a permit beyond the deadline of the
// context is not granted early.
func TestRateLimiterDeadline(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	rl := NewRateLimiter(time.Hour)
	assert.NoError(rl.Acquire(ctx))

	err := rl.Acquire(ctx)
	assert.True(errors.Is(err, context.DeadlineExceeded))
}

// EOF
