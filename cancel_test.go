// Tideland Go Task Engine - Cancellation - Unit Tests
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

// TestCancelerCancel tests the idempotent cancellation.
func TestCancelerCancel(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	c := NewCanceler(context.Background())
	assert.False(c.IsCancelled())
	assert.Nil(c.Cause())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Cancel()
		}()
	}
	wg.Wait()

	assert.True(c.IsCancelled())
	assert.True(errors.Is(c.Cause(), context.Canceled))
	select {
	case <-c.Done():
	default:
		t.Fatal("done channel not closed")
	}
	c.Cancel()
	assert.True(c.IsCancelled())
}

// TestCancelerCancelAfter tests the deadline based cancellation.
func TestCancelerCancelAfter(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	c := NewCanceler(nil)
	c.CancelAfter(20 * time.Millisecond)
	assert.False(c.IsCancelled())

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("canceler not cancelled after deadline")
	}
	assert.True(errors.Is(c.Cause(), context.DeadlineExceeded))

	// Cancelling later doesn't change the cause.
	c.Cancel()
	assert.True(errors.Is(c.Cause(), context.DeadlineExceeded))
}

// TestCancelerRearm tests that arming again replaces the former timer.
func TestCancelerRearm(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	c := NewCanceler(context.Background())
	c.CancelAfter(20 * time.Millisecond)
	c.CancelAfter(time.Hour)

	time.Sleep(50 * time.Millisecond)
	assert.False(c.IsCancelled())
	c.Cancel()
	assert.True(c.IsCancelled())
}

// TestCancelerParent tests that cancelling the parent cancels the canceler.
func TestCancelerParent(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	parent, cancel := context.WithCancel(context.Background())
	c := NewCanceler(parent)
	cancel()

	<-c.Done()
	assert.True(c.IsCancelled())
	assert.NotNil(c.Context().Err())
}

// EOF
