// Tideland Go Task Engine - Work Queue - Unit Tests
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"tideland.dev/go/audit/asserts"
)

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

// TestWorkQueueCapacity tests the validation of the capacity.
func TestWorkQueueCapacity(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)

	q, err := NewWorkQueue[int](0)
	assert.True(q == nil)
	assert.NotNil(err)

	q, err = NewWorkQueue[int](3)
	assert.NoError(err)
	assert.Equal(q.Cap(), 3)
	assert.Equal(q.Len(), 0)
}

// TestWorkQueueFIFO tests that tasks leave the queue in submission order.
func TestWorkQueueFIFO(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	q, err := NewWorkQueue[int](5)
	assert.NoError(err)

	for i := range 5 {
		assert.NoError(q.Enqueue(ctx, NewTaskWithID(strconv.Itoa(i), i)))
	}
	q.Close()

	for i := range 5 {
		task, ok, err := q.Dequeue(ctx)
		assert.NoError(err)
		assert.True(ok)
		assert.Equal(task.Payload, i)
	}
	_, ok, err := q.Dequeue(ctx)
	assert.NoError(err)
	assert.False(ok)
}

// TestWorkQueueBackpressure tests that enqueueing into a full queue blocks
// until a consumer dequeues.
func TestWorkQueueBackpressure(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	q, err := NewWorkQueue[int](2)
	assert.NoError(err)

	assert.NoError(q.Enqueue(ctx, NewTask(1)))
	assert.NoError(q.Enqueue(ctx, NewTask(2)))

	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, NewTask(3))
	}()

	select {
	case <-done:
		t.Fatal("enqueue into full queue returned prematurely")
	case <-time.After(50 * time.Millisecond):
	}

	task, ok, err := q.Dequeue(ctx)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(task.Payload, 1)

	select {
	case err := <-done:
		assert.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("enqueue did not continue after dequeue")
	}
	assert.Equal(q.Len(), 2)
}

// TestWorkQueueTryEnqueue tests the non-blocking enqueueing.
func TestWorkQueueTryEnqueue(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	q, err := NewWorkQueue[int](1)
	assert.NoError(err)

	assert.NoError(q.TryEnqueue(NewTask(1)))
	err = q.TryEnqueue(NewTask(2))
	var qferr QueueFullError
	assert.True(errors.As(err, &qferr))
	assert.Equal(qferr.Capacity, 1)

	q.Close()
	err = q.TryEnqueue(NewTask(3))
	assert.True(errors.As(err, &QueueClosedError{}))
}

// TestWorkQueueClosed tests enqueueing into a closed queue.
func TestWorkQueueClosed(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	q, err := NewWorkQueue[int](2)
	assert.NoError(err)

	assert.NoError(q.Enqueue(ctx, NewTask(1)))
	q.Close()
	assert.True(q.Closed())

	err = q.Enqueue(ctx, NewTask(2))
	assert.True(errors.As(err, &QueueClosedError{}))

	// Enqueued task is still delivered.
	task, ok, err := q.Dequeue(ctx)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(task.Payload, 1)
	_, ok, err = q.Dequeue(ctx)
	assert.NoError(err)
	assert.False(ok)
}

// TestWorkQueueCloseWakesProducer tests that a producer blocked on a full
// queue fails when the queue gets closed.
func TestWorkQueueCloseWakesProducer(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	q, err := NewWorkQueue[int](1)
	assert.NoError(err)
	assert.NoError(q.Enqueue(ctx, NewTask(1)))

	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, NewTask(2))
	}()
	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		assert.True(errors.As(err, &QueueClosedError{}))
	case <-time.After(time.Second):
		t.Fatal("blocked producer not woken by close")
	}
}

// TestWorkQueueDoubleClose tests that closing twice panics.
func TestWorkQueueDoubleClose(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	q, err := NewWorkQueue[int](1)
	assert.NoError(err)

	assert.Nil(catchPanic(q.Close))
	v := catchPanic(q.Close)
	dcerr, ok := v.(DoubleCloseError)
	assert.True(ok)
	assert.Equal(dcerr.Resource, "work queue")
}

// TestWorkQueueDiscard tests that discarding returns the waiting tasks in
// order, wakes blocked producers, and still allows closing the queue.
func TestWorkQueueDiscard(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx := context.Background()
	q, err := NewWorkQueue[int](2)
	assert.NoError(err)

	accepted := 0
	accept := func() { accepted++ }
	assert.NoError(q.enqueue(ctx, NewTaskWithID("1", 1), accept))
	assert.NoError(q.tryEnqueue(NewTaskWithID("2", 2), accept))
	assert.True(errors.As(q.tryEnqueue(NewTask(3), accept), &QueueFullError{}))
	assert.Equal(accepted, 2)

	done := make(chan error, 1)
	go func() {
		done <- q.enqueue(ctx, NewTask(4), accept)
	}()
	time.Sleep(10 * time.Millisecond)

	tasks := q.discard()
	assert.Equal(len(tasks), 2)
	assert.Equal(tasks[0].ID, "1")
	assert.Equal(tasks[1].ID, "2")
	select {
	case err := <-done:
		assert.True(errors.As(err, &QueueClosedError{}))
	case <-time.After(time.Second):
		t.Fatal("blocked producer not woken by discard")
	}
	assert.Equal(accepted, 2)
	assert.True(errors.As(q.Enqueue(ctx, NewTask(5)), &QueueClosedError{}))
	assert.Equal(q.Len(), 0)

	// The queue is still open for its owner and can be closed once.
	assert.False(q.Closed())
	assert.Nil(catchPanic(q.Close))
	assert.Equal(len(q.discard()), 0)
	_, ok := catchPanic(q.Close).(DoubleCloseError)
	assert.True(ok)
}

// TestWorkQueueDequeueCancel tests that a blocked consumer returns when
// the context is cancelled.
func TestWorkQueueDequeueCancel(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	ctx, cancel := context.WithCancel(context.Background())
	q, err := NewWorkQueue[int](1)
	assert.NoError(err)

	done := make(chan error, 1)
	go func() {
		_, _, err := q.Dequeue(ctx)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	start := time.Now()
	cancel()

	select {
	case err := <-done:
		assert.True(errors.Is(err, context.Canceled))
		assert.True(time.Since(start) < 50*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("dequeue not cancelled")
	}
}

// -----------------------------------------------------------------------------
// internal helper
// -----------------------------------------------------------------------------

// catchPanic runs f and returns the recovered panic value.
func catchPanic(f func()) (v any) {
	defer func() {
		v = recover()
	}()
	f()
	return nil
}

// EOF
