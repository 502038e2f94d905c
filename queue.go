// Tideland Go Task Engine - Work Queue
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"sync"
)

// WorkQueue is a bounded FIFO queue of tasks for multiple producers and
// consumers. A full queue blocks producers instead of dropping tasks.
type WorkQueue[T any] struct {
	items     chan Task[T]
	closing   chan struct{}
	mu        sync.Mutex
	closed    bool
	shut      bool
	producers sync.WaitGroup
}

// NewWorkQueue creates a queue with the given fixed capacity.
func NewWorkQueue[T any](capacity int) (*WorkQueue[T], error) {
	if capacity < 1 {
		return nil, ConfigError{"QueueCapacity", "must be positive"}
	}
	return &WorkQueue[T]{
		items:   make(chan Task[T], capacity),
		closing: make(chan struct{}),
	}, nil
}

// Enqueue appends a task to the queue. If the queue is full it blocks until
// space is free, the queue gets closed, or the context is done.
func (q *WorkQueue[T]) Enqueue(ctx context.Context, task Task[T]) error {
	return q.enqueue(ctx, task, nil)
}

// TryEnqueue appends a task to the queue without blocking.
func (q *WorkQueue[T]) TryEnqueue(task Task[T]) error {
	return q.tryEnqueue(task, nil)
}

// enqueue is Enqueue calling accepted after the task has been queued but
// before the producer leaves. So discard never sees a task whose
// acceptance hasn't been recorded.
func (q *WorkQueue[T]) enqueue(ctx context.Context, task Task[T], accepted func()) error {
	if !q.enter() {
		return QueueClosedError{}
	}
	defer q.producers.Done()
	select {
	case q.items <- task:
		if accepted != nil {
			accepted()
		}
		return nil
	case <-q.closing:
		return QueueClosedError{}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *WorkQueue[T]) tryEnqueue(task Task[T], accepted func()) error {
	if !q.enter() {
		return QueueClosedError{}
	}
	defer q.producers.Done()
	select {
	case q.items <- task:
		if accepted != nil {
			accepted()
		}
		return nil
	default:
		return QueueFullError{Capacity: cap(q.items)}
	}
}

// Dequeue retrieves the oldest task. It blocks while the queue is empty and
// open. ok is false when the queue is closed and drained.
func (q *WorkQueue[T]) Dequeue(ctx context.Context) (task Task[T], ok bool, err error) {
	select {
	case task, ok = <-q.items:
		return task, ok, nil
	case <-ctx.Done():
		return task, false, ctx.Err()
	}
}

// Close closes the queue. Tasks already enqueued can still be dequeued.
// Closing twice panics with a DoubleCloseError.
func (q *WorkQueue[T]) Close() {
	if !q.close() {
		panic(DoubleCloseError{Resource: "work queue"})
	}
}

// Closed returns true if the queue has been closed.
func (q *WorkQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of waiting tasks.
func (q *WorkQueue[T]) Len() int {
	return len(q.items)
}

// Cap returns the capacity of the queue.
func (q *WorkQueue[T]) Cap() int {
	return cap(q.items)
}

// enter registers a producer if the queue still admits tasks.
func (q *WorkQueue[T]) enter() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shut {
		return false
	}
	q.producers.Add(1)
	return true
}

// stopProducers rejects new producers and wakes up the blocked ones. It
// has to be called with locked mutex.
func (q *WorkQueue[T]) stopProducers() {
	if !q.shut {
		q.shut = true
		close(q.closing)
	}
}

// close wakes up blocked producers and closes the item channel as soon as
// no producer is sending anymore. It returns false if the queue already
// has been closed.
func (q *WorkQueue[T]) close() bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.closed = true
	q.stopProducers()
	q.mu.Unlock()

	q.producers.Wait()
	close(q.items)
	return true
}

// discard rejects all further tasks and removes the waiting ones. It must
// only be called when no consumer is left. The queue can still be closed
// afterwards.
func (q *WorkQueue[T]) discard() []Task[T] {
	q.mu.Lock()
	q.stopProducers()
	q.mu.Unlock()

	q.producers.Wait()
	var tasks []Task[T]
	for {
		select {
		case task, ok := <-q.items:
			if !ok {
				return tasks
			}
			tasks = append(tasks, task)
		default:
			return tasks
		}
	}
}

// EOF
