// Tideland Go Task Engine - Worker
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
)

// WorkerState describes the lifecycle state of one worker.
type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerProcessing
	WorkerShuttingDown
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerShuttingDown:
		return "shutting-down"
	case WorkerStopped:
		return "stopped"
	}
	return "unknown"
}

// worker pulls tasks from the queue of its pool, executes them and publishes
// the results. Its state is only changed by its own goroutine.
type worker[T, R any] struct {
	id    int
	pool  *Pool[T, R]
	state atomic.Int32
	log   logr.Logger
}

func newWorker[T, R any](id int, pool *Pool[T, R]) *worker[T, R] {
	w := &worker[T, R]{
		id:   id,
		pool: pool,
		log:  pool.log.WithValues("worker", id),
	}
	w.state.Store(int32(WorkerIdle))
	pool.cfg.Metrics.workerTransition(WorkerIdle, WorkerIdle, true)
	return w
}

// run is the loop of the worker goroutine. It ends when the queue is closed
// and drained or when the pool is cancelled.
func (w *worker[T, R]) run() {
	defer w.pool.coord.Done()
	defer w.setState(WorkerStopped)

	ctx := w.pool.canceler.Context()
	for {
		w.setState(WorkerIdle)
		task, ok, err := w.pool.queue.Dequeue(ctx)
		if err != nil || !ok {
			w.setState(WorkerShuttingDown)
			w.log.V(1).Info("worker leaves", "cancelled", err != nil)
			return
		}
		w.pool.cfg.Metrics.taskDequeued()
		if err := w.pool.limiter.Acquire(ctx); err != nil {
			w.abandon(task)
			return
		}
		// Cancellation may have happened while both channels were ready.
		if ctx.Err() != nil {
			w.abandon(task)
			return
		}
		w.setState(WorkerProcessing)
		result := w.execute(ctx, task)
		w.pool.report(result)
		w.pool.count(result, w.pool.sink.Publish(ctx, result))
	}
}

// execute runs the executor and turns errors as well as panics into a
// failed result.
func (w *worker[T, R]) execute(ctx context.Context, task Task[T]) (result Result[R]) {
	result = Result[R]{
		TaskID:   task.ID,
		WorkerID: w.id,
		Started:  time.Now(),
	}
	w.log.V(1).Info("task started", "task", task.ID)
	defer func() {
		if r := recover(); r != nil {
			result.Err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		result.Finished = time.Now()
		if result.Err != nil {
			result.Err = &TaskError{
				TaskID:    task.ID,
				WorkerID:  w.id,
				Err:       result.Err,
				Timestamp: result.Finished,
			}
		}
	}()
	result.Value, result.Err = w.pool.exec(ctx, task)
	return result
}

// abandon drops a dequeued but not started task due to cancellation.
func (w *worker[T, R]) abandon(task Task[T]) {
	w.setState(WorkerShuttingDown)
	w.pool.abandon(task)
}

func (w *worker[T, R]) setState(s WorkerState) {
	old := WorkerState(w.state.Swap(int32(s)))
	if old != s {
		w.pool.cfg.Metrics.workerTransition(old, s, false)
	}
}

// EOF
