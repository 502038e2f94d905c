// Tideland Go Task Engine - Pool
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
)

// EngineState describes the lifecycle state of a pool.
type EngineState int32

const (
	// EngineRunning accepts and processes tasks.
	EngineRunning EngineState = iota
	// EngineDraining doesn't admit new tasks anymore. Either the queue has
	// been closed or the pool has been cancelled.
	EngineDraining
	// EngineStopped is terminal. All workers are stopped and the result
	// stream is closed.
	EngineStopped
)

func (s EngineState) String() string {
	switch s {
	case EngineRunning:
		return "running"
	case EngineDraining:
		return "draining"
	case EngineStopped:
		return "stopped"
	}
	return "unknown"
}

// Stats contains the counters of a pool. The counters of the outcomes are
// disjoint, once the pool stopped their sum equals Submitted. Dropped
// results are not part of Succeeded and Failed.
type Stats struct {
	Submitted int64
	Succeeded int64
	Failed    int64
	Abandoned int64
	Dropped   int64
}

// Pool runs a fixed number of workers processing the tasks of a bounded
// work queue and publishing their results into one result stream.
type Pool[T, R any] struct {
	cfg      Config
	exec     Executor[T, R]
	queue    *WorkQueue[T]
	limiter  *RateLimiter
	sink     *ResultSink[R]
	canceler *Canceler
	coord    *Coordinator
	workers  []*worker[T, R]
	state    atomic.Int32
	stopped  chan struct{}
	log      logr.Logger

	submitted atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	abandoned atomic.Int64
	dropped   atomic.Int64
}

// NewPool creates a pool executing tasks with the given executor and starts
// its workers. Without options the DefaultConfig is used.
func NewPool[T, R any](exec Executor[T, R], options ...Option) (*Pool[T, R], error) {
	if exec == nil {
		return nil, ConfigError{"Executor", "must not be nil"}
	}
	cfg := DefaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	queue, err := NewWorkQueue[T](cfg.QueueCapacity)
	if err != nil {
		return nil, err
	}

	p := &Pool[T, R]{
		cfg:      cfg,
		exec:     exec,
		queue:    queue,
		limiter:  NewRateLimiter(cfg.RateLimitInterval),
		sink:     NewResultSink[R](cfg.ResultBuffer),
		canceler: NewCanceler(cfg.Context),
		coord:    NewCoordinator(),
		workers:  make([]*worker[T, R], cfg.WorkerCount),
		stopped:  make(chan struct{}),
		log:      cfg.Logger.WithName("pool"),
	}
	// A cancelled parent context drains the pool too.
	context.AfterFunc(p.canceler.Context(), p.drain)

	for i := range cfg.WorkerCount {
		w := newWorker(i, p)
		p.workers[i] = w
		p.coord.Register()
		go w.run()
	}
	p.coord.Seal()
	go p.monitor()

	p.log.Info("pool started",
		"workers", cfg.WorkerCount,
		"queueCapacity", cfg.QueueCapacity,
		"rateLimit", cfg.RateLimitInterval)
	return p, nil
}

// Submit enqueues a task. It blocks while the queue is full. It returns a
// QueueClosedError after the queue has been closed and a ShuttingDownError
// after the pool has been cancelled.
func (p *Pool[T, R]) Submit(ctx context.Context, task Task[T]) error {
	if p.canceler.IsCancelled() {
		return ShuttingDownError{}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.canceler.Context(), cancel)
	defer stop()

	if err := p.queue.enqueue(ctx, task, p.accept); err != nil {
		return p.submitError(err)
	}
	return nil
}

// TrySubmit enqueues a task without blocking. It returns a QueueFullError
// if there's no free space.
func (p *Pool[T, R]) TrySubmit(task Task[T]) error {
	if p.canceler.IsCancelled() {
		return ShuttingDownError{}
	}
	if err := p.queue.tryEnqueue(task, p.accept); err != nil {
		return p.submitError(err)
	}
	return nil
}

// CloseQueue signals the end of input. Already enqueued tasks are still
// processed. It must only be called once by the owner of the producer side,
// a second call panics with a DoubleCloseError.
func (p *Pool[T, R]) CloseQueue() {
	p.queue.Close()
	p.drain()
}

// Results returns the stream of results. They arrive in the order of their
// completion, which is not the order of submission. The stream is closed
// after all workers stopped. It has to be consumed, otherwise the workers
// block when its buffer is full.
func (p *Pool[T, R]) Results() <-chan Result[R] {
	return p.sink.Results()
}

// Next returns the next result. ok is false once the result stream is
// closed and drained.
func (p *Pool[T, R]) Next(ctx context.Context) (Result[R], bool, error) {
	return p.sink.Next(ctx)
}

// Cancel stops the admission of tasks and lets the workers stop as soon as
// possible. Running tasks are not interrupted. Calling it multiple times is
// safe.
func (p *Pool[T, R]) Cancel() {
	p.canceler.Cancel()
	p.drain()
}

// CancelAfter cancels the pool after the given duration.
func (p *Pool[T, R]) CancelAfter(d time.Duration) {
	p.canceler.CancelAfter(d)
}

// IsCancelled returns true if the pool has been cancelled.
func (p *Pool[T, R]) IsCancelled() bool {
	return p.canceler.IsCancelled()
}

// Shutdown closes the queue if still open and waits until all enqueued
// tasks are processed and the workers stopped. If this takes longer than
// the configured ShutdownTimeout a ShutdownTimeoutError is returned; the
// remaining workers may still run until their current task is done.
// Shutdown can be called multiple times.
func (p *Pool[T, R]) Shutdown(ctx context.Context) error {
	if p.queue.close() {
		p.log.Info("queue closed for shutdown")
	}
	p.drain()
	return p.wait(ctx)
}

// Stop cancels the pool and waits like Shutdown until the workers stopped.
func (p *Pool[T, R]) Stop(ctx context.Context) error {
	p.Cancel()
	return p.wait(ctx)
}

// Wait blocks until the pool stopped or the context is done. It neither
// closes the queue nor cancels the pool.
func (p *Pool[T, R]) Wait(ctx context.Context) error {
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stopped returns a channel closed when the pool reached EngineStopped.
func (p *Pool[T, R]) Stopped() <-chan struct{} {
	return p.stopped
}

// State returns the current engine state.
func (p *Pool[T, R]) State() EngineState {
	return EngineState(p.state.Load())
}

// WorkerStates returns a snapshot of the states of all workers.
func (p *Pool[T, R]) WorkerStates() []WorkerState {
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = WorkerState(w.state.Load())
	}
	return states
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T, R]) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Abandoned: p.abandoned.Load(),
		Dropped:   p.dropped.Load(),
	}
}

// Size returns the number of workers in the pool.
func (p *Pool[T, R]) Size() int {
	return len(p.workers)
}

// drain moves a running pool into the draining state.
func (p *Pool[T, R]) drain() {
	if p.state.CompareAndSwap(int32(EngineRunning), int32(EngineDraining)) {
		p.log.V(1).Info("pool draining", "cancelled", p.canceler.IsCancelled())
	}
}

// accept counts a task taken by the queue.
func (p *Pool[T, R]) accept() {
	p.submitted.Add(1)
	p.cfg.Metrics.taskSubmitted()
}

// submitError maps queue errors caused by the cancellation of the pool.
func (p *Pool[T, R]) submitError(err error) error {
	if !p.canceler.IsCancelled() {
		return err
	}
	var qcerr QueueClosedError
	if errors.Is(err, context.Canceled) || (errors.As(err, &qcerr) && !p.queue.Closed()) {
		return ShuttingDownError{}
	}
	return err
}

// monitor closes the result stream after all workers stopped. Tasks left
// in the queue of a cancelled pool are counted as abandoned.
func (p *Pool[T, R]) monitor() {
	p.coord.Wait()
	for _, task := range p.queue.discard() {
		p.cfg.Metrics.taskDequeued()
		p.abandon(task)
	}
	p.sink.Close()
	p.state.Store(int32(EngineStopped))
	p.canceler.stopTimer()
	close(p.stopped)
	stats := p.Stats()
	p.log.Info("pool stopped",
		"submitted", stats.Submitted,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"abandoned", stats.Abandoned,
		"dropped", stats.Dropped)
}

// wait waits for the stopped pool, limited by the shutdown timeout.
func (p *Pool[T, R]) wait(ctx context.Context) error {
	var timeout <-chan time.Time
	if p.cfg.ShutdownTimeout > 0 {
		timer := time.NewTimer(p.cfg.ShutdownTimeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-p.stopped:
		return nil
	case <-timeout:
		err := ShutdownTimeoutError{
			Duration: p.cfg.ShutdownTimeout,
			Active:   p.coord.Active(),
		}
		p.log.Error(err, "graceful shutdown failed")
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// report logs the result of a task and passes failures to the error
// handler.
func (p *Pool[T, R]) report(result Result[R]) {
	p.cfg.Metrics.resultRecorded(result.OK(), result.Duration())
	if result.OK() {
		p.log.V(1).Info("task done", "task", result.TaskID, "worker", result.WorkerID,
			"duration", result.Duration())
		return
	}
	var terr *TaskError
	if !errors.As(result.Err, &terr) {
		terr = &TaskError{TaskID: result.TaskID, WorkerID: result.WorkerID, Err: result.Err, Timestamp: result.Finished}
	}
	var perr *PanicError
	if errors.As(terr.Err, &perr) {
		p.log.Error(perr, "task panicked", "task", result.TaskID, "worker", result.WorkerID,
			"stack", string(perr.Stack))
	} else {
		p.log.Error(terr.Err, "task failed", "task", result.TaskID, "worker", result.WorkerID)
	}
	if p.cfg.ErrorHandler != nil {
		p.cfg.ErrorHandler.HandleError(terr)
	}
}

// count counts a reported result as delivered or, if the result stream
// didn't take it after cancellation, as dropped.
func (p *Pool[T, R]) count(result Result[R], delivered bool) {
	switch {
	case !delivered:
		p.dropped.Add(1)
		p.cfg.Metrics.resultDropped()
		p.log.Info("result dropped due to cancellation", "task", result.TaskID, "ok", result.OK())
	case result.OK():
		p.succeeded.Add(1)
	default:
		p.failed.Add(1)
	}
}

// abandon counts a task which has not been executed due to cancellation.
func (p *Pool[T, R]) abandon(task Task[T]) {
	p.abandoned.Add(1)
	p.cfg.Metrics.taskAbandoned()
	p.log.Info("task abandoned due to cancellation", "task", task.ID)
}

// EOF
