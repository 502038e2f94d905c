// Tideland Go Task Engine - Lifecycle
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

// Coordinator tracks the running workers. After it has been sealed and the
// last registered worker is done the stopped channel gets closed.
type Coordinator struct {
	mu      sync.Mutex
	active  int
	sealed  bool
	stopped chan struct{}
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		stopped: make(chan struct{}),
	}
}

// Register adds a worker. It has to be called before the worker starts
// and before Seal.
func (c *Coordinator) Register() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		panic(InvariantError{Msg: "worker registered after coordinator has been sealed"})
	}
	c.active++
}

// Seal marks the registration as complete. Without any registered worker
// the coordinator is stopped immediately.
func (c *Coordinator) Seal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		return
	}
	c.sealed = true
	c.checkStopped()
}

// Done signals that a registered worker stopped. It's intended to be called
// deferred. More calls than registrations panic.
func (c *Coordinator) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == 0 {
		panic(InvariantError{Msg: "worker done without registration"})
	}
	c.active--
	c.checkStopped()
}

// Active returns the number of still running workers.
func (c *Coordinator) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Stopped returns a channel closed once all workers are done.
func (c *Coordinator) Stopped() <-chan struct{} {
	return c.stopped
}

// Wait blocks until all workers are done. It can be called any number of
// times by any number of goroutines.
func (c *Coordinator) Wait() {
	<-c.stopped
}

// WaitContext is like Wait but returns the context error if the context is
// done before.
func (c *Coordinator) WaitContext(ctx context.Context) error {
	select {
	case <-c.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// checkStopped has to be called with locked mutex.
func (c *Coordinator) checkStopped() {
	if c.sealed && c.active == 0 {
		select {
		case <-c.stopped:
		default:
			close(c.stopped)
		}
	}
}

// EOF
