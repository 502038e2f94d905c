// Tideland Go Task Engine - Cancellation
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"sync"
	"time"
)

// Canceler is a broadcast cancellation signal. Once cancelled it stays
// cancelled. All blocking operations of the engine race against it.
type Canceler struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	mu     sync.Mutex
	timer  *time.Timer
}

// NewCanceler creates a canceler derived from the parent context. Cancelling
// the parent cancels the canceler too.
func NewCanceler(parent context.Context) *Canceler {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &Canceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Cancel signals the cancellation. Only the first call has an effect.
func (c *Canceler) Cancel() {
	c.cancel(context.Canceled)
	c.stopTimer()
}

// CancelAfter arms a timer cancelling after the given duration. Arming it
// again replaces the former timer.
func (c *Canceler) CancelAfter(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(d, func() {
		c.cancel(context.DeadlineExceeded)
	})
}

// IsCancelled returns true if the canceler has been cancelled.
func (c *Canceler) IsCancelled() bool {
	return c.ctx.Err() != nil
}

// Done returns a channel closed on cancellation.
func (c *Canceler) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Context returns the context cancelled together with the canceler.
func (c *Canceler) Context() context.Context {
	return c.ctx
}

// Cause returns the reason of the cancellation, nil while not cancelled.
// It's context.Canceled after Cancel and context.DeadlineExceeded after
// a CancelAfter timer fired.
func (c *Canceler) Cause() error {
	return context.Cause(c.ctx)
}

func (c *Canceler) stopTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// EOF
