// Tideland Go Task Engine - Errors
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"fmt"
	"time"
)

// QueueClosedError signals that a task has been enqueued after the queue
// has been closed. Producers can treat it as the regular end of input.
type QueueClosedError struct{}

func (QueueClosedError) Error() string {
	return "work queue is closed"
}

// QueueFullError signals that a non-blocking enqueue found no free space.
type QueueFullError struct {
	Capacity int
}

func (e QueueFullError) Error() string {
	return fmt.Sprintf("work queue is full (capacity %d)", e.Capacity)
}

// ShuttingDownError signals that the engine has been cancelled and does not
// accept tasks anymore.
type ShuttingDownError struct{}

func (ShuttingDownError) Error() string {
	return "task engine is shutting down"
}

// TaskError represents an error that occurred during task execution. It is
// carried inside the failed Result and never escapes the worker.
type TaskError struct {
	TaskID    string
	WorkerID  int
	Err       error
	Timestamp time.Time
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed on worker %d at %v: %v",
		e.TaskID, e.WorkerID, e.Timestamp.Format(time.RFC3339), e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking executor.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// DoubleCloseError is the panic value when the work queue or the result
// stream gets closed twice. It always indicates a bug in the caller or in
// the coordination.
type DoubleCloseError struct {
	Resource string
}

func (e DoubleCloseError) Error() string {
	return fmt.Sprintf("%s closed twice", e.Resource)
}

// InvariantError is the panic value for violated structural invariants,
// e.g. a worker signaling its end more than once.
type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string {
	return "invariant violated: " + e.Msg
}

// ShutdownTimeoutError signals that the graceful drain of the engine exceeded
// the configured shutdown timeout. Abandoned workers may still run until
// their current task finishes.
type ShutdownTimeoutError struct {
	Duration time.Duration
	Active   int
}

func (e ShutdownTimeoutError) Error() string {
	return fmt.Sprintf("shutdown exceeded timeout of %v with %d worker(s) still active", e.Duration, e.Active)
}

// ConfigError describes one invalid configuration value.
type ConfigError struct {
	Field string
	Msg   string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Msg)
}

// ErrorHandler defines the interface for custom handling of failed tasks.
type ErrorHandler interface {
	HandleError(err *TaskError)
}

// ErrorHandlerFunc allows to use a simple function as ErrorHandler.
type ErrorHandlerFunc func(err *TaskError)

// HandleError implements ErrorHandler.
func (f ErrorHandlerFunc) HandleError(err *TaskError) {
	f(err)
}

// EOF
