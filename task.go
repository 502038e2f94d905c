// Tideland Go Task Engine - Task
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is one unit of work. The payload is opaque to the engine, it is only
// handed to the executor. A task must not be changed after it has been enqueued.
type Task[T any] struct {
	ID      string
	Payload T

	// Cost is an optional hint about the expected execution duration.
	Cost time.Duration
}

// NewTask creates a task with a random unique ID.
func NewTask[T any](payload T) Task[T] {
	return Task[T]{
		ID:      uuid.NewString(),
		Payload: payload,
	}
}

// NewTaskWithID creates a task with the given ID.
func NewTaskWithID[T any](id string, payload T) Task[T] {
	return Task[T]{
		ID:      id,
		Payload: payload,
	}
}

// Executor defines the signature of the function executing a task. The
// context is cancelled when the engine is cancelled, executors may use it
// to stop early. It's not enforced.
type Executor[T, R any] func(ctx context.Context, task Task[T]) (R, error)

// EOF
