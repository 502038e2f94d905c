// Tideland Go Task Engine - Sources
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
)

// Source produces the tasks for a pool. Next returns ok == false when the
// source is exhausted.
type Source[T any] interface {
	Next(ctx context.Context) (task Task[T], ok bool, err error)
}

// SourceFunc allows to use a simple function as Source.
type SourceFunc[T any] func(ctx context.Context) (Task[T], bool, error)

// Next implements Source.
func (f SourceFunc[T]) Next(ctx context.Context) (Task[T], bool, error) {
	return f(ctx)
}

// SliceSource returns a source producing the given tasks in order.
func SliceSource[T any](tasks ...Task[T]) Source[T] {
	i := 0
	return SourceFunc[T](func(ctx context.Context) (Task[T], bool, error) {
		if err := ctx.Err(); err != nil {
			return Task[T]{}, false, err
		}
		if i >= len(tasks) {
			return Task[T]{}, false, nil
		}
		task := tasks[i]
		i++
		return task, true, nil
	})
}

// PayloadSource returns a source producing one task with a random ID for
// each payload.
func PayloadSource[T any](payloads ...T) Source[T] {
	tasks := make([]Task[T], len(payloads))
	for i, payload := range payloads {
		tasks[i] = NewTask(payload)
	}
	return SliceSource(tasks...)
}

// ChanSource returns a source reading tasks from a channel until it is
// closed.
func ChanSource[T any](tasks <-chan Task[T]) Source[T] {
	return SourceFunc[T](func(ctx context.Context) (Task[T], bool, error) {
		select {
		case task, ok := <-tasks:
			return task, ok, nil
		case <-ctx.Done():
			return Task[T]{}, false, ctx.Err()
		}
	})
}

// EOF
