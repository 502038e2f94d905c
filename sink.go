// Tideland Go Task Engine - Result Sink
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

// ResultSink merges the results of all workers into one stream. Results
// arrive in the order of their completion, not in the order the tasks
// have been submitted.
type ResultSink[R any] struct {
	results chan Result[R]
	mu      sync.Mutex
	closed  bool
}

// NewResultSink creates a sink with the given buffer size.
func NewResultSink[R any](buffer int) *ResultSink[R] {
	if buffer < 0 {
		buffer = 0
	}
	return &ResultSink[R]{
		results: make(chan Result[R], buffer),
	}
}

// Results returns the stream of results. It is closed after the last
// result has been published.
func (s *ResultSink[R]) Results() <-chan Result[R] {
	return s.results
}

// Next returns the next result. ok is false when the sink is closed and
// drained.
func (s *ResultSink[R]) Next(ctx context.Context) (result Result[R], ok bool, err error) {
	select {
	case result, ok = <-s.results:
		return result, ok, nil
	case <-ctx.Done():
		return result, false, ctx.Err()
	}
}

// Publish passes a result to the stream. If the stream is full it blocks
// until a consumer reads or the context is done. It returns false if the
// result could not be delivered.
func (s *ResultSink[R]) Publish(ctx context.Context, result Result[R]) bool {
	select {
	case s.results <- result:
		return true
	default:
	}
	select {
	case s.results <- result:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close closes the stream. Publishing afterwards is a bug, closing twice
// panics with a DoubleCloseError.
func (s *ResultSink[R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		panic(DoubleCloseError{Resource: "result stream"})
	}
	s.closed = true
	close(s.results)
}

// EOF
