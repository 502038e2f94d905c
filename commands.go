// Tideland Go Task Engine - Commands
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Feed submits all tasks of the source to the pool and closes the queue
// when the source is exhausted, failed, or the context is done. A closed
// queue or a cancelled pool end the feeding without error.
func Feed[T, R any](ctx context.Context, p *Pool[T, R], src Source[T]) error {
	defer func() {
		if p.queue.close() {
			p.drain()
		}
	}()
	for {
		task, ok, err := src.Next(ctx)
		if err != nil {
			if p.IsCancelled() {
				return nil
			}
			return err
		}
		if !ok {
			return nil
		}
		if err := p.Submit(ctx, task); err != nil {
			var qcerr QueueClosedError
			var sderr ShuttingDownError
			if errors.As(err, &qcerr) || errors.As(err, &sderr) {
				return nil
			}
			return err
		}
	}
}

// Collect reads all results of the pool until the result stream is closed
// or the context is done.
func Collect[T, R any](ctx context.Context, p *Pool[T, R]) ([]Result[R], error) {
	var results []Result[R]
	for {
		result, ok, err := p.Next(ctx)
		if err != nil {
			return results, err
		}
		if !ok {
			return results, nil
		}
		results = append(results, result)
	}
}

// Run creates a pool, feeds it with the tasks of the source, and passes
// all results to consume. An error returned by consume cancels the pool.
// Run returns when the pool stopped.
func Run[T, R any](
	ctx context.Context,
	src Source[T],
	exec Executor[T, R],
	consume func(Result[R]) error,
	options ...Option,
) (Stats, error) {
	options = append(slices.Clip(options), WithContext(ctx))
	p, err := NewPool(exec, options...)
	if err != nil {
		return Stats{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Feed(gctx, p, src)
	})
	g.Go(func() error {
		for result := range p.Results() {
			if err := consume(result); err != nil {
				p.Cancel()
				return err
			}
		}
		return nil
	})
	err = g.Wait()
	if err != nil {
		p.Cancel()
	}

	serr := p.Shutdown(context.Background())
	if err == nil && ctx.Err() != nil {
		err = context.Cause(ctx)
	}
	return p.Stats(), errors.Join(err, serr)
}

// EOF
