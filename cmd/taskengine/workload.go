// Tideland Go Task Engine - Command - Simulated Workload
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"tideland.dev/go/taskengine"
)

// errSimulated is returned by failing simulated tasks.
var errSimulated = errors.New("simulated failure")

// workload doubles the payloads of its tasks after a simulated duration.
type workload struct {
	failRate float64
	maxCost  time.Duration
}

// source returns the tasks 1..n, each with a random cost.
func (w workload) source(n int) taskengine.Source[int] {
	i := 0
	return taskengine.SourceFunc[int](func(ctx context.Context) (taskengine.Task[int], bool, error) {
		if i >= n {
			return taskengine.Task[int]{}, false, nil
		}
		i++
		task := taskengine.NewTaskWithID(strconv.Itoa(i), i)
		if w.maxCost > 0 {
			task.Cost = rand.N(w.maxCost) + 1
		}
		return task, true, nil
	})
}

// execute sleeps for the cost of the task and doubles its payload. A share
// of failRate executions fails.
func (w workload) execute(ctx context.Context, task taskengine.Task[int]) (int, error) {
	if task.Cost > 0 {
		timer := time.NewTimer(task.Cost)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if w.failRate > 0 && rand.Float64() < w.failRate {
		return 0, errSimulated
	}
	return 2 * task.Payload, nil
}

// EOF
