// Tideland Go Task Engine - Result
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"time"
)

// Result is the outcome of executing one task. It is created by the worker
// which executed the task and never changed afterwards.
type Result[R any] struct {
	TaskID   string
	WorkerID int
	Value    R

	// Err is nil for successful tasks, otherwise a *TaskError.
	Err error

	Started  time.Time
	Finished time.Time
}

// OK returns true if the task has been executed without error.
func (r Result[R]) OK() bool {
	return r.Err == nil
}

// Duration returns the execution time of the task.
func (r Result[R]) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// EOF
