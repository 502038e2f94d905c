// Tideland Go Task Engine
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

// Package taskengine provides a generic task engine processing tasks with a
// fixed pool of concurrent workers. Tasks are passed through a bounded work
// queue, the workers can be throttled by a rate limiter, and all results are
// merged into one result stream.
//
// Features:
//   - Bounded Work Queue: A full queue blocks producers (backpressure)
//   - Rate Limiting: At most one task start per configured interval
//   - Fault Containment: Errors and panics of tasks become failed results
//   - Cooperative Cancellation: All blocking operations race against it
//   - Graceful Shutdown: Enqueued tasks are processed, the result stream
//     is closed exactly once after all workers stopped
//   - Instrumentation: Logging via logr, metrics via Prometheus
//
// Creating a Pool:
//
//	p, err := taskengine.NewPool(func(ctx context.Context, t taskengine.Task[int]) (int, error) {
//		return 2 * t.Payload, nil
//	},
//		taskengine.WithWorkerCount(3),
//		taskengine.WithQueueCapacity(4),
//		taskengine.WithRateLimit(10*time.Millisecond),
//	)
//
// Submitting tasks and signaling the end of input:
//
//	err := p.Submit(ctx, taskengine.NewTask(21))
//	p.CloseQueue()
//
// Reading the results. They arrive in the order of completion, not in the
// order of submission:
//
//	for result := range p.Results() {
//		if !result.OK() {
//			log.Printf("task %s failed: %v", result.TaskID, result.Err)
//		}
//	}
//
// Feed and Run connect a Source with a pool:
//
//	stats, err := taskengine.Run(ctx, taskengine.PayloadSource(1, 2, 3), double,
//		func(r taskengine.Result[int]) error {
//			fmt.Println(r.Value)
//			return nil
//		},
//		taskengine.WithWorkerCount(2),
//	)
//
// Stopping:
//
// Shutdown closes the queue and waits until all tasks are done, Stop cancels
// the pool and only waits for the running tasks. Both report a
// ShutdownTimeoutError if the configured ShutdownTimeout is exceeded. Failed
// tasks are not retried, the results tell the caller which ones to submit
// again.
package taskengine // import "tideland.dev/go/taskengine"
