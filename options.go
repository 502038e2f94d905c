// Tideland Go Task Engine - Options
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"time"

	"github.com/go-logr/logr"
)

// Option defines the signature of an option setting function.
type Option func(cfg *Config)

// WithConfig replaces the whole configuration. Options following it
// still modify the result.
func WithConfig(c Config) Option {
	return func(cfg *Config) {
		*cfg = c
	}
}

// WithContext sets the context defining the lifetime of the pool.
func WithContext(ctx context.Context) Option {
	return func(cfg *Config) {
		cfg.Context = ctx
	}
}

// WithWorkerCount sets the number of concurrent workers.
func WithWorkerCount(n int) Option {
	return func(cfg *Config) {
		cfg.WorkerCount = n
	}
}

// WithQueueCapacity sets the capacity of the work queue.
func WithQueueCapacity(n int) Option {
	return func(cfg *Config) {
		cfg.QueueCapacity = n
	}
}

// WithResultBuffer sets the buffer size of the result stream.
func WithResultBuffer(n int) Option {
	return func(cfg *Config) {
		cfg.ResultBuffer = n
	}
}

// WithRateLimit lets the workers start at most one task per interval.
func WithRateLimit(interval time.Duration) Option {
	return func(cfg *Config) {
		cfg.RateLimitInterval = interval
	}
}

// WithShutdownTimeout sets the upper bound for a graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.ShutdownTimeout = d
	}
}

// WithErrorHandler sets the handler for failed tasks.
func WithErrorHandler(h ErrorHandler) Option {
	return func(cfg *Config) {
		cfg.ErrorHandler = h
	}
}

// WithLogger sets the logger of the pool.
func WithLogger(l logr.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithMetrics instruments the pool with the given metrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *Config) {
		cfg.Metrics = m
	}
}

// EOF
