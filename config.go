// Tideland Go Task Engine - Configuration
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
)

// Config contains all configuration options of a Pool.
type Config struct {
	// Context defines the lifetime of the Pool. Cancelling it cancels the
	// pool. If nil, context.Background() will be used.
	Context context.Context

	// WorkerCount is the fixed number of concurrent workers. Must be
	// positive, default is 4.
	WorkerCount int

	// QueueCapacity is the capacity of the bounded work queue. Must be
	// positive, default is 64.
	QueueCapacity int

	// ResultBuffer is the buffer size of the result stream. If 0 the
	// WorkerCount is used.
	ResultBuffer int

	// RateLimitInterval is the minimal distance between two task starts
	// across all workers. Zero means unthrottled.
	RateLimitInterval time.Duration

	// ShutdownTimeout is the maximum duration to wait during a graceful
	// shutdown. Zero means waiting without limit.
	ShutdownTimeout time.Duration

	// ErrorHandler allows custom handling of failed tasks. If nil, failures
	// are only reported by the results.
	ErrorHandler ErrorHandler

	// Logger receives the log output of the engine. The zero value
	// discards everything.
	Logger logr.Logger

	// Metrics instruments the pool if set.
	Metrics *Metrics
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Context:         context.Background(),
		WorkerCount:     4,
		QueueCapacity:   64,
		ShutdownTimeout: 5 * time.Second,
		Logger:          logr.Discard(),
	}
}

// Validate checks if the configuration is valid and sets default values
// where needed. All found problems are returned joined together.
func (c *Config) Validate() error {
	var errs []error
	if c.Context == nil {
		c.Context = context.Background()
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, ConfigError{"WorkerCount", "must be positive"})
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, ConfigError{"QueueCapacity", "must be positive"})
	}
	if c.ResultBuffer < 0 {
		errs = append(errs, ConfigError{"ResultBuffer", "must not be negative"})
	}
	if c.RateLimitInterval < 0 {
		errs = append(errs, ConfigError{"RateLimitInterval", "must not be negative"})
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, ConfigError{"ShutdownTimeout", "must not be negative"})
	}
	if c.ResultBuffer == 0 {
		c.ResultBuffer = c.WorkerCount
	}
	if c.Logger.GetSink() == nil {
		c.Logger = logr.Discard()
	}
	return errors.Join(errs...)
}

// EOF
