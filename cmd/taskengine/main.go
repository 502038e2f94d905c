// Tideland Go Task Engine - Command
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

// Command taskengine runs a simulated doubling workload on a task engine
// pool. It is configured by file, TASKENGINE_* environment variables, and
// flags, and optionally exposes the pool metrics for Prometheus.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"tideland.dev/go/taskengine"
	"tideland.dev/go/taskengine/internal/config"
	"tideland.dev/go/taskengine/internal/observability"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "taskengine: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("taskengine", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path of the YAML configuration file")
	tasks := flags.Int("tasks", 10, "number of tasks to process")
	deadline := flags.Duration("deadline", 0, "cancel the run after this duration, 0 disables it")
	failRate := flags.Float64("fail-rate", 0.2, "share of simulated task failures between 0 and 1")
	maxCost := flags.Duration("max-cost", 500*time.Millisecond, "maximum simulated duration of one task")
	flags.Int("workers", 0, "number of workers")
	flags.Int("queue", 0, "capacity of the work queue")
	flags.Duration("rate", 0, "minimal interval between two task starts")
	flags.Duration("shutdown-timeout", 0, "maximum duration of the graceful shutdown")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("metrics-listen", "", "address of the /metrics endpoint")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *tasks < 0 {
		return fmt.Errorf("invalid number of tasks: %d", *tasks)
	}
	if *failRate < 0 || *failRate > 1 {
		return fmt.Errorf("invalid fail rate: %v", *failRate)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Logr.WithName("taskengine")

	reg := observability.NewRegistry()
	metrics := taskengine.NewMetrics(cfg.Metrics.Namespace, "demo")
	if err := metrics.Register(reg); err != nil {
		return err
	}
	if cfg.Metrics.Listen != "" {
		srv, err := observability.StartMetricsServer(cfg.Metrics.Listen, reg, log)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *deadline)
		defer cancel()
	}

	w := workload{failRate: *failRate, maxCost: *maxCost}
	options := append(cfg.Engine.Options(),
		taskengine.WithLogger(logger.Logr),
		taskengine.WithMetrics(metrics),
	)
	start := time.Now()
	stats, err := taskengine.Run(ctx, w.source(*tasks), w.execute, func(r taskengine.Result[int]) error {
		if r.OK() {
			log.Info("result", "task", r.TaskID, "worker", r.WorkerID, "value", r.Value)
		}
		return nil
	}, options...)
	log.Info("run finished",
		"elapsed", time.Since(start),
		"submitted", stats.Submitted,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"abandoned", stats.Abandoned,
		"dropped", stats.Dropped)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Info("run cancelled", "reason", err.Error())
		return nil
	}
	return err
}

// EOF
