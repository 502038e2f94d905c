// Tideland Go Task Engine - Metrics
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package taskengine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the Prometheus instrumentation of a pool. All methods
// can be called on a nil *Metrics, they do nothing then.
type Metrics struct {
	submitted prometheus.Counter
	results   *prometheus.CounterVec
	duration  prometheus.Histogram
	workers   *prometheus.GaugeVec
	depth     prometheus.Gauge
	dropped   prometheus.Counter
	abandoned prometheus.Counter
}

// NewMetrics creates the metrics for one pool. The pool name is added as
// constant label.
func NewMetrics(namespace, pool string) *Metrics {
	labels := prometheus.Labels{"pool": pool}
	return &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "tasks_submitted_total",
			Help:        "Total number of tasks accepted by the work queue",
			ConstLabels: labels,
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "results_total",
			Help:        "Total number of task results",
			ConstLabels: labels,
		}, []string{"status"}), // status: success, failure
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "task_duration_seconds",
			Help:        "Histogram of task execution duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
		workers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "workers",
			Help:        "Number of workers per state",
			ConstLabels: labels,
		}, []string{"state"}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "queue_depth",
			Help:        "Number of tasks waiting in the work queue",
			ConstLabels: labels,
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "results_dropped_total",
			Help:        "Total number of results not delivered due to cancellation",
			ConstLabels: labels,
		}),
		abandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "tasks_abandoned_total",
			Help:        "Total number of dequeued tasks not executed due to cancellation",
			ConstLabels: labels,
		}),
	}
}

// Collectors returns all collectors of the metrics.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.submitted, m.results, m.duration, m.workers, m.depth, m.dropped, m.abandoned,
	}
}

// Register registers all collectors at the registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on errors.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Collectors()...)
}

func (m *Metrics) taskSubmitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
	m.depth.Inc()
}

func (m *Metrics) taskDequeued() {
	if m == nil {
		return
	}
	m.depth.Dec()
}

func (m *Metrics) resultRecorded(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.results.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) workerTransition(from, to WorkerState, initial bool) {
	if m == nil {
		return
	}
	if !initial {
		m.workers.WithLabelValues(from.String()).Dec()
	}
	m.workers.WithLabelValues(to.String()).Inc()
}

func (m *Metrics) resultDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) taskAbandoned() {
	if m == nil {
		return
	}
	m.abandoned.Inc()
}

// EOF
