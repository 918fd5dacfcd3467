// Package bfsmetrics exposes Prometheus instrumentation for the BFS engine.
package bfsmetrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics emitted by a single BFS engine instance.
//
// Each engine owns a private prometheus.Registry rather than registering
// against the global default, so multiple engines (as in tests, or multiple
// benchmark configurations in one process) never collide on metric names.
type Registry struct {
	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   *prometheus.HistogramVec
	MaxChunksObserved    prometheus.Gauge
	DirectionSwitches    *prometheus.CounterVec
	FrontierStealsTotal  prometheus.Counter
	VerticesFinalized    prometheus.Counter

	registry *prometheus.Registry
	mu       sync.Mutex
}

// NewRegistry creates a new metrics registry with all BFS metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}
	r.init()
	return r
}

func (r *Registry) init() {
	r.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bfs_runs_total",
			Help: "Total number of BFS runs, by output shape",
		},
		[]string{"shape"},
	)
	r.RunDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bfs_run_duration_seconds",
			Help:    "Wall-clock duration of a single BFS run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"shape"},
	)
	r.MaxChunksObserved = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bfs_max_chunks",
			Help: "High-water mark of total chunks observed across all levels of the most recent run",
		},
	)
	r.DirectionSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bfs_direction_switches_total",
			Help: "Number of times the direction-optimizing policy switched direction",
		},
		[]string{"direction"},
	)
	r.FrontierStealsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bfs_frontier_steals_total",
			Help: "Number of chunks a worker obtained by stealing from another worker's stack",
		},
	)
	r.VerticesFinalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bfs_vertices_finalized_total",
			Help: "Total vertices written to the output buffer across all runs",
		},
	)

	r.registry.MustRegister(
		r.RunsTotal,
		r.RunDurationSeconds,
		r.MaxChunksObserved,
		r.DirectionSwitches,
		r.FrontierStealsTotal,
		r.VerticesFinalized,
	)
}

// Prometheus returns the underlying private registry, e.g. to mount on an
// HTTP handler in the benchmark CLI.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordRun records the duration and chunk high-water mark of one completed run.
func (r *Registry) RecordRun(shape string, seconds float64, maxChunks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RunsTotal.WithLabelValues(shape).Inc()
	r.RunDurationSeconds.WithLabelValues(shape).Observe(seconds)
	r.MaxChunksObserved.Set(float64(maxChunks))
}

// RecordDirectionSwitch records a top-down/bottom-up transition.
func (r *Registry) RecordDirectionSwitch(direction string) {
	r.DirectionSwitches.WithLabelValues(direction).Inc()
}
