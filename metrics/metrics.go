// Package metrics exports reactor runtime counters to Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/reactor"
)

// Config configures the exported metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric, e.g. to tell runtimes apart.
	ConstLabels prometheus.Labels

	// Registry is the registry the metrics are registered with.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactor",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics mirrors the counters of one runtime.
//
//   - reactor_ticks_total
//   - reactor_derived_evaluations_total
//   - reactor_task_runs_total
//   - reactor_task_panics_total
//   - reactor_rejected_writes_total
type Metrics struct {
	ticks              prometheus.Counter
	derivedEvaluations prometheus.Counter
	taskRuns           prometheus.Counter
	taskPanics         prometheus.Counter
	rejectedWrites     prometheus.Counter

	mu   sync.Mutex
	last reactor.Stats
}

func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		ticks:              counter("ticks_total", "Total number of flushed ticks"),
		derivedEvaluations: counter("derived_evaluations_total", "Total number of derived cell evaluations"),
		taskRuns:           counter("task_runs_total", "Total number of task runs"),
		taskPanics:         counter("task_panics_total", "Total number of task runs that panicked"),
		rejectedWrites:     counter("rejected_writes_total", "Total number of cell writes rejected as cycles or reentrant"),
	}
}

// Observe records the growth of the counters since the previous call.
// It expects the cumulative counters of a single runtime.
func (m *Metrics) Observe(s reactor.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	add(m.ticks, s.Ticks, m.last.Ticks)
	add(m.derivedEvaluations, s.DerivedEvaluations, m.last.DerivedEvaluations)
	add(m.taskRuns, s.TaskRuns, m.last.TaskRuns)
	add(m.taskPanics, s.TaskPanics, m.last.TaskPanics)
	add(m.rejectedWrites, s.RejectedWrites, m.last.RejectedWrites)

	m.last = s
}

// Option returns the runtime option feeding the metrics after every tick.
func (m *Metrics) Option() reactor.RuntimeOption {
	return reactor.WithTickHook(m.Observe)
}

func add(c prometheus.Counter, now, before uint64) {
	if now > before {
		c.Add(float64(now - before))
	}
}
