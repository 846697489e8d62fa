package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/AnatoleLucet/reactor"
	"github.com/AnatoleLucet/reactor/metrics"
)

// env holds the root flags shared by every scenario.
type env struct {
	realtime bool
	metrics  bool

	registry *prometheus.Registry
}

func (e *env) driver() driver {
	return newDriver(e.realtime)
}

// runtime creates the scenario runtime, exporting its counters when
// --metrics is set.
func (e *env) runtime(scenario string) *reactor.Runtime {
	if !e.metrics {
		return reactor.NewRuntime()
	}

	e.registry = prometheus.NewRegistry()
	m := metrics.New(
		metrics.WithRegistry(e.registry),
		metrics.WithConstLabels(prometheus.Labels{"scenario": scenario}),
	)

	return reactor.NewRuntime(m.Option())
}

// report prints the gathered counters, one "name value" line each.
func (e *env) report(w io.Writer) error {
	if e.registry == nil {
		return nil
	}

	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	fmt.Fprintln(w, "metrics:")
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "  %s %g\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}
	return nil
}
