package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/reactor"
)

func TestMetrics(t *testing.T) {
	t.Run("follows the runtime counters", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := New(WithRegistry(reg))

		rt := reactor.NewRuntime(m.Option())

		var count *reactor.Cell[int]
		rt.Run(func() {
			count = reactor.NewCell(0)
			double := reactor.NewDerived(func() int { return count.Read() * 2 })

			reactor.NewTask(func() { double.Read() })
		})

		count.Write(1)
		count.Write(2)

		assert.Equal(t, float64(2), testutil.ToFloat64(m.ticks))
		assert.Equal(t, float64(3), testutil.ToFloat64(m.taskRuns))
		assert.Equal(t, float64(3), testutil.ToFloat64(m.derivedEvaluations))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.taskPanics))
	})

	t.Run("only adds the growth", func(t *testing.T) {
		m := New(WithRegistry(prometheus.NewRegistry()))

		m.Observe(reactor.Stats{Ticks: 2, RejectedWrites: 1})
		m.Observe(reactor.Stats{Ticks: 5, RejectedWrites: 1})

		assert.Equal(t, float64(5), testutil.ToFloat64(m.ticks))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.rejectedWrites))
	})

	t.Run("registers under the namespace", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		New(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"))

		families, err := reg.Gather()
		require.NoError(t, err)

		names := []string{}
		for _, f := range families {
			names = append(names, f.GetName())
		}

		assert.ElementsMatch(t, []string{
			"app_ui_ticks_total",
			"app_ui_derived_evaluations_total",
			"app_ui_task_runs_total",
			"app_ui_task_panics_total",
			"app_ui_rejected_writes_total",
		}, names)
	})
}
