package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/weft/pkg/domain"
)

// Metrics collects pipeline execution metrics.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	nodesRun     *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with the given registerer (pass
// prometheus.DefaultRegisterer for the process default).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "runs_total",
			Help:      "Pipeline runs, partitioned by outcome.",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weft",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of whole pipeline runs.",
		}),
		nodesRun: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "nodes_run_total",
			Help:      "Node executions, partitioned by kind and outcome.",
		}, []string{"kind", "status"}),
		nodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weft",
			Name:      "node_duration_seconds",
			Help:      "Wall-clock duration of node executions.",
		}, []string{"kind"}),
	}
}

// Hooks returns lifecycle hooks feeding these collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunFinish: func(_ context.Context, ev *domain.RunEvent) {
			m.runsTotal.WithLabelValues(outcome(ev.Err)).Inc()
			m.runDuration.Observe(ev.Duration.Seconds())
		},
		OnNodeFinish: func(_ context.Context, ev *domain.NodeEvent) {
			m.nodesRun.WithLabelValues(string(ev.Kind), outcome(ev.Err)).Inc()
			m.nodeDuration.WithLabelValues(string(ev.Kind)).Observe(ev.Duration.Seconds())
		},
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
