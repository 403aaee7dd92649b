package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/movekit-lab/movekit/helper/metrics"
)

// Metrics represents the pipeline metrics
type Metrics struct {
	// Stage executions by stage name
	stageRuns *prometheus.CounterVec
	// Stage failures by stage name
	stageFailures *prometheus.CounterVec
	// Gas budget computed by the latest dry run
	dryRunGasBudget prometheus.Gauge
}

// GetPrometheusMetrics creates registered pipeline metrics
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	m := &Metrics{
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pipeline",
			Name:        "stage_runs_total",
			Help:        "Resolution stage executions.",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pipeline",
			Name:        "stage_failures_total",
			Help:        "Resolution stage failures.",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		dryRunGasBudget: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "pipeline",
			Name:        "dry_run_gas_budget",
			Help:        "Gas budget computed from the latest dry run.",
			ConstLabels: constLabels,
		}),
	}

	prometheus.MustRegister(m.stageRuns, m.stageFailures, m.dryRunGasBudget)

	return m
}

// NilMetrics returns a no-op metrics container
func NilMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) stageRun(stage string) {
	if m == nil || m.stageRuns == nil {
		return
	}

	m.stageRuns.WithLabelValues(stage).Inc()
}

func (m *Metrics) stageFailure(stage string) {
	if m == nil || m.stageFailures == nil {
		return
	}

	m.stageFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) setDryRunGasBudget(v float64) {
	if m == nil || m.dryRunGasBudget == nil {
		return
	}

	m.dryRunGasBudget.Set(v)
}
