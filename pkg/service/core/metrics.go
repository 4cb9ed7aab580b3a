package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "synthproof"

type Metrics struct {
	Generations     *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	PartialFailures *prometheus.CounterVec
	Verifications   *prometheus.CounterVec
	Exports         prometheus.Counter
	Registrations   prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generations_total",
			Help:      "Generation runs by outcome.",
		}, []string{"result"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "generation_stage_duration_seconds",
			Help:      "Time spent in each generation stage.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"stage"}),
		PartialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generation_partial_failures_total",
			Help:      "Secondary writes that failed after the primary write succeeded.",
		}, []string{"stage"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "verifications_total",
			Help:      "Verification attempts by outcome.",
		}, []string{"result"}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "receipt_exports_total",
			Help:      "Exported receipts.",
		}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_registrations_total",
			Help:      "Registered datasets.",
		}),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Generations,
		m.StageDuration,
		m.PartialFailures,
		m.Verifications,
		m.Exports,
		m.Registrations,
	}
}
