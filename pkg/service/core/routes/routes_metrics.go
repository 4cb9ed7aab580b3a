package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsEndpoints struct {
	GetMetrics http.Handler
}

// NewMetricsEndpoints serves everything gathered by reg. Scrapes are counted
// on the same registry.
func NewMetricsEndpoints(reg *prometheus.Registry) *MetricsEndpoints {
	return &MetricsEndpoints{
		GetMetrics: promhttp.InstrumentMetricHandler(reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			Registry:          reg,
			ErrorHandling:     promhttp.ContinueOnError,
			EnableOpenMetrics: true,
		})),
	}
}

func NewMetricsRoutes(endpoints *MetricsEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Method(http.MethodGet, "/internal/metrics", endpoints.GetMetrics)
	}
}
