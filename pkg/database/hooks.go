package database

import (
	"context"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/qustavo/sqlhooks/v2"
	"github.com/rs/zerolog"
)

var (
	_ sqlhooks.Hooks     = &queryHooks{}
	_ sqlhooks.OnErrorer = &queryHooks{}
)

type startedAtKey struct{}

var queryNameRe = regexp.MustCompile(`^-- name: (\w+)`)

type queryHooks struct {
	log      zerolog.Logger
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

func newQueryHooks(log zerolog.Logger) *queryHooks {
	return &queryHooks{
		log: log.With().Str("subsystem", "database").Logger(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "synthproof",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "synthproof",
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Number of failed database queries.",
		}, []string{"query"}),
	}
}

func (h *queryHooks) register(reg prometheus.Registerer) {
	reg.MustRegister(h.duration, h.errors)
}

func (h *queryHooks) Before(ctx context.Context, _ string, _ ...interface{}) (context.Context, error) {
	return context.WithValue(ctx, startedAtKey{}, time.Now()), nil
}

func (h *queryHooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	name := QueryName(query)
	elapsed := h.elapsed(ctx)

	h.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	h.log.Debug().Str("query", name).Int("args", len(args)).Dur("elapsed", elapsed).Msg("query")

	return ctx, nil
}

func (h *queryHooks) OnError(ctx context.Context, err error, query string, _ ...interface{}) error {
	name := QueryName(query)

	h.errors.WithLabelValues(name).Inc()
	h.log.Debug().Err(err).Str("query", name).Dur("elapsed", h.elapsed(ctx)).Msg("query failed")

	return err
}

func (h *queryHooks) elapsed(ctx context.Context) time.Duration {
	started, ok := ctx.Value(startedAtKey{}).(time.Time)
	if !ok {
		return 0
	}

	return time.Since(started)
}

// QueryName extracts the sqlc query name from a statement, or "raw" for
// statements issued outside the generated queries.
func QueryName(query string) string {
	m := queryNameRe.FindStringSubmatch(query)
	if m == nil {
		return "raw"
	}

	return m[1]
}
