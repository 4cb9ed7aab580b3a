package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service/core/transport"
	"github.com/rs/zerolog"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthEndpoints struct {
	IsAlive http.HandlerFunc
	IsReady http.HandlerFunc
}

type healthStatus struct {
	Status string `json:"status"`
}

func NewHealthEndpoints(log zerolog.Logger, pinger Pinger) *HealthEndpoints {
	return &HealthEndpoints{
		IsAlive: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		IsReady: transport.For(func(ctx context.Context, _ *http.Request, _ any) (*healthStatus, error) {
			if pinger == nil {
				return &healthStatus{Status: "ok"}, nil
			}

			if err := pinger.Ping(ctx); err != nil {
				return nil, errs.E(errs.Unavailable, errs.Op("routes.IsReady"), err)
			}

			return &healthStatus{Status: "ok"}, nil
		}).Build(log),
	}
}

func NewHealthRoutes(endpoints *HealthEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Get("/internal/isalive", endpoints.IsAlive)
		router.Get("/internal/isready", endpoints.IsReady)
	}
}
