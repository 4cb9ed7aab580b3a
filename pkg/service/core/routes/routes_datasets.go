package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/navikt/synthproof/pkg/service/core/handlers"
	"github.com/navikt/synthproof/pkg/service/core/transport"
	"github.com/rs/zerolog"
)

type DatasetEndpoints struct {
	ClassifyColumns http.HandlerFunc
	RegisterDataset http.HandlerFunc
	GetDataset      http.HandlerFunc
	AttestDataset   http.HandlerFunc
}

func NewDatasetEndpoints(log zerolog.Logger, h *handlers.DatasetHandler) *DatasetEndpoints {
	return &DatasetEndpoints{
		ClassifyColumns: transport.For(h.ClassifyColumns).RequestFromJSON().Build(log),
		RegisterDataset: transport.For(h.RegisterDataset).RequestFromJSON().Build(log),
		GetDataset:      transport.For(h.GetDataset).Build(log),
		AttestDataset:   transport.For(h.AttestDataset).Build(log),
	}
}

func NewDatasetRoutes(endpoints *DatasetEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Post("/api/columns/classify", endpoints.ClassifyColumns)

		router.Route("/api/datasets", func(r chi.Router) {
			r.Post("/", endpoints.RegisterDataset)
			r.Get("/{id}", endpoints.GetDataset)
			r.Post("/{id}/attest", endpoints.AttestDataset)
		})
	}
}
