package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/navikt/synthproof/pkg/service/core/handlers"
	"github.com/navikt/synthproof/pkg/service/core/transport"
	"github.com/rs/zerolog"
)

type GenerationEndpoints struct {
	Generate         http.HandlerFunc
	GetGeneration    http.HandlerFunc
	GetSyntheticData http.HandlerFunc
	Verify           http.HandlerFunc
	ExportReceipt    http.HandlerFunc
}

func NewGenerationEndpoints(log zerolog.Logger, h *handlers.Handlers) *GenerationEndpoints {
	return &GenerationEndpoints{
		Generate:         transport.For(h.GenerationHandler.Generate).RequestFromJSON().Build(log),
		GetGeneration:    transport.For(h.GenerationHandler.GetGeneration).Build(log),
		GetSyntheticData: transport.For(h.GenerationHandler.GetSyntheticData).Build(log),
		Verify:           transport.For(h.VerificationHandler.Verify).RequestFromJSON().Build(log),
		ExportReceipt:    transport.For(h.ReceiptHandler.ExportReceipt).Build(log),
	}
}

func NewGenerationRoutes(endpoints *GenerationEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/generations", func(r chi.Router) {
			r.Post("/", endpoints.Generate)
			r.Get("/{id}", endpoints.GetGeneration)
			r.Get("/{id}/data", endpoints.GetSyntheticData)
			r.Post("/{id}/verify", endpoints.Verify)
			r.Post("/{id}/receipt", endpoints.ExportReceipt)
		})
	}
}
