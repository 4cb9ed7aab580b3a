package handlers

import (
	"context"
	"net/http"

	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/transport"
)

type GenerationHandler struct {
	service service.GenerationService
}

func (h *GenerationHandler) Generate(ctx context.Context, _ *http.Request, in service.GenerateRequest) (*transport.Created[*service.GenerateResult], error) {
	res, err := h.service.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	return transport.NewCreated(res), nil
}

func (h *GenerationHandler) GetGeneration(ctx context.Context, _ *http.Request, _ any) (*service.Generation, error) {
	const op errs.Op = "GenerationHandler.GetGeneration"

	id, err := uuidParam(ctx, op, "id")
	if err != nil {
		return nil, err
	}

	return h.service.GetGeneration(ctx, id)
}

// GetSyntheticData downloads the synthetic table. The stored output format
// is used unless the format query parameter overrides it.
func (h *GenerationHandler) GetSyntheticData(ctx context.Context, r *http.Request, _ any) (*transport.ByteWriter, error) {
	const op errs.Op = "GenerationHandler.GetSyntheticData"

	id, err := uuidParam(ctx, op, "id")
	if err != nil {
		return nil, err
	}

	data, err := h.service.GetSyntheticData(ctx, id, service.OutputFormat(r.URL.Query().Get("format")))
	if err != nil {
		return nil, err
	}

	return transport.NewAttachment(data.ContentType, data.Filename, data.Content), nil
}

func NewGenerationHandler(s service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		service: s,
	}
}
