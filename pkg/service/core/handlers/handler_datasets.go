package handlers

import (
	"context"
	"net/http"

	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/transport"
	"github.com/navikt/synthproof/pkg/synth"
)

type DatasetHandler struct {
	service service.DatasetService
}

func (h *DatasetHandler) ClassifyColumns(ctx context.Context, _ *http.Request, in service.ClassifyColumnsDto) ([]synth.Column, error) {
	return h.service.ClassifyColumns(ctx, in)
}

func (h *DatasetHandler) RegisterDataset(ctx context.Context, _ *http.Request, in service.RegisterDatasetDto) (*transport.Created[*service.RegisteredDataset], error) {
	reg, err := h.service.RegisterDataset(ctx, in)
	if err != nil {
		return nil, err
	}

	return transport.NewCreated(reg), nil
}

func (h *DatasetHandler) GetDataset(ctx context.Context, _ *http.Request, _ any) (*service.Dataset, error) {
	const op errs.Op = "DatasetHandler.GetDataset"

	id, err := uuidParam(ctx, op, "id")
	if err != nil {
		return nil, err
	}

	return h.service.GetDataset(ctx, id)
}

func (h *DatasetHandler) AttestDataset(ctx context.Context, _ *http.Request, _ any) (*service.Attestation, error) {
	const op errs.Op = "DatasetHandler.AttestDataset"

	id, err := uuidParam(ctx, op, "id")
	if err != nil {
		return nil, err
	}

	return h.service.AttestDataset(ctx, id)
}

func NewDatasetHandler(s service.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		service: s,
	}
}
