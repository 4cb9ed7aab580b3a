package handlers

import (
	"context"
	"net/http"

	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/transport"
)

type ReceiptHandler struct {
	service service.ReceiptService
}

func (h *ReceiptHandler) ExportReceipt(ctx context.Context, _ *http.Request, _ any) (*transport.JSONAttachment, error) {
	const op errs.Op = "ReceiptHandler.ExportReceipt"

	id, err := uuidParam(ctx, op, "id")
	if err != nil {
		return nil, err
	}

	exported, err := h.service.ExportReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	return &transport.JSONAttachment{
		Filename: exported.Filename,
		Value:    exported,
	}, nil
}

func NewReceiptHandler(s service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		service: s,
	}
}
