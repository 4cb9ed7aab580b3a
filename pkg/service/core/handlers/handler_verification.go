package handlers

import (
	"context"
	"net/http"

	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
)

type VerificationHandler struct {
	service service.VerificationService
}

func (h *VerificationHandler) Verify(ctx context.Context, _ *http.Request, in service.VerifyDto) (*service.VerificationResult, error) {
	const op errs.Op = "VerificationHandler.Verify"

	id, err := uuidParam(ctx, op, "id")
	if err != nil {
		return nil, err
	}

	return h.service.Verify(ctx, id, in)
}

func NewVerificationHandler(s service.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		service: s,
	}
}
