package handlers

import (
	"context"
	"fmt"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service/core"
)

type Handlers struct {
	DatasetHandler      *DatasetHandler
	GenerationHandler   *GenerationHandler
	VerificationHandler *VerificationHandler
	ReceiptHandler      *ReceiptHandler
}

func NewHandlers(s *core.Services) *Handlers {
	return &Handlers{
		DatasetHandler:      NewDatasetHandler(s.DatasetService),
		GenerationHandler:   NewGenerationHandler(s.GenerationService),
		VerificationHandler: NewVerificationHandler(s.VerificationService),
		ReceiptHandler:      NewReceiptHandler(s.ReceiptService),
	}
}

func uuidParam(ctx context.Context, op errs.Op, name string) (uuid.UUID, error) {
	raw := chi.URLParamFromCtx(ctx, name)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.E(errs.InvalidRequest, op, errs.Parameter(name), fmt.Errorf("parsing %s %q: %w", name, raw, err))
	}

	return id, nil
}
