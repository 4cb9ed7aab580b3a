package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/ledger"
)

// TransactionStorage is append-only.
type TransactionStorage interface {
	AppendTransaction(ctx context.Context, tx NewTransaction) (*TransactionRecord, error)
	ListTransactionsForGeneration(ctx context.Context, generationID uuid.UUID) ([]*TransactionRecord, error)
}

type TransactionRecord struct {
	ID           uuid.UUID  `json:"id"`
	DatasetID    *uuid.UUID `json:"datasetId"`
	GenerationID *uuid.UUID `json:"generationId"`
	UserAddress  string     `json:"userAddress"`
	ledger.Record
	Created time.Time `json:"created"`
}

type NewTransaction struct {
	DatasetID    *uuid.UUID
	GenerationID *uuid.UUID
	UserAddress  string
	Record       ledger.Record
}
