package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
)

type TransactionQueries interface {
	AppendTransaction(ctx context.Context, arg gensql.AppendTransactionParams) (gensql.LedgerTransaction, error)
	ListTransactionsForGeneration(ctx context.Context, generationID uuid.NullUUID) ([]gensql.LedgerTransaction, error)
}

var _ service.TransactionStorage = &transactionStorage{}

type transactionStorage struct {
	queries TransactionQueries
}

type LedgerTransaction gensql.LedgerTransaction

func (t LedgerTransaction) To() (*service.TransactionRecord, error) {
	inputs, err := fromNullRawMessage[ledger.Args](t.Inputs)
	if err != nil {
		return nil, fmt.Errorf("decoding inputs of %s: %w", t.TxID, err)
	}

	outputs, err := fromNullRawMessage[ledger.Args](t.Outputs)
	if err != nil {
		return nil, fmt.Errorf("decoding outputs of %s: %w", t.TxID, err)
	}

	rec := &service.TransactionRecord{
		ID:           t.ID,
		DatasetID:    nullUUIDToUUIDPtr(t.DatasetID),
		GenerationID: nullUUIDToUUIDPtr(t.GenerationID),
		UserAddress:  t.UserAddress,
		Record: ledger.Record{
			TxID:          t.TxID,
			Type:          ledger.TxType(t.TxType),
			ProgramID:     t.ProgramID,
			FunctionName:  t.FunctionName,
			InputsDigest:  t.InputsDigest,
			OutputsDigest: t.OutputsDigest,
			Status:        t.Status,
			BlockHeight:   t.BlockHeight,
			ConfirmedAt:   t.ConfirmedAt,
		},
		Created: t.Created,
	}

	if inputs != nil {
		rec.Inputs = *inputs
	}

	if outputs != nil {
		rec.Outputs = *outputs
	}

	return rec, nil
}

type LedgerTransactions []gensql.LedgerTransaction

func (l LedgerTransactions) To() ([]*service.TransactionRecord, error) {
	records := make([]*service.TransactionRecord, len(l))

	for i, raw := range l {
		rec, err := From(LedgerTransaction(raw))
		if err != nil {
			return nil, err
		}

		records[i] = rec
	}

	return records, nil
}

func (s *transactionStorage) AppendTransaction(ctx context.Context, tx service.NewTransaction) (*service.TransactionRecord, error) {
	const op errs.Op = "transactionStorage.AppendTransaction"

	txType := gensql.LedgerTxType(tx.Record.Type)
	if !txType.Valid() {
		return nil, errs.E(errs.Invalid, op, errs.Parameter("tx_type"), fmt.Errorf("unknown transaction type %q", tx.Record.Type))
	}

	inputs, err := toNullRawMessage(tx.Record.Inputs)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	outputs, err := toNullRawMessage(tx.Record.Outputs)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	raw, err := s.queries.AppendTransaction(ctx, gensql.AppendTransactionParams{
		DatasetID:     uuidPtrToNullUUID(tx.DatasetID),
		GenerationID:  uuidPtrToNullUUID(tx.GenerationID),
		UserAddress:   tx.UserAddress,
		TxID:          tx.Record.TxID,
		TxType:        txType,
		ProgramID:     tx.Record.ProgramID,
		FunctionName:  tx.Record.FunctionName,
		Inputs:        inputs,
		Outputs:       outputs,
		InputsDigest:  tx.Record.InputsDigest,
		OutputsDigest: tx.Record.OutputsDigest,
		Status:        tx.Record.Status,
		BlockHeight:   tx.Record.BlockHeight,
		ConfirmedAt:   tx.Record.ConfirmedAt,
	})
	if err != nil {
		return nil, errs.E(errs.Database, op, errs.Parameter("tx_id"), err)
	}

	rec, err := From(LedgerTransaction(raw))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return rec, nil
}

func (s *transactionStorage) ListTransactionsForGeneration(ctx context.Context, generationID uuid.UUID) ([]*service.TransactionRecord, error) {
	const op errs.Op = "transactionStorage.ListTransactionsForGeneration"

	raw, err := s.queries.ListTransactionsForGeneration(ctx, uuid.NullUUID{UUID: generationID, Valid: true})
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	records, err := From(LedgerTransactions(raw))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return records, nil
}

func NewTransactionStorage(queries TransactionQueries) *transactionStorage {
	return &transactionStorage{
		queries: queries,
	}
}
