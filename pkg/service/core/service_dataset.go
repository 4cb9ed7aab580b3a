package core

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/signer"
	"github.com/navikt/synthproof/pkg/synth"
	"github.com/rs/zerolog"
)

const attestationPrefix = "AleoSynth Dataset Registration: "

var _ service.DatasetService = &datasetService{}

type datasetService struct {
	datasetStorage     service.DatasetStorage
	transactionStorage service.TransactionStorage
	engine             *commitment.Engine
	ledger             *ledger.Ledger
	signer             service.ClaimSigner
	metrics            *Metrics
	log                zerolog.Logger
}

func (s *datasetService) ClassifyColumns(_ context.Context, input service.ClassifyColumnsDto) ([]synth.Column, error) {
	return synth.ClassifyOrFallback(input.Headers), nil
}

func (s *datasetService) RegisterDataset(ctx context.Context, input service.RegisterDatasetDto) (*service.RegisteredDataset, error) {
	const op errs.Op = "datasetService.RegisterDataset"

	if err := input.Validate(); err != nil {
		return nil, errs.E(errs.Validation, op, err)
	}

	if input.DatasetType == "" {
		input.DatasetType = service.DefaultDatasetType
	}

	commit := s.engine.DatasetCommitment(input.OriginalHash)

	ds, err := s.datasetStorage.CreateDataset(ctx, service.NewDataset{
		UserAddress:        input.UserAddress,
		OriginalCommitment: commit,
		Filename:           input.Filename,
		ColumnCount:        input.ColumnCount,
		RowCount:           input.RowCount,
		DatasetType:        input.DatasetType,
	})
	if err != nil {
		return nil, errs.E(op, err)
	}

	tx, err := s.ledger.Execute(ledger.TxTypeRegister,
		ledger.Args{
			"commitment": commit,
			"filename":   input.Filename,
			"columns":    input.ColumnCount,
			"rows":       input.RowCount,
		},
		ledger.Args{
			"dataset_id": ds.ID.String(),
			"registered": true,
		},
	)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	_, err = s.transactionStorage.AppendTransaction(ctx, service.NewTransaction{
		DatasetID:   &ds.ID,
		UserAddress: ds.UserAddress,
		Record:      *tx,
	})
	if err != nil {
		return nil, errs.E(op, errs.Parameter("dataset_id"), err)
	}

	s.metrics.Registrations.Inc()

	s.log.Info().
		Str("dataset_id", ds.ID.String()).
		Str("tx_id", tx.TxID).
		Msg("dataset registered")

	return &service.RegisteredDataset{
		DatasetID:  ds.ID,
		Commitment: commit,
		AleoTxID:   tx.TxID,
		Dataset:    ds,
	}, nil
}

func (s *datasetService) GetDataset(ctx context.Context, id uuid.UUID) (*service.Dataset, error) {
	const op errs.Op = "datasetService.GetDataset"

	ds, err := s.datasetStorage.GetDataset(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return ds, nil
}

func (s *datasetService) AttestDataset(ctx context.Context, id uuid.UUID) (*service.Attestation, error) {
	const op errs.Op = "datasetService.AttestDataset"

	if s.signer == nil {
		return nil, errs.E(errs.Unavailable, op, errs.Str("no claim signer configured"))
	}

	ds, err := s.datasetStorage.GetDataset(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	message := attestationPrefix + ds.OriginalCommitment

	sig, err := s.signer.Sign(ctx, []byte(message))
	if err != nil {
		return nil, errs.E(errs.Internal, op, errs.Parameter("dataset_id"), err)
	}

	return &service.Attestation{
		DatasetID: ds.ID,
		Message:   message,
		Signature: hex.EncodeToString(sig),
		PublicKey: hex.EncodeToString(s.signer.PublicKey()),
		KeyID:     signer.KeyID(s.signer.PublicKey()),
	}, nil
}

func NewDatasetService(
	datasetStorage service.DatasetStorage,
	transactionStorage service.TransactionStorage,
	engine *commitment.Engine,
	ldg *ledger.Ledger,
	signer service.ClaimSigner,
	metrics *Metrics,
	log zerolog.Logger,
) *datasetService {
	return &datasetService{
		datasetStorage:     datasetStorage,
		transactionStorage: transactionStorage,
		engine:             engine,
		ledger:             ldg,
		signer:             signer,
		metrics:            metrics,
		log:                log.With().Str("service", "dataset").Logger(),
	}
}
