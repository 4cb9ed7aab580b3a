package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/synth"
)

type GenerationQueries interface {
	CreateGeneration(ctx context.Context, arg gensql.CreateGenerationParams) (gensql.SyntheticGeneration, error)
	GetGeneration(ctx context.Context, id uuid.UUID) (gensql.SyntheticGeneration, error)
	GetDataset(ctx context.Context, id uuid.UUID) (gensql.Dataset, error)
	GetProofByGeneration(ctx context.Context, generationID uuid.UUID) (gensql.Proof, error)
	ListTransactionsForGeneration(ctx context.Context, generationID uuid.NullUUID) ([]gensql.LedgerTransaction, error)
}

var _ service.GenerationStorage = &generationStorage{}

type generationStorage struct {
	queries GenerationQueries
}

type SyntheticGeneration gensql.SyntheticGeneration

func (g SyntheticGeneration) To() (*service.Generation, error) {
	var data synth.Table
	if err := json.Unmarshal(g.SyntheticData, &data); err != nil {
		return nil, err
	}

	return &service.Generation{
		ID:               g.ID,
		DatasetID:        g.DatasetID,
		UserAddress:      g.UserAddress,
		SyntheticData:    data,
		QualityScore:     int(g.QualityScore),
		RowsGenerated:    int(g.RowsGenerated),
		ColumnsIncluded:  int(g.ColumnsIncluded),
		SensitiveRemoved: int(g.SensitiveRemoved),
		OutputFormat:     service.OutputFormat(g.OutputFormat),
		QualityMode:      service.QualityMode(g.QualityMode),
		SynthCommitment:  g.SynthCommitment,
		ProofHash:        g.ProofHash,
		TxID:             g.TxID,
		PrivacyVerified:  g.PrivacyVerified,
		SynthReady:       g.SynthReady,
		Verified:         g.Verified,
		Created:          g.Created,
	}, nil
}

func (s *generationStorage) CreateGeneration(ctx context.Context, gen service.NewGeneration) (*service.Generation, error) {
	const op errs.Op = "generationStorage.CreateGeneration"

	data, err := json.Marshal(gen.SyntheticData)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	raw, err := s.queries.CreateGeneration(ctx, gensql.CreateGenerationParams{
		DatasetID:        gen.DatasetID,
		UserAddress:      gen.UserAddress,
		SyntheticData:    data,
		QualityScore:     int32(gen.QualityScore),
		RowsGenerated:    int32(gen.RowsGenerated),
		ColumnsIncluded:  int32(gen.ColumnsIncluded),
		SensitiveRemoved: int32(gen.SensitiveRemoved),
		OutputFormat:     string(gen.OutputFormat),
		QualityMode:      string(gen.QualityMode),
		SynthCommitment:  gen.SynthCommitment,
		ProofHash:        gen.ProofHash,
		TxID:             gen.TxID,
		PrivacyVerified:  gen.PrivacyVerified,
		SynthReady:       gen.SynthReady,
	})
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	g, err := From(SyntheticGeneration(raw))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return g, nil
}

func (s *generationStorage) GetGeneration(ctx context.Context, id uuid.UUID) (*service.Generation, error) {
	const op errs.Op = "generationStorage.GetGeneration"

	raw, err := s.queries.GetGeneration(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.NotExist, op, errs.Parameter("generation_id"), err)
		}

		return nil, errs.E(errs.Database, op, err)
	}

	g, err := From(SyntheticGeneration(raw))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return g, nil
}

func (s *generationStorage) GetGenerationWithJoins(ctx context.Context, id uuid.UUID) (*service.GenerationWithJoins, error) {
	const op errs.Op = "generationStorage.GetGenerationWithJoins"

	gen, err := s.GetGeneration(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	rawDataset, err := s.queries.GetDataset(ctx, gen.DatasetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.NotExist, op, errs.Parameter("dataset_id"), err)
		}

		return nil, errs.E(errs.Database, op, err)
	}

	ds, err := From(Dataset(rawDataset))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	joins := &service.GenerationWithJoins{
		Generation: gen,
		Dataset:    ds,
	}

	rawProof, err := s.queries.GetProofByGeneration(ctx, id)
	switch {
	case err == nil:
		joins.Proof, err = From(Proof(rawProof))
		if err != nil {
			return nil, errs.E(errs.Internal, op, err)
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, errs.E(errs.Database, op, err)
	}

	rawTxs, err := s.queries.ListTransactionsForGeneration(ctx, uuid.NullUUID{UUID: id, Valid: true})
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	joins.Transactions, err = From(LedgerTransactions(rawTxs))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return joins, nil
}

func NewGenerationStorage(queries GenerationQueries) *generationStorage {
	return &generationStorage{
		queries: queries,
	}
}
