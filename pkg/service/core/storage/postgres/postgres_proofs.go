package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
)

type ProofQueries interface {
	CreateProof(ctx context.Context, arg gensql.CreateProofParams) (gensql.Proof, error)
	GetProofByGeneration(ctx context.Context, generationID uuid.UUID) (gensql.Proof, error)
	MarkProofVerified(ctx context.Context, arg gensql.MarkProofVerifiedParams) (int64, error)
	MarkGenerationVerified(ctx context.Context, id uuid.UUID) (int64, error)
}

type ProofQueriesWithTxFn func() (ProofQueries, database.Transacter, error)

var _ service.ProofStorage = &proofStorage{}

type proofStorage struct {
	queries  ProofQueries
	withTxFn ProofQueriesWithTxFn
}

type Proof gensql.Proof

func (p Proof) To() (*service.Proof, error) {
	receipt, err := fromNullRawMessage[service.ReceiptData](p.ReceiptData)
	if err != nil {
		return nil, err
	}

	return &service.Proof{
		ID:                p.ID,
		GenerationID:      p.GenerationID,
		UserAddress:       p.UserAddress,
		DatasetCommitment: p.DatasetCommitment,
		SynthCommitment:   p.SynthCommitment,
		ParamsHash:        p.ParamsHash,
		ProofHash:         p.ProofHash,
		QualityScore:      int(p.QualityScore),
		Verified:          p.Verified,
		ReceiptData:       receipt,
		Created:           p.Created,
	}, nil
}

func (s *proofStorage) CreateProof(ctx context.Context, proof service.NewProof) (*service.Proof, error) {
	const op errs.Op = "proofStorage.CreateProof"

	receipt, err := toNullRawMessage(proof.ReceiptData)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	raw, err := s.queries.CreateProof(ctx, gensql.CreateProofParams{
		GenerationID:      proof.GenerationID,
		UserAddress:       proof.UserAddress,
		DatasetCommitment: proof.DatasetCommitment,
		SynthCommitment:   proof.SynthCommitment,
		ParamsHash:        proof.ParamsHash,
		ProofHash:         proof.ProofHash,
		QualityScore:      int32(proof.QualityScore),
		ReceiptData:       receipt,
	})
	if err != nil {
		return nil, errs.E(errs.Database, op, errs.Parameter("generation_id"), err)
	}

	p, err := From(Proof(raw))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return p, nil
}

func (s *proofStorage) GetProofByGeneration(ctx context.Context, generationID uuid.UUID) (*service.Proof, error) {
	const op errs.Op = "proofStorage.GetProofByGeneration"

	raw, err := s.queries.GetProofByGeneration(ctx, generationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.NotExist, op, errs.Parameter("generation_id"), err)
		}

		return nil, errs.E(errs.Database, op, err)
	}

	p, err := From(Proof(raw))
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return p, nil
}

func (s *proofStorage) MarkProofVerified(ctx context.Context, proofID, generationID uuid.UUID) error {
	const op errs.Op = "proofStorage.MarkProofVerified"

	q, tx, err := s.withTxFn()
	if err != nil {
		return errs.E(errs.Database, op, err)
	}
	defer tx.Rollback()

	n, err := q.MarkProofVerified(ctx, gensql.MarkProofVerifiedParams{
		ID:           proofID,
		GenerationID: generationID,
	})
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	if n == 0 {
		return errs.E(errs.NotExist, op, errs.Parameter("proof_id"), sql.ErrNoRows)
	}

	n, err = q.MarkGenerationVerified(ctx, generationID)
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	if n == 0 {
		return errs.E(errs.NotExist, op, errs.Parameter("generation_id"), sql.ErrNoRows)
	}

	err = tx.Commit()
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	return nil
}

func NewProofStorage(queries ProofQueries, fn ProofQueriesWithTxFn) *proofStorage {
	return &proofStorage{
		queries:  queries,
		withTxFn: fn,
	}
}
