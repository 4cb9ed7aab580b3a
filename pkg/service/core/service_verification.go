package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/rs/zerolog"
)

var _ service.VerificationService = &verificationService{}

type verificationService struct {
	proofStorage       service.ProofStorage
	transactionStorage service.TransactionStorage
	ledger             *ledger.Ledger
	metrics            *Metrics
	log                zerolog.Logger
}

// Verify compares the presented synth commitment with the stored proof. A
// mismatch is an ordinary negative result and changes nothing.
func (s *verificationService) Verify(ctx context.Context, generationID uuid.UUID, input service.VerifyDto) (*service.VerificationResult, error) {
	const op errs.Op = "verificationService.Verify"

	if err := input.Validate(); err != nil {
		return nil, errs.E(errs.Validation, op, err)
	}

	proof, err := s.proofStorage.GetProofByGeneration(ctx, generationID)
	if err != nil {
		s.metrics.Verifications.WithLabelValues("error").Inc()
		return nil, errs.E(op, err)
	}

	if proof.SynthCommitment != input.SynthCommitment {
		s.metrics.Verifications.WithLabelValues("mismatch").Inc()

		return &service.VerificationResult{
			Verified:     false,
			ProofHash:    proof.ProofHash,
			QualityScore: proof.QualityScore,
		}, nil
	}

	err = s.proofStorage.MarkProofVerified(ctx, proof.ID, generationID)
	if err != nil {
		s.metrics.Verifications.WithLabelValues("error").Inc()
		return nil, errs.E(op, err)
	}

	result := &service.VerificationResult{
		Verified:     true,
		ProofHash:    proof.ProofHash,
		QualityScore: proof.QualityScore,
		Receipt:      proof.ReceiptData,
	}

	s.metrics.Verifications.WithLabelValues("verified").Inc()

	txID, err := s.recordVerification(ctx, generationID, proof)
	if err != nil {
		s.metrics.PartialFailures.WithLabelValues(StageStoreTransaction).Inc()
		s.log.Warn().
			Err(err).
			Str("generation_id", generationID.String()).
			Str("stage", StageStoreTransaction).
			Strs("op_stack", errs.OpStack(err)).
			Msg("secondary write failed")

		result.PartialFailures = []service.PartialFailure{{Stage: StageStoreTransaction, Error: err.Error()}}

		return result, nil
	}

	result.VerificationTxID = &txID

	s.log.Info().
		Str("generation_id", generationID.String()).
		Str("tx_id", txID).
		Msg("proof verified")

	return result, nil
}

// recordVerification appends the verify transaction. The proof is already
// marked verified when this runs.
func (s *verificationService) recordVerification(ctx context.Context, generationID uuid.UUID, proof *service.Proof) (string, error) {
	const op errs.Op = "verificationService.recordVerification"

	tx, err := s.ledger.Execute(ledger.TxTypeVerify,
		ledger.Args{"synth_commitment": proof.SynthCommitment},
		ledger.Args{"verified": true},
	)
	if err != nil {
		return "", errs.E(errs.Internal, op, err)
	}

	_, err = s.transactionStorage.AppendTransaction(ctx, service.NewTransaction{
		GenerationID: &generationID,
		UserAddress:  proof.UserAddress,
		Record:       *tx,
	})
	if err != nil {
		return "", errs.E(op, err)
	}

	return tx.TxID, nil
}

func NewVerificationService(
	proofStorage service.ProofStorage,
	transactionStorage service.TransactionStorage,
	ldg *ledger.Ledger,
	metrics *Metrics,
	log zerolog.Logger,
) *verificationService {
	return &verificationService{
		proofStorage:       proofStorage,
		transactionStorage: transactionStorage,
		ledger:             ldg,
		metrics:            metrics,
		log:                log.With().Str("service", "verification").Logger(),
	}
}
