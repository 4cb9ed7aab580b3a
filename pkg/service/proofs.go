package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type ProofStorage interface {
	CreateProof(ctx context.Context, proof NewProof) (*Proof, error)
	GetProofByGeneration(ctx context.Context, generationID uuid.UUID) (*Proof, error)
	// MarkProofVerified sets the verified flag on the proof and on the
	// generation it belongs to. The flag is never cleared.
	MarkProofVerified(ctx context.Context, proofID, generationID uuid.UUID) error
}

type VerificationService interface {
	Verify(ctx context.Context, generationID uuid.UUID, input VerifyDto) (*VerificationResult, error)
}

type Proof struct {
	ID                uuid.UUID    `json:"id"`
	GenerationID      uuid.UUID    `json:"generationId"`
	UserAddress       string       `json:"userAddress"`
	DatasetCommitment string       `json:"datasetCommitment"`
	SynthCommitment   string       `json:"synthCommitment"`
	ParamsHash        string       `json:"paramsHash"`
	ProofHash         string       `json:"proofHash"`
	QualityScore      int          `json:"qualityScore"`
	Verified          bool         `json:"verified"`
	ReceiptData       *ReceiptData `json:"receiptData"`
	Created           time.Time    `json:"created"`
}

type NewProof struct {
	GenerationID      uuid.UUID
	UserAddress       string
	DatasetCommitment string
	SynthCommitment   string
	ParamsHash        string
	ProofHash         string
	QualityScore      int
	ReceiptData       *ReceiptData
}

// ReceiptData is the summary embedded in a proof at generation time.
type ReceiptData struct {
	DatasetID   uuid.UUID   `json:"dataset_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Params      ProofParams `json:"params"`
	AleoNetwork string      `json:"aleo_network"`
	ProgramID   string      `json:"program_id"`
}

type ProofParams struct {
	Rows    int          `json:"rows"`
	Format  OutputFormat `json:"format"`
	Quality QualityMode  `json:"quality"`
}

type VerifyDto struct {
	SynthCommitment string `json:"synthCommitment"`
}

func (v VerifyDto) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.SynthCommitment, validation.Required),
	)
}

type VerificationResult struct {
	Verified         bool         `json:"verified"`
	ProofHash        string       `json:"proofHash"`
	QualityScore     int          `json:"qualityScore"`
	VerificationTxID *string      `json:"verificationTxId"`
	Receipt          *ReceiptData `json:"receipt"`
	// PartialFailures lists writes that failed after the proof was marked
	// verified.
	PartialFailures []PartialFailure `json:"partialFailures,omitempty"`
}
