package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ReceiptService interface {
	ExportReceipt(ctx context.Context, generationID uuid.UUID) (*ExportedReceipt, error)
}

// Receipt is a read-only summary of a generation and its audit trail.
type Receipt struct {
	ReceiptID    string               `json:"receipt_id"`
	Timestamp    time.Time            `json:"timestamp"`
	AleoNetwork  string               `json:"aleo_network"`
	ProgramID    string               `json:"program_id"`
	Dataset      ReceiptDataset       `json:"dataset"`
	Generation   ReceiptGeneration    `json:"generation"`
	PrivacyProof ReceiptPrivacyProof  `json:"privacy_proof"`
	Transactions []ReceiptTransaction `json:"transactions"`
	Verification ReceiptVerification  `json:"verification"`
}

type ReceiptDataset struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalHash string    `json:"original_hash"`
	ColumnCount  int       `json:"column_count"`
	RowCount     int       `json:"row_count"`
	Type         string    `json:"type"`
}

type ReceiptGeneration struct {
	ID               uuid.UUID    `json:"id"`
	RowsGenerated    int          `json:"rows_generated"`
	ColumnsIncluded  int          `json:"columns_included"`
	SensitiveRemoved int          `json:"sensitive_removed"`
	OutputFormat     OutputFormat `json:"output_format"`
	QualityMode      QualityMode  `json:"quality_mode"`
	QualityScore     int          `json:"quality_score"`
}

type ReceiptPrivacyProof struct {
	SynthCommitment   string `json:"synth_commitment"`
	DatasetCommitment string `json:"dataset_commitment,omitempty"`
	ParamsHash        string `json:"params_hash,omitempty"`
	ProofHash         string `json:"proof_hash"`
	PrivacyVerified   bool   `json:"privacy_verified"`
	SynthReady        bool   `json:"synth_ready"`
	AleoVerified      bool   `json:"aleo_verified"`
}

type ReceiptTransaction struct {
	TxID        string    `json:"tx_id"`
	Type        string    `json:"type"`
	Function    string    `json:"function"`
	Status      string    `json:"status"`
	BlockHeight int64     `json:"block_height"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type ReceiptVerification struct {
	CanVerify    bool   `json:"can_verify"`
	VerifyURL    string `json:"verify_url"`
	Instructions string `json:"instructions"`
}

type ExportedReceipt struct {
	Receipt    *Receipt `json:"receipt"`
	ExportTxID string   `json:"exportTxId"`
	Filename   string   `json:"filename"`
}
