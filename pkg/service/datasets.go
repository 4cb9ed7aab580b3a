package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/synth"
)

type DatasetStorage interface {
	CreateDataset(ctx context.Context, ds NewDataset) (*Dataset, error)
	GetDataset(ctx context.Context, id uuid.UUID) (*Dataset, error)
	UpdateDatasetStatus(ctx context.Context, id uuid.UUID, status DatasetStatus) error
}

type DatasetService interface {
	ClassifyColumns(ctx context.Context, input ClassifyColumnsDto) ([]synth.Column, error)
	RegisterDataset(ctx context.Context, input RegisterDatasetDto) (*RegisteredDataset, error)
	GetDataset(ctx context.Context, id uuid.UUID) (*Dataset, error)
	AttestDataset(ctx context.Context, id uuid.UUID) (*Attestation, error)
}

// ClaimSigner signs user attestations. The pipeline never depends on it.
type ClaimSigner interface {
	Sign(ctx context.Context, message []byte) ([]byte, error)
	PublicKey() []byte
}

type DatasetStatus string

const (
	DatasetStatusRegistered DatasetStatus = "registered"
	DatasetStatusGenerated  DatasetStatus = "generated"
)

const DefaultDatasetType = "tabular"

type Dataset struct {
	ID                 uuid.UUID     `json:"id"`
	UserAddress        string        `json:"userAddress"`
	OriginalCommitment string        `json:"originalCommitment"`
	Filename           string        `json:"filename"`
	ColumnCount        int           `json:"columnCount"`
	RowCount           int           `json:"rowCount"`
	DatasetType        string        `json:"datasetType"`
	Status             DatasetStatus `json:"status"`
	Created            time.Time     `json:"created"`
	LastModified       time.Time     `json:"lastModified"`
}

type NewDataset struct {
	UserAddress        string
	OriginalCommitment string
	Filename           string
	ColumnCount        int
	RowCount           int
	DatasetType        string
}

type ClassifyColumnsDto struct {
	Headers []string `json:"headers"`
}

// RegisterDatasetDto carries what a client may disclose about a dataset:
// its shape and a hash of its content, never the content itself.
type RegisterDatasetDto struct {
	UserAddress  string `json:"userAddress"`
	Filename     string `json:"filename"`
	OriginalHash string `json:"originalHash"`
	ColumnCount  int    `json:"columnCount"`
	RowCount     int    `json:"rowCount"`
	DatasetType  string `json:"datasetType"`
}

func (d RegisterDatasetDto) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Filename, validation.Required, validation.Length(1, 255)),
		validation.Field(&d.OriginalHash, validation.Required, validation.Length(1, 256)),
		validation.Field(&d.ColumnCount, validation.Min(0)),
		validation.Field(&d.RowCount, validation.Min(0)),
		validation.Field(&d.UserAddress, validation.Length(0, 128)),
	)
}

type RegisteredDataset struct {
	DatasetID  uuid.UUID `json:"datasetId"`
	Commitment string    `json:"commitment"`
	AleoTxID   string    `json:"aleoTxId"`
	Dataset    *Dataset  `json:"dataset"`
}

type Attestation struct {
	DatasetID uuid.UUID `json:"datasetId"`
	Message   string    `json:"message"`
	Signature string    `json:"signature"`
	PublicKey string    `json:"publicKey"`
	KeyID     string    `json:"keyId"`
}
