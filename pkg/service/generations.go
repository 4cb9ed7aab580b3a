package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/synth"
)

type GenerationStorage interface {
	CreateGeneration(ctx context.Context, gen NewGeneration) (*Generation, error)
	GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error)
	GetGenerationWithJoins(ctx context.Context, id uuid.UUID) (*GenerationWithJoins, error)
}

type GenerationService interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error)
	GetSyntheticData(ctx context.Context, id uuid.UUID, format OutputFormat) (*SyntheticData, error)
}

type QualityMode string

const (
	QualityModeFast     QualityMode = "fast"
	QualityModeBalanced QualityMode = "balanced"
	QualityModeHigh     QualityMode = "high"
)

// BaseScore is the lower bound of the quality score for the mode. Unknown
// modes score as balanced.
func (m QualityMode) BaseScore() int {
	switch m {
	case QualityModeFast:
		return 75
	case QualityModeHigh:
		return 95
	}

	return 88
}

type OutputFormat string

const (
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatJSON OutputFormat = "json"
)

func (f OutputFormat) Valid() bool {
	return f == OutputFormatCSV || f == OutputFormatJSON
}

// MaxSyntheticRows bounds the size of a single generation.
const MaxSyntheticRows = 10000

type Generation struct {
	ID               uuid.UUID    `json:"id"`
	DatasetID        uuid.UUID    `json:"datasetId"`
	UserAddress      string       `json:"userAddress"`
	SyntheticData    synth.Table  `json:"syntheticData"`
	QualityScore     int          `json:"qualityScore"`
	RowsGenerated    int          `json:"rowsGenerated"`
	ColumnsIncluded  int          `json:"columnsIncluded"`
	SensitiveRemoved int          `json:"sensitiveRemoved"`
	OutputFormat     OutputFormat `json:"outputFormat"`
	QualityMode      QualityMode  `json:"qualityMode"`
	SynthCommitment  string       `json:"synthCommitment"`
	ProofHash        string       `json:"proofHash"`
	TxID             string       `json:"aleoTxId"`
	PrivacyVerified  bool         `json:"privacyVerified"`
	SynthReady       bool         `json:"synthReady"`
	Verified         bool         `json:"verified"`
	Created          time.Time    `json:"created"`
}

type NewGeneration struct {
	DatasetID        uuid.UUID
	UserAddress      string
	SyntheticData    synth.Table
	QualityScore     int
	RowsGenerated    int
	ColumnsIncluded  int
	SensitiveRemoved int
	OutputFormat     OutputFormat
	QualityMode      QualityMode
	SynthCommitment  string
	ProofHash        string
	TxID             string
	PrivacyVerified  bool
	SynthReady       bool
}

// GenerationWithJoins is a generation together with everything recorded
// about it. Proof is nil when the proof insert never succeeded.
type GenerationWithJoins struct {
	Generation   *Generation
	Dataset      *Dataset
	Proof        *Proof
	Transactions []*TransactionRecord
}

// GenerateRequest is a complete description of one generation run. Columns
// with an empty type are classified by name. When no columns are given the
// headers are classified, and when there are no headers either the demo
// schema is used.
type GenerateRequest struct {
	DatasetID         uuid.UUID      `json:"datasetId"`
	UserAddress       string         `json:"userAddress"`
	Headers           []string       `json:"headers"`
	Columns           []synth.Column `json:"columns"`
	HideSensitive     bool           `json:"hideSensitive"`
	PrivacySafeRanges bool           `json:"privacySafeRanges"`
	SyntheticRows     int            `json:"syntheticRows"`
	OutputFormat      OutputFormat   `json:"outputFormat"`
	QualityMode       QualityMode    `json:"qualityMode"`
	OriginalDataHash  string         `json:"originalDataHash"`
}

var errNilDatasetID = errors.New("is required")

func (r GenerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DatasetID, validation.By(func(value interface{}) error {
			if value.(uuid.UUID) == uuid.Nil {
				return errNilDatasetID
			}

			return nil
		})),
		validation.Field(&r.SyntheticRows, validation.Required, validation.Min(1), validation.Max(MaxSyntheticRows)),
		validation.Field(&r.OutputFormat, validation.In(OutputFormatCSV, OutputFormatJSON)),
		validation.Field(&r.QualityMode, validation.Length(0, 32)),
		validation.Field(&r.Columns, validation.Each(validation.By(validColumn)), validation.By(uniqueColumnNames)),
		validation.Field(&r.Headers, validation.By(uniqueHeaders)),
		validation.Field(&r.UserAddress, validation.Length(0, 128)),
	)
}

func validColumn(value interface{}) error {
	col, ok := value.(synth.Column)
	if !ok {
		return fmt.Errorf("unexpected column value %T", value)
	}

	if col.Name == "" {
		return errors.New("column name is required")
	}

	if col.Kind != "" && !col.Kind.Valid() {
		return fmt.Errorf("column %q has unknown type %q", col.Name, col.Kind)
	}

	return nil
}

// uniqueColumnNames rejects schemas where two columns would share one key in
// the synthesized table.
func uniqueColumnNames(value interface{}) error {
	cols, _ := value.([]synth.Column)

	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if seen[col.Name] {
			return fmt.Errorf("duplicate column %q", col.Name)
		}

		seen[col.Name] = true
	}

	return nil
}

func uniqueHeaders(value interface{}) error {
	headers, _ := value.([]string)

	seen := make(map[string]bool, len(headers))
	for _, header := range headers {
		name := synth.NormalizeName(header)
		if name == "" {
			continue
		}

		if seen[name] {
			return fmt.Errorf("duplicate header %q", header)
		}

		seen[name] = true
	}

	return nil
}

type PartialFailure struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type GenerateResult struct {
	GenerationID      uuid.UUID        `json:"generationId"`
	SyntheticData     synth.Table      `json:"syntheticData"`
	QualityScore      int              `json:"qualityScore"`
	AleoTxID          string           `json:"aleoTxId"`
	ProofHash         string           `json:"proofHash"`
	SynthCommitment   string           `json:"synthCommitment"`
	DatasetCommitment string           `json:"datasetCommitment"`
	ColumnsIncluded   int              `json:"columnsIncluded"`
	SensitiveRemoved  int              `json:"sensitiveRemoved"`
	PartialFailures   []PartialFailure `json:"partialFailures"`
}

type SyntheticData struct {
	Format      OutputFormat
	ContentType string
	Filename    string
	Content     []byte
}
