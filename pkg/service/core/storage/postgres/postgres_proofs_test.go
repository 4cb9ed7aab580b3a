package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/storage/postgres"
	"github.com/navikt/synthproof/pkg/service/core/storage/postgres/mock"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	proofID      = uuid.MustParse("14726B25-FACE-47C7-AC55-782799362E58")
	generationID = uuid.MustParse("5D1C0A88-32C1-4F57-9C79-1E7C4A04B0A2")
	datasetID    = uuid.MustParse("0B8E3D55-3F0B-4E45-9E4B-6C0E7C9A2D11")
)

func TestProofStorage_MarkProofVerified(t *testing.T) {
	testCases := []struct {
		name          string
		txErr         error
		proofRows     int64
		proofErr      error
		generationErr error
		commit        bool
		expectKind    errs.Kind
	}{
		{
			name:      "Happy path",
			proofRows: 1,
			commit:    true,
		},
		{
			name:       "Begin fails",
			txErr:      fmt.Errorf("connection refused"),
			expectKind: errs.Database,
		},
		{
			name:       "Unknown proof",
			proofRows:  0,
			expectKind: errs.NotExist,
		},
		{
			name:          "Generation update fails",
			proofRows:     1,
			generationErr: fmt.Errorf("deadlock detected"),
			expectKind:    errs.Database,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			queries := new(mock.QueriesMock)
			transacter := new(mock.TransacterMock)

			if tc.txErr == nil {
				transacter.On("Rollback").Return(nil)
				queries.On("MarkProofVerified", ctx, gensql.MarkProofVerifiedParams{ID: proofID, GenerationID: generationID}).Return(tc.proofRows, tc.proofErr)
			}

			if tc.proofRows > 0 {
				queries.On("MarkGenerationVerified", ctx, generationID).Return(int64(1), tc.generationErr)
			}

			if tc.commit {
				transacter.On("Commit").Return(nil)
			}

			storage := postgres.NewProofStorage(queries, mock.ProofQueriesWithTxFn(queries, transacter, tc.txErr))
			err := storage.MarkProofVerified(ctx, proofID, generationID)

			if tc.expectKind != errs.Other {
				require.Error(t, err)
				assert.True(t, errs.KindIs(tc.expectKind, err), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			queries.AssertExpectations(t)
			transacter.AssertExpectations(t)
		})
	}
}

func TestProofStorage_GetProofByGeneration(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	queries := new(mock.QueriesMock)
	queries.On("GetProofByGeneration", ctx, generationID).Return(gensql.Proof{
		ID:                proofID,
		GenerationID:      generationID,
		UserAddress:       "demo_1",
		DatasetCommitment: "aleo1dataset01",
		SynthCommitment:   "aleo1commitment02",
		ParamsHash:        "aleo1commitment03",
		ProofHash:         "proof104",
		QualityScore:      97,
		ReceiptData: pqtype.NullRawMessage{
			RawMessage: []byte(`{"dataset_id":"0b8e3d55-3f0b-4e45-9e4b-6c0e7c9a2d11","timestamp":"2026-05-01T12:00:00Z","params":{"rows":5,"format":"csv","quality":"high"},"aleo_network":"testnet","program_id":"aleosynth.aleo"}`),
			Valid:      true,
		},
		Created: created,
	}, nil).Once()
	queries.On("GetProofByGeneration", ctx, datasetID).Return(gensql.Proof{}, sql.ErrNoRows).Once()

	storage := postgres.NewProofStorage(queries, nil)

	got, err := storage.GetProofByGeneration(ctx, generationID)
	require.NoError(t, err)
	assert.Equal(t, &service.Proof{
		ID:                proofID,
		GenerationID:      generationID,
		UserAddress:       "demo_1",
		DatasetCommitment: "aleo1dataset01",
		SynthCommitment:   "aleo1commitment02",
		ParamsHash:        "aleo1commitment03",
		ProofHash:         "proof104",
		QualityScore:      97,
		ReceiptData: &service.ReceiptData{
			DatasetID:   datasetID,
			Timestamp:   created,
			Params:      service.ProofParams{Rows: 5, Format: service.OutputFormatCSV, Quality: service.QualityModeHigh},
			AleoNetwork: "testnet",
			ProgramID:   "aleosynth.aleo",
		},
		Created: created,
	}, got)

	_, err = storage.GetProofByGeneration(ctx, datasetID)
	assert.True(t, errs.KindIs(errs.NotExist, err))
	assert.ErrorIs(t, err, sql.ErrNoRows)

	queries.AssertExpectations(t)
}
