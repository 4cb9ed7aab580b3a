package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/storage/postgres"
	"github.com/navikt/synthproof/pkg/service/core/storage/postgres/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetStorage_GetDataset(t *testing.T) {
	testCases := []struct {
		name          string
		mockReturn    gensql.Dataset
		mockReturnErr error
		expect        *service.Dataset
		expectErr     error
	}{
		{
			name: "Happy path",
			mockReturn: gensql.Dataset{
				ID:                 datasetID,
				UserAddress:        "demo_1",
				OriginalCommitment: "aleo1dataset01",
				Filename:           "customers.csv",
				ColumnCount:        4,
				RowCount:           1200,
				DatasetType:        "tabular",
				Status:             gensql.DatasetStatusRegistered,
			},
			expect: &service.Dataset{
				ID:                 datasetID,
				UserAddress:        "demo_1",
				OriginalCommitment: "aleo1dataset01",
				Filename:           "customers.csv",
				ColumnCount:        4,
				RowCount:           1200,
				DatasetType:        "tabular",
				Status:             service.DatasetStatusRegistered,
			},
		},
		{
			name:          "Not found",
			mockReturnErr: sql.ErrNoRows,
			expectErr:     errs.E(errs.NotExist, errs.Op("datasetStorage.GetDataset"), errs.Parameter("dataset_id"), sql.ErrNoRows),
		},
		{
			name:          "Database error",
			mockReturnErr: fmt.Errorf("connection reset"),
			expectErr:     errs.E(errs.Database, errs.Op("datasetStorage.GetDataset"), fmt.Errorf("connection reset")),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			queries := new(mock.QueriesMock)
			queries.On("GetDataset", ctx, datasetID).Return(tc.mockReturn, tc.mockReturnErr)

			got, err := postgres.NewDatasetStorage(queries).GetDataset(ctx, datasetID)

			assert.Equal(t, tc.expectErr, err)
			if tc.expectErr == nil {
				assert.Equal(t, tc.expect, got)
			}

			queries.AssertExpectations(t)
		})
	}
}

func TestDatasetStorage_UpdateDatasetStatus(t *testing.T) {
	ctx := context.Background()
	missing := uuid.MustParse("9F2A4C1E-6B1D-4E0F-8A3B-2C4D5E6F7A8B")

	queries := new(mock.QueriesMock)
	queries.On("UpdateDatasetStatus", ctx, gensql.UpdateDatasetStatusParams{Status: gensql.DatasetStatusGenerated, ID: datasetID}).Return(int64(1), nil)
	queries.On("UpdateDatasetStatus", ctx, gensql.UpdateDatasetStatusParams{Status: gensql.DatasetStatusGenerated, ID: missing}).Return(int64(0), nil)

	storage := postgres.NewDatasetStorage(queries)

	require.NoError(t, storage.UpdateDatasetStatus(ctx, datasetID, service.DatasetStatusGenerated))

	err := storage.UpdateDatasetStatus(ctx, missing, service.DatasetStatusGenerated)
	assert.True(t, errs.KindIs(errs.NotExist, err))

	err = storage.UpdateDatasetStatus(ctx, datasetID, service.DatasetStatus("archived"))
	assert.True(t, errs.KindIs(errs.Invalid, err))

	queries.AssertExpectations(t)
}
