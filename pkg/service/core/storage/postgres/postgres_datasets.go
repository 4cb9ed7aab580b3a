package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
)

type DatasetQueries interface {
	CreateDataset(ctx context.Context, arg gensql.CreateDatasetParams) (gensql.Dataset, error)
	GetDataset(ctx context.Context, id uuid.UUID) (gensql.Dataset, error)
	UpdateDatasetStatus(ctx context.Context, arg gensql.UpdateDatasetStatusParams) (int64, error)
}

var _ service.DatasetStorage = &datasetStorage{}

type datasetStorage struct {
	queries DatasetQueries
}

type Dataset gensql.Dataset

func (d Dataset) To() (*service.Dataset, error) {
	return &service.Dataset{
		ID:                 d.ID,
		UserAddress:        d.UserAddress,
		OriginalCommitment: d.OriginalCommitment,
		Filename:           d.Filename,
		ColumnCount:        int(d.ColumnCount),
		RowCount:           int(d.RowCount),
		DatasetType:        d.DatasetType,
		Status:             service.DatasetStatus(d.Status),
		Created:            d.Created,
		LastModified:       d.LastModified,
	}, nil
}

func (s *datasetStorage) CreateDataset(ctx context.Context, ds service.NewDataset) (*service.Dataset, error) {
	const op errs.Op = "datasetStorage.CreateDataset"

	raw, err := s.queries.CreateDataset(ctx, gensql.CreateDatasetParams{
		UserAddress:        ds.UserAddress,
		OriginalCommitment: ds.OriginalCommitment,
		Filename:           ds.Filename,
		ColumnCount:        int32(ds.ColumnCount),
		RowCount:           int32(ds.RowCount),
		DatasetType:        ds.DatasetType,
	})
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return From(Dataset(raw))
}

func (s *datasetStorage) GetDataset(ctx context.Context, id uuid.UUID) (*service.Dataset, error) {
	const op errs.Op = "datasetStorage.GetDataset"

	raw, err := s.queries.GetDataset(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.NotExist, op, errs.Parameter("dataset_id"), err)
		}

		return nil, errs.E(errs.Database, op, err)
	}

	return From(Dataset(raw))
}

func (s *datasetStorage) UpdateDatasetStatus(ctx context.Context, id uuid.UUID, status service.DatasetStatus) error {
	const op errs.Op = "datasetStorage.UpdateDatasetStatus"

	dbStatus := gensql.DatasetStatus(status)
	if !dbStatus.Valid() {
		return errs.E(errs.Invalid, op, errs.Parameter("status"), fmt.Errorf("unknown dataset status %q", status))
	}

	n, err := s.queries.UpdateDatasetStatus(ctx, gensql.UpdateDatasetStatusParams{
		Status: dbStatus,
		ID:     id,
	})
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	if n == 0 {
		return errs.E(errs.NotExist, op, errs.Parameter("dataset_id"), sql.ErrNoRows)
	}

	return nil
}

func NewDatasetStorage(queries DatasetQueries) *datasetStorage {
	return &datasetStorage{
		queries: queries,
	}
}
