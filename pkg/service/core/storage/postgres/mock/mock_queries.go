package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/database"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/navikt/synthproof/pkg/service/core/storage/postgres"
	"github.com/stretchr/testify/mock"
)

var (
	_ postgres.DatasetQueries     = &QueriesMock{}
	_ postgres.GenerationQueries  = &QueriesMock{}
	_ postgres.ProofQueries       = &QueriesMock{}
	_ postgres.TransactionQueries = &QueriesMock{}

	_ database.Transacter = &TransacterMock{}
)

// TransacterMock stands in for the *sql.Tx handed out by a WithTx function.
type TransacterMock struct {
	mock.Mock
}

func (m *TransacterMock) Commit() error {
	return m.Called().Error(0)
}

func (m *TransacterMock) Rollback() error {
	return m.Called().Error(0)
}

// QueriesMock implements every query set used by the postgres storages.
type QueriesMock struct {
	mock.Mock
}

func ProofQueriesWithTxFn(m *QueriesMock, t database.Transacter, err error) postgres.ProofQueriesWithTxFn {
	return func() (postgres.ProofQueries, database.Transacter, error) {
		return m, t, err
	}
}

func (m *QueriesMock) CreateDataset(ctx context.Context, arg gensql.CreateDatasetParams) (gensql.Dataset, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(gensql.Dataset), args.Error(1)
}

func (m *QueriesMock) GetDataset(ctx context.Context, id uuid.UUID) (gensql.Dataset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(gensql.Dataset), args.Error(1)
}

func (m *QueriesMock) UpdateDatasetStatus(ctx context.Context, arg gensql.UpdateDatasetStatusParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QueriesMock) CreateGeneration(ctx context.Context, arg gensql.CreateGenerationParams) (gensql.SyntheticGeneration, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(gensql.SyntheticGeneration), args.Error(1)
}

func (m *QueriesMock) GetGeneration(ctx context.Context, id uuid.UUID) (gensql.SyntheticGeneration, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(gensql.SyntheticGeneration), args.Error(1)
}

func (m *QueriesMock) MarkGenerationVerified(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QueriesMock) CreateProof(ctx context.Context, arg gensql.CreateProofParams) (gensql.Proof, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(gensql.Proof), args.Error(1)
}

func (m *QueriesMock) GetProofByGeneration(ctx context.Context, generationID uuid.UUID) (gensql.Proof, error) {
	args := m.Called(ctx, generationID)
	return args.Get(0).(gensql.Proof), args.Error(1)
}

func (m *QueriesMock) MarkProofVerified(ctx context.Context, arg gensql.MarkProofVerifiedParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QueriesMock) AppendTransaction(ctx context.Context, arg gensql.AppendTransactionParams) (gensql.LedgerTransaction, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(gensql.LedgerTransaction), args.Error(1)
}

func (m *QueriesMock) ListTransactionsForGeneration(ctx context.Context, generationID uuid.NullUUID) ([]gensql.LedgerTransaction, error) {
	args := m.Called(ctx, generationID)
	return args.Get(0).([]gensql.LedgerTransaction), args.Error(1)
}
