package inmem_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeneration(t *testing.T, s *inmem.Store) (*service.Dataset, *service.Generation) {
	t.Helper()

	ctx := context.Background()

	ds, err := s.CreateDataset(ctx, service.NewDataset{
		OriginalCommitment: "aleo1datasetabc",
		Filename:           "people.csv",
		DatasetType:        service.DefaultDatasetType,
	})
	require.NoError(t, err)

	gen, err := s.CreateGeneration(ctx, service.NewGeneration{
		DatasetID:       ds.ID,
		SynthCommitment: "aleo1commitmentabc",
		RowsGenerated:   3,
	})
	require.NoError(t, err)

	return ds, gen
}

func TestStoreDatasets(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s := inmem.New(inmem.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	ds, err := s.CreateDataset(ctx, service.NewDataset{Filename: "a.csv"})
	require.NoError(t, err)
	assert.Equal(t, service.DatasetStatusRegistered, ds.Status)
	assert.Equal(t, now, ds.Created)

	require.NoError(t, s.UpdateDatasetStatus(ctx, ds.ID, service.DatasetStatusGenerated))

	got, err := s.GetDataset(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, service.DatasetStatusGenerated, got.Status)

	_, err = s.GetDataset(ctx, uuid.New())
	assert.True(t, errs.KindIs(errs.NotExist, err))

	err = s.UpdateDatasetStatus(ctx, uuid.New(), service.DatasetStatusGenerated)
	assert.True(t, errs.KindIs(errs.NotExist, err))
}

func TestStoreGenerationRequiresDataset(t *testing.T) {
	s := inmem.New()

	_, err := s.CreateGeneration(context.Background(), service.NewGeneration{DatasetID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.Database, err))
}

func TestStoreProofs(t *testing.T) {
	s := inmem.New()
	ctx := context.Background()
	_, gen := newGeneration(t, s)

	_, err := s.GetProofByGeneration(ctx, gen.ID)
	assert.True(t, errs.KindIs(errs.NotExist, err))

	proof, err := s.CreateProof(ctx, service.NewProof{GenerationID: gen.ID, SynthCommitment: gen.SynthCommitment})
	require.NoError(t, err)
	assert.False(t, proof.Verified)

	_, err = s.CreateProof(ctx, service.NewProof{GenerationID: gen.ID})
	assert.True(t, errs.KindIs(errs.Exist, err))

	err = s.MarkProofVerified(ctx, proof.ID, uuid.New())
	assert.True(t, errs.KindIs(errs.NotExist, err))

	require.NoError(t, s.MarkProofVerified(ctx, proof.ID, gen.ID))

	got, err := s.GetProofByGeneration(ctx, gen.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)

	g, err := s.GetGeneration(ctx, gen.ID)
	require.NoError(t, err)
	assert.True(t, g.Verified)
}

func TestStoreGenerationWithJoins(t *testing.T) {
	s := inmem.New()
	ctx := context.Background()
	ds, gen := newGeneration(t, s)

	_, err := s.AppendTransaction(ctx, service.NewTransaction{
		DatasetID: &ds.ID,
		Record:    ledger.Record{TxID: "at1reg01", Type: ledger.TxTypeRegister},
	})
	require.NoError(t, err)

	for _, tx := range []ledger.Record{
		{TxID: "at1gen", Type: ledger.TxTypeGenerate},
		{TxID: "at1verify01", Type: ledger.TxTypeVerify},
	} {
		_, err := s.AppendTransaction(ctx, service.NewTransaction{
			DatasetID:    &ds.ID,
			GenerationID: &gen.ID,
			Record:       tx,
		})
		require.NoError(t, err)
	}

	joined, err := s.GetGenerationWithJoins(ctx, gen.ID)
	require.NoError(t, err)

	assert.Equal(t, gen.ID, joined.Generation.ID)
	assert.Equal(t, ds.ID, joined.Dataset.ID)
	assert.Nil(t, joined.Proof)
	require.Len(t, joined.Transactions, 2)
	assert.Equal(t, "at1gen", joined.Transactions[0].TxID)
	assert.Equal(t, "at1verify01", joined.Transactions[1].TxID)

	_, err = s.CreateProof(ctx, service.NewProof{GenerationID: gen.ID})
	require.NoError(t, err)

	joined, err = s.GetGenerationWithJoins(ctx, gen.ID)
	require.NoError(t, err)
	assert.NotNil(t, joined.Proof)

	assert.Len(t, s.Transactions(), 3)

	_, err = s.GetGenerationWithJoins(ctx, uuid.New())
	assert.True(t, errs.KindIs(errs.NotExist, err))
}

func TestStoreConcurrentAppends(t *testing.T) {
	s := inmem.New()
	ctx := context.Background()
	_, gen := newGeneration(t, s)

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.AppendTransaction(ctx, service.NewTransaction{
				GenerationID: &gen.ID,
				Record:       ledger.Record{Type: ledger.TxTypeVerify},
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	txs, err := s.ListTransactionsForGeneration(ctx, gen.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 20)
}
