package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core"
	"github.com/navikt/synthproof/pkg/service/core/storage"
	"github.com/navikt/synthproof/pkg/service/core/storage/inmem"
	"github.com/navikt/synthproof/pkg/synth"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStorageDown = errors.New("storage is down")

type failingGenerations struct {
	*inmem.Store
}

func (failingGenerations) CreateGeneration(context.Context, service.NewGeneration) (*service.Generation, error) {
	return nil, errs.E(errs.Database, errs.Op("test.CreateGeneration"), errStorageDown)
}

type failingProofs struct {
	*inmem.Store
}

func (failingProofs) CreateProof(context.Context, service.NewProof) (*service.Proof, error) {
	return nil, errs.E(errs.Database, errs.Op("test.CreateProof"), errStorageDown)
}

type failingDatasetStatus struct {
	*inmem.Store
}

func (failingDatasetStatus) UpdateDatasetStatus(context.Context, uuid.UUID, service.DatasetStatus) error {
	return errs.E(errs.Database, errs.Op("test.UpdateDatasetStatus"), errStorageDown)
}

func TestGenerateEmailAgeExample(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t)

	res, err := f.services.GenerationService.Generate(context.Background(), emailAgeRequest(reg.DatasetID))
	require.NoError(t, err)

	assert.Equal(t, 1, res.ColumnsIncluded)
	assert.Equal(t, 1, res.SensitiveRemoved)
	assert.Equal(t, []string{"age"}, res.SyntheticData.Columns())
	require.Len(t, res.SyntheticData["age"], 5)

	for _, v := range res.SyntheticData["age"] {
		assert.False(t, v.IsNumeric())
		assertBucketLabel(t, v.String())
	}

	assert.GreaterOrEqual(t, res.QualityScore, 95)
	assert.Less(t, res.QualityScore, 100)

	assert.Equal(t, reg.Commitment, res.DatasetCommitment)
	assert.True(t, strings.HasPrefix(res.SynthCommitment, "aleo1commitment"))
	assert.True(t, strings.HasPrefix(res.ProofHash, "proof1"))
	assert.Regexp(t, `^at1[0-9a-f]+$`, res.AleoTxID)
	assert.Empty(t, res.PartialFailures)

	want, err := commitment.New().SynthCommitment(res.SyntheticData)
	require.NoError(t, err)
	assert.Equal(t, want, res.SynthCommitment)

	gen, err := f.services.GenerationService.GetGeneration(context.Background(), res.GenerationID)
	require.NoError(t, err)
	assert.Equal(t, "aleo1user", gen.UserAddress)
	assert.True(t, gen.PrivacyVerified)
	assert.True(t, gen.SynthReady)
	assert.False(t, gen.Verified)

	proof, err := f.stores.ProofStorage.GetProofByGeneration(context.Background(), res.GenerationID)
	require.NoError(t, err)
	assert.Equal(t, res.SynthCommitment, proof.SynthCommitment)
	assert.Equal(t, reg.Commitment, proof.DatasetCommitment)
	assert.False(t, proof.Verified)
	require.NotNil(t, proof.ReceiptData)
	assert.Equal(t, reg.DatasetID, proof.ReceiptData.DatasetID)
	assert.Equal(t, service.ProofParams{Rows: 5, Format: service.OutputFormatCSV, Quality: service.QualityModeHigh}, proof.ReceiptData.Params)
	assert.Equal(t, ledger.DefaultNetwork, proof.ReceiptData.AleoNetwork)

	txs := f.transactionsOfType(ledger.TxTypeGenerate)
	require.Len(t, txs, 1)
	assert.Equal(t, res.AleoTxID, txs[0].TxID)
	assert.Equal(t, "generate_synth", txs[0].FunctionName)
	assert.Equal(t, res.SynthCommitment, txs[0].Outputs["synth_commitment"])

	ds, err := f.services.DatasetService.GetDataset(context.Background(), reg.DatasetID)
	require.NoError(t, err)
	assert.Equal(t, service.DatasetStatusGenerated, ds.Status)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Generations.WithLabelValues(string(core.StagePersisted))))
}

func TestGenerateRowCounts(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t)

	for _, rows := range []int{1, 7, 250} {
		req := service.GenerateRequest{
			DatasetID:     reg.DatasetID,
			Headers:       []string{"name", "salary", "department"},
			SyntheticRows: rows,
		}

		res, err := f.services.GenerationService.Generate(context.Background(), req)
		require.NoError(t, err)

		n, err := res.SyntheticData.Rows()
		require.NoError(t, err)
		assert.Equal(t, rows, n)
		assert.Equal(t, 3, res.ColumnsIncluded)
		assert.Equal(t, 0, res.SensitiveRemoved)
	}
}

func TestGenerateDefaultsAndFallback(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t)

	res, err := f.services.GenerationService.Generate(context.Background(), service.GenerateRequest{
		DatasetID:     reg.DatasetID,
		SyntheticRows: 3,
	})
	require.NoError(t, err)

	gen, err := f.services.GenerationService.GetGeneration(context.Background(), res.GenerationID)
	require.NoError(t, err)

	assert.Equal(t, service.OutputFormatCSV, gen.OutputFormat)
	assert.Equal(t, service.QualityModeBalanced, gen.QualityMode)
	assert.GreaterOrEqual(t, res.QualityScore, 88)
	assert.Less(t, res.QualityScore, 93)
	assert.ElementsMatch(t,
		[]string{"age", "country", "department", "email", "name", "phone", "salary"},
		res.SyntheticData.Columns(),
	)
}

func TestGenerateClassifiesUntypedColumns(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t)

	req := emailAgeRequest(reg.DatasetID)
	req.Columns = []synth.Column{
		{Name: "email", Selected: true},
		{Name: "age", Selected: true},
	}

	res, err := f.services.GenerationService.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SensitiveRemoved)
	assert.Equal(t, []string{"age"}, res.SyntheticData.Columns())
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*service.GenerateRequest)
	}{
		{
			name:   "zero rows",
			mutate: func(r *service.GenerateRequest) { r.SyntheticRows = 0 },
		},
		{
			name:   "too many rows",
			mutate: func(r *service.GenerateRequest) { r.SyntheticRows = service.MaxSyntheticRows + 1 },
		},
		{
			name:   "unknown output format",
			mutate: func(r *service.GenerateRequest) { r.OutputFormat = "xml" },
		},
		{
			name:   "unknown column type",
			mutate: func(r *service.GenerateRequest) { r.Columns[0].Kind = "secret" },
		},
		{
			name: "duplicate column",
			mutate: func(r *service.GenerateRequest) {
				r.Columns = append(r.Columns, synth.Column{Name: "age", Kind: synth.Numeric, Selected: true})
			},
		},
		{
			name: "headers that normalize to the same name",
			mutate: func(r *service.GenerateRequest) {
				r.Columns = nil
				r.Headers = []string{"Age", " age ", "city"}
			},
		},
		{
			name:   "nil dataset",
			mutate: func(r *service.GenerateRequest) { r.DatasetID = uuid.Nil },
		},
		{
			name:   "original hash mismatch",
			mutate: func(r *service.GenerateRequest) { r.OriginalDataHash = "deadbeef" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			reg := f.register(t)

			req := emailAgeRequest(reg.DatasetID)
			tc.mutate(&req)

			_, err := f.services.GenerationService.Generate(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errs.KindIs(errs.Validation, err), "got %v", err)
			assert.Empty(t, f.transactionsOfType(ledger.TxTypeGenerate))
		})
	}
}

func TestGenerateMatchingOriginalHash(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t)

	req := emailAgeRequest(reg.DatasetID)
	req.OriginalDataHash = "c0ffee"

	_, err := f.services.GenerationService.Generate(context.Background(), req)
	require.NoError(t, err)
}

func TestGenerateUnknownDataset(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.services.GenerationService.Generate(context.Background(), emailAgeRequest(uuid.New()))
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.NotExist, err))
}

func TestGeneratePrimaryInsertFailureWritesNothing(t *testing.T) {
	f := newFixture(t, func(s *storage.Stores) {
		s.GenerationStorage = failingGenerations{s.DatasetStorage.(*inmem.Store)}
	})
	reg := f.register(t)

	_, err := f.services.GenerationService.Generate(context.Background(), emailAgeRequest(reg.DatasetID))
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.Database, err))
	assert.ErrorIs(t, err, errStorageDown)
	assert.Contains(t, errs.OpStack(err), "generationService.Generate."+string(core.StagePersisting))
	assert.NotContains(t, errs.OpStack(err), "generationService.Generate."+string(core.StagePersisted))

	assert.Len(t, f.store.Transactions(), 1, "only the registration is recorded")

	ds, err := f.services.DatasetService.GetDataset(context.Background(), reg.DatasetID)
	require.NoError(t, err)
	assert.Equal(t, service.DatasetStatusRegistered, ds.Status)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Generations.WithLabelValues(string(core.StageFailed))))
}

func TestGenerateSurfacesPartialFailures(t *testing.T) {
	f := newFixture(t, func(s *storage.Stores) {
		store := s.DatasetStorage.(*inmem.Store)
		s.ProofStorage = failingProofs{store}
		s.DatasetStorage = failingDatasetStatus{store}
	})
	reg := f.register(t)

	res, err := f.services.GenerationService.Generate(context.Background(), emailAgeRequest(reg.DatasetID))
	require.NoError(t, err)

	require.Len(t, res.PartialFailures, 2)
	assert.Equal(t, core.StageStoreProof, res.PartialFailures[0].Stage)
	assert.Contains(t, res.PartialFailures[0].Error, errStorageDown.Error())
	assert.Equal(t, core.StageUpdateDataset, res.PartialFailures[1].Stage)

	_, err = f.services.GenerationService.GetGeneration(context.Background(), res.GenerationID)
	require.NoError(t, err)
	assert.Len(t, f.transactionsOfType(ledger.TxTypeGenerate), 1)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PartialFailures.WithLabelValues(core.StageStoreProof)))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PartialFailures.WithLabelValues(core.StageUpdateDataset)))
}

func TestGetSyntheticData(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t)

	res, err := f.services.GenerationService.Generate(context.Background(), emailAgeRequest(reg.DatasetID))
	require.NoError(t, err)

	data, err := f.services.GenerationService.GetSyntheticData(context.Background(), res.GenerationID, "")
	require.NoError(t, err)
	assert.Equal(t, service.OutputFormatCSV, data.Format)
	assert.Equal(t, "text/csv", data.ContentType)
	assert.True(t, strings.HasSuffix(data.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(data.Content)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "age", lines[0])

	data, err = f.services.GenerationService.GetSyntheticData(context.Background(), res.GenerationID, service.OutputFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", data.ContentType)

	var table synth.Table
	require.NoError(t, json.Unmarshal(data.Content, &table))
	assert.Equal(t, res.SyntheticData, table)

	_, err = f.services.GenerationService.GetSyntheticData(context.Background(), res.GenerationID, "xml")
	assert.True(t, errs.KindIs(errs.Validation, err))

	_, err = f.services.GenerationService.GetSyntheticData(context.Background(), uuid.New(), "")
	assert.True(t, errs.KindIs(errs.NotExist, err))
}
