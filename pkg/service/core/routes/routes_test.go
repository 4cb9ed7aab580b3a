package routes_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/goccy/go-json"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core"
	"github.com/navikt/synthproof/pkg/service/core/handlers"
	"github.com/navikt/synthproof/pkg/service/core/routes"
	"github.com/navikt/synthproof/pkg/service/core/storage"
	"github.com/navikt/synthproof/pkg/service/core/storage/inmem"
	"github.com/navikt/synthproof/pkg/signer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("connection refused")
}

func newServer(t *testing.T, pinger routes.Pinger) *httptest.Server {
	t.Helper()

	log := zerolog.Nop()

	s, err := signer.Generate(rand.Reader)
	require.NoError(t, err)

	engine := commitment.New()
	metrics := core.NewMetrics()

	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.Collectors()...)

	services := core.NewServices(
		storage.NewInMemoryStores(inmem.New()),
		engine,
		ledger.New(engine.Digester()),
		s,
		metrics,
		core.Options{},
		log,
	)

	h := handlers.NewHandlers(services)

	router := chi.NewRouter()
	routes.Add(router,
		routes.NewDatasetRoutes(routes.NewDatasetEndpoints(log, h.DatasetHandler)),
		routes.NewGenerationRoutes(routes.NewGenerationEndpoints(log, h)),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(reg)),
		routes.NewHealthRoutes(routes.NewHealthEndpoints(log, pinger)),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func do(t *testing.T, method, url string, body any, into any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}

	return resp
}

func TestPipelineOverHTTP(t *testing.T) {
	server := newServer(t, nil)

	var columns []map[string]any
	resp := do(t, http.MethodPost, server.URL+"/api/columns/classify", service.ClassifyColumnsDto{
		Headers: []string{"email", "age"},
	}, &columns)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, columns, 2)
	assert.Equal(t, "sensitive", columns[0]["type"])

	reg := &service.RegisteredDataset{}
	resp = do(t, http.MethodPost, server.URL+"/api/datasets", service.RegisterDatasetDto{
		Filename:     "people.csv",
		OriginalHash: "abc123",
		ColumnCount:  2,
		RowCount:     10,
	}, reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, strings.HasPrefix(reg.Commitment, "aleo1dataset"))

	ds := &service.Dataset{}
	resp = do(t, http.MethodGet, server.URL+"/api/datasets/"+reg.DatasetID.String(), nil, ds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "people.csv", ds.Filename)

	att := &service.Attestation{}
	resp = do(t, http.MethodPost, server.URL+"/api/datasets/"+reg.DatasetID.String()+"/attest", nil, att)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AleoSynth Dataset Registration: "+reg.Commitment, att.Message)

	gen := &service.GenerateResult{}
	resp = do(t, http.MethodPost, server.URL+"/api/generations", map[string]any{
		"datasetId":         reg.DatasetID,
		"columns":           []map[string]any{{"name": "email", "type": "sensitive", "selected": true}, {"name": "age", "type": "numeric", "selected": true}},
		"hideSensitive":     true,
		"privacySafeRanges": true,
		"syntheticRows":     5,
		"qualityMode":       "high",
	}, gen)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, gen.ColumnsIncluded)
	assert.Equal(t, 1, gen.SensitiveRemoved)
	assert.NotNil(t, gen.PartialFailures)

	genURL := server.URL + "/api/generations/" + gen.GenerationID.String()

	resp = do(t, http.MethodGet, genURL+"/data?format=csv", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "age\n"))

	verified := &service.VerificationResult{}
	resp = do(t, http.MethodPost, genURL+"/verify", service.VerifyDto{SynthCommitment: gen.SynthCommitment}, verified)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, verified.Verified)
	require.NotNil(t, verified.VerificationTxID)

	exported := &service.ExportedReceipt{}
	resp = do(t, http.MethodPost, genURL+"/receipt", nil, exported)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="people-receipt-`+gen.GenerationID.String()[:8]+`.json"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, exported.Receipt.PrivacyProof.AleoVerified)
	assert.Len(t, exported.Receipt.Transactions, 2)

	resp = do(t, http.MethodGet, server.URL+"/internal/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "synthproof_receipt_exports_total 1")
}

func TestErrorResponses(t *testing.T) {
	server := newServer(t, nil)

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{
			name:   "malformed id",
			method: http.MethodGet,
			path:   "/api/generations/not-a-uuid",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown generation",
			method: http.MethodGet,
			path:   "/api/generations/6f1f3a4e-4a52-4a0e-9d4b-0f5e6a2b1c3d",
			status: http.StatusNotFound,
		},
		{
			name:   "verify without commitment",
			method: http.MethodPost,
			path:   "/api/generations/6f1f3a4e-4a52-4a0e-9d4b-0f5e6a2b1c3d/verify",
			body:   map[string]any{},
			status: http.StatusBadRequest,
		},
		{
			name:   "zero rows",
			method: http.MethodPost,
			path:   "/api/generations",
			body:   map[string]any{"datasetId": "6f1f3a4e-4a52-4a0e-9d4b-0f5e6a2b1c3d", "syntheticRows": 0},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown dataset",
			method: http.MethodPost,
			path:   "/api/generations",
			body:   map[string]any{"datasetId": "6f1f3a4e-4a52-4a0e-9d4b-0f5e6a2b1c3d", "syntheticRows": 5},
			status: http.StatusNotFound,
		},
		{
			name:   "export unknown generation",
			method: http.MethodPost,
			path:   "/api/generations/6f1f3a4e-4a52-4a0e-9d4b-0f5e6a2b1c3d/receipt",
			status: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, tc.method, server.URL+tc.path, tc.body, nil)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestHealthRoutes(t *testing.T) {
	resp := do(t, http.MethodGet, newServer(t, nil).URL+"/internal/isalive", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, newServer(t, failingPinger{}).URL+"/internal/isready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPrint(t *testing.T) {
	router := chi.NewRouter()
	routes.Add(router, routes.NewHealthRoutes(routes.NewHealthEndpoints(zerolog.Nop(), nil)))

	var buf bytes.Buffer
	require.NoError(t, routes.Print(router, &buf))

	out := buf.String()
	assert.Contains(t, out, "Method")
	assert.Contains(t, out, "/internal/isalive")
	assert.Contains(t, out, "/internal/isready")
	assert.Contains(t, out, "2 routes")
}
