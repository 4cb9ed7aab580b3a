//go:build integration_test

package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/ory/dockertest/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbString string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	resource, err := pool.Run("postgres", "16", []string{"POSTGRES_PASSWORD=postgres", "POSTGRES_DB=synthproof"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	// the container might not accept connections yet
	if err := pool.Retry(func() error {
		dbString = "user=postgres dbname=synthproof sslmode=disable password=postgres host=localhost port=" + resource.GetPort("5432/tcp")

		db, err := sql.Open("postgres", dbString)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Ping()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	code := m.Run()

	// You can't defer this because os.Exit doesn't care for defer
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}

	os.Exit(code)
}

func newRepo(t *testing.T, reg prometheus.Registerer) *Repo {
	t.Helper()

	repo, err := New(dbString, Options{MaxIdleConn: 1, MaxOpenConn: 2, Registerer: reg}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestRepo(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	repo := newRepo(t, reg)

	require.NoError(t, repo.Ping(ctx))

	ds, err := repo.Querier.CreateDataset(ctx, gensql.CreateDatasetParams{
		OriginalCommitment: "aleo1datasetabc",
		Filename:           "people.csv",
		ColumnCount:        2,
		RowCount:           10,
		DatasetType:        "csv",
	})
	require.NoError(t, err)

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(repo.GetDB(), zerolog.Nop()))
	})

	t.Run("queries are observed", func(t *testing.T) {
		_, err := repo.Querier.GetDataset(ctx, ds.ID)
		require.NoError(t, err)

		families, err := reg.Gather()
		require.NoError(t, err)

		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}

		assert.Contains(t, names, "synthproof_db_query_duration_seconds")
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.Querier.GetDataset(ctx, uuid.New())
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("rolled back transaction leaves no trace", func(t *testing.T) {
		q, tx, err := WithTx[Querier](repo)()
		require.NoError(t, err)

		n, err := q.UpdateDatasetStatus(ctx, gensql.UpdateDatasetStatusParams{
			Status: gensql.DatasetStatusGenerated,
			ID:     ds.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		require.NoError(t, tx.Rollback())

		got, err := repo.Querier.GetDataset(ctx, ds.ID)
		require.NoError(t, err)
		assert.Equal(t, gensql.DatasetStatusRegistered, got.Status)
	})
}
