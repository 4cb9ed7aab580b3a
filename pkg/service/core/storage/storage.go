package storage

import (
	"github.com/navikt/synthproof/pkg/database"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/storage/inmem"
	"github.com/navikt/synthproof/pkg/service/core/storage/postgres"
)

type Stores struct {
	DatasetStorage     service.DatasetStorage
	GenerationStorage  service.GenerationStorage
	ProofStorage       service.ProofStorage
	TransactionStorage service.TransactionStorage
}

func NewStores(db *database.Repo) *Stores {
	return &Stores{
		DatasetStorage:     postgres.NewDatasetStorage(db.Querier),
		GenerationStorage:  postgres.NewGenerationStorage(db.Querier),
		ProofStorage:       postgres.NewProofStorage(db.Querier, database.WithTx[postgres.ProofQueries](db)),
		TransactionStorage: postgres.NewTransactionStorage(db.Querier),
	}
}

// NewInMemoryStores backs every store with the same process-local store.
func NewInMemoryStores(store *inmem.Store) *Stores {
	return &Stores{
		DatasetStorage:     store,
		GenerationStorage:  store,
		ProofStorage:       store,
		TransactionStorage: store,
	}
}
