package core

import (
	"math/rand/v2"
	"time"

	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core/storage"
	"github.com/navikt/synthproof/pkg/synth"
	"github.com/rs/zerolog"
)

const DefaultExplorerURL = "https://explorer.aleo.org"

type Options struct {
	ExplorerURL string
	EmailDomain string
	Clock       func() time.Time
	// NewRand returns the random source for one generation run.
	NewRand func() synth.Rand
}

func (o Options) withDefaults() Options {
	if o.ExplorerURL == "" {
		o.ExplorerURL = DefaultExplorerURL
	}

	if o.EmailDomain == "" {
		o.EmailDomain = synth.DefaultEmailDomain
	}

	if o.Clock == nil {
		o.Clock = time.Now
	}

	if o.NewRand == nil {
		o.NewRand = func() synth.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}

	return o
}

type Services struct {
	DatasetService      service.DatasetService
	GenerationService   service.GenerationService
	VerificationService service.VerificationService
	ReceiptService      service.ReceiptService
}

func NewServices(
	stores *storage.Stores,
	engine *commitment.Engine,
	ldg *ledger.Ledger,
	signer service.ClaimSigner,
	metrics *Metrics,
	opts Options,
	log zerolog.Logger,
) *Services {
	return &Services{
		DatasetService: NewDatasetService(
			stores.DatasetStorage,
			stores.TransactionStorage,
			engine,
			ldg,
			signer,
			metrics,
			log,
		),
		GenerationService: NewGenerationService(
			stores.DatasetStorage,
			stores.GenerationStorage,
			stores.ProofStorage,
			stores.TransactionStorage,
			engine,
			ldg,
			metrics,
			opts,
			log,
		),
		VerificationService: NewVerificationService(
			stores.ProofStorage,
			stores.TransactionStorage,
			ldg,
			metrics,
			log,
		),
		ReceiptService: NewReceiptService(
			stores.GenerationStorage,
			stores.TransactionStorage,
			ldg,
			metrics,
			opts,
			log,
		),
	}
}
