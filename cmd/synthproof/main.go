package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/config/v2"
	"github.com/navikt/synthproof/pkg/database"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/requestlogger"
	"github.com/navikt/synthproof/pkg/service/core"
	"github.com/navikt/synthproof/pkg/service/core/handlers"
	"github.com/navikt/synthproof/pkg/service/core/routes"
	"github.com/navikt/synthproof/pkg/service/core/storage"
	"github.com/navikt/synthproof/pkg/service/core/storage/inmem"
	"github.com/navikt/synthproof/pkg/signer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

var (
	configFilePath = flag.String("config", "config.yaml", "path to config file")
	printRoutes    = flag.Bool("print-routes", false, "print the routes and exit")
)

const (
	envPrefix       = "SYNTHPROOF"
	shutdownTimeout = 5 * time.Second
)

func main() {
	flag.Parse()

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileParts, err := config.ProcessConfigPath(*configFilePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("processing config path")
	}

	cfg, err := config.NewFileSystemLoader().Load(fileParts.FileName, fileParts.Path, envPrefix, config.NewDefaultEnvBinder())
	if err != nil {
		zlog.Fatal().Err(err).Msg("loading config")
	}

	err = cfg.Validate()
	if err != nil {
		zlog.Fatal().Err(err).Msg("validating config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		zlog.Fatal().Err(err).Msg("parsing log level")
	}

	zlog = zlog.Level(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	metrics := core.NewMetrics()
	promReg := prom(metrics.Collectors()...)

	var stores *storage.Stores
	var pinger routes.Pinger

	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres:
		repo, err := database.New(
			cfg.Postgres.ConnectionString(),
			database.Options{
				MaxIdleConn:     cfg.Postgres.Configuration.MaxIdleConnections,
				MaxOpenConn:     cfg.Postgres.Configuration.MaxOpenConnections,
				ConnMaxLifetime: cfg.Postgres.Configuration.ConnMaxLifetime(),
				Registerer:      promReg,
			},
			zlog.With().Str("subsystem", "repo").Logger(),
		)
		if err != nil {
			zlog.Fatal().Err(err).Msg("setting up database")
		}
		defer repo.Close()

		stores = storage.NewStores(repo)
		pinger = repo
	case config.StorageBackendMemory:
		zlog.Warn().Msg("using in-memory storage, nothing will be persisted")
		stores = storage.NewInMemoryStores(inmem.New())
	}

	digester, err := commitment.DigesterByName(cfg.Commitment.Digest)
	if err != nil {
		zlog.Fatal().Err(err).Msg("setting up digester")
	}

	engine := commitment.New(
		commitment.WithDigester(digester),
		commitment.WithNamespace(cfg.Commitment.Namespace),
	)

	ldg := ledger.New(engine.Digester(),
		ledger.WithProgramID(cfg.Commitment.ProgramID),
		ledger.WithNetwork(cfg.Commitment.Network),
	)

	claimSigner, err := newSigner(cfg.Signer, zlog)
	if err != nil {
		zlog.Fatal().Err(err).Msg("setting up claim signer")
	}

	services := core.NewServices(
		stores,
		engine,
		ldg,
		claimSigner,
		metrics,
		core.Options{
			ExplorerURL: cfg.Commitment.ExplorerURL,
			EmailDomain: cfg.Commitment.EmailDomain,
		},
		zlog.With().Str("subsystem", "services").Logger(),
	)

	h := handlers.NewHandlers(services)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestlogger.Middleware(
		zlog.With().Str("subsystem", "requestlogger").Logger(),
		"/internal/isalive",
		"/internal/isready",
		"/internal/metrics",
	))

	routes.Add(router,
		routes.NewDatasetRoutes(routes.NewDatasetEndpoints(zlog, h.DatasetHandler)),
		routes.NewGenerationRoutes(routes.NewGenerationEndpoints(zlog, h)),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(promReg)),
		routes.NewHealthRoutes(routes.NewHealthEndpoints(zlog, pinger)),
	)

	if *printRoutes {
		err = routes.Print(router, os.Stdout)
		if err != nil {
			zlog.Fatal().Err(err).Msg("printing routes")
		}

		return
	}

	server := http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Address, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info().Str("addr", server.Addr).Str("storage", cfg.Storage.Backend).Msg("listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("serving http")
		}
	}()
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn().Err(err).Msg("shutdown error")
	}
}

func newSigner(cfg config.Signer, log zerolog.Logger) (*signer.Signer, error) {
	if cfg.PrivateKeyFile != "" {
		return signer.FromFile(cfg.PrivateKeyFile)
	}

	s, err := signer.Generate(rand.Reader)
	if err != nil {
		return nil, err
	}

	log.Warn().Str("key_id", signer.KeyID(s.PublicKey())).Msg("no signer key configured, using an ephemeral key")

	return s, nil
}

func prom(cols ...prometheus.Collector) *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewGoCollector())
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(cols...)

	return r
}
