package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/navikt/synthproof/pkg/database/gensql"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/qustavo/sqlhooks/v2"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

type Transacter interface {
	Commit() error
	Rollback() error
}

type Querier interface {
	gensql.Querier
	WithTx(tx *sql.Tx) *gensql.Queries
}

type Repo struct {
	Querier Querier
	db      *sql.DB
}

type Options struct {
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
	// Registerer receives the connection pool and query metrics, when set.
	Registerer prometheus.Registerer
}

// New opens a connection pool, runs the embedded migrations and returns a
// ready repository. Every statement goes through the query hooks.
func New(dsn string, opts Options, log zerolog.Logger) (*Repo, error) {
	hooks := newQueryHooks(log)

	db := sql.OpenDB(&connector{
		dsn:    dsn,
		driver: sqlhooks.Wrap(&pq.Driver{}, hooks),
	})

	db.SetMaxIdleConns(opts.MaxIdleConn)
	db.SetMaxOpenConns(opts.MaxOpenConn)

	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	if opts.Registerer != nil {
		opts.Registerer.MustRegister(collectors.NewDBStatsCollector(db, "synthproof"))
		hooks.register(opts.Registerer)
	}

	return &Repo{
		Querier: gensql.New(db),
		db:      db,
	}, nil
}

// Migrate brings the schema up to date.
func Migrate(db *sql.DB, log zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&gooseLogger{log: log.With().Str("subsystem", "migrations").Logger()})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Close() error {
	return r.db.Close()
}

// WithTx returns a function that starts a transaction and hands back the
// queries bound to it as T.
func WithTx[T any](r *Repo) func() (T, Transacter, error) {
	return func() (T, Transacter, error) {
		var zero T

		tx, err := r.db.Begin()
		if err != nil {
			return zero, nil, err
		}

		q, ok := any(r.Querier.WithTx(tx)).(T)
		if !ok {
			_ = tx.Rollback()
			return zero, nil, fmt.Errorf("transactional queries do not implement %T", zero)
		}

		return q, tx, nil
	}
}

type connector struct {
	dsn    string
	driver driver.Driver
}

func (c *connector) Connect(context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

func (c *connector) Driver() driver.Driver {
	return c.driver
}

type gooseLogger struct {
	log zerolog.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(format, v...)
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}
