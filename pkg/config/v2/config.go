package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/mitchellh/mapstructure"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/spf13/viper"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Binder interface {
	Bind(v *viper.Viper) error
}

type Loader interface {
	Load(name, path, envPrefix string, binder Binder) (Config, error)
}

type Config struct {
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
	Postgres   Postgres   `yaml:"postgres"`
	Commitment Commitment `yaml:"commitment"`
	Signer     Signer     `yaml:"signer"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Storage, validation.Required),
		validation.Field(&c.Postgres, validation.Skip.When(c.Storage.Backend != StorageBackendPostgres), validation.Required),
		validation.Field(&c.Commitment, validation.Required),
		validation.Field(&c.Signer),
		validation.Field(&c.LogLevel, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
	)
}

type Server struct {
	Hostname string `yaml:"hostname"`
	Address  string `yaml:"address"`
	Port     string `yaml:"port"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required, is.IP),
		validation.Field(&s.Hostname, validation.Required, is.Host),
		validation.Field(&s.Port, validation.Required, is.Port),
	)
}

type Storage struct {
	Backend string `yaml:"backend"`
}

func (s Storage) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Backend, validation.Required, validation.In(StorageBackendPostgres, StorageBackendMemory)),
	)
}

type Postgres struct {
	UserName      string                `yaml:"user_name"`
	Password      string                `yaml:"password"`
	Host          string                `yaml:"host"`
	Port          string                `yaml:"port"`
	DatabaseName  string                `yaml:"database_name"`
	SSLMode       string                `yaml:"ssl_mode"`
	Configuration PostgresConfiguration `yaml:"configuration"`
}

func (p Postgres) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UserName, validation.Required),
		validation.Field(&p.Password, validation.Required),
		validation.Field(&p.Host, validation.Required, is.Host),
		validation.Field(&p.Port, validation.Required, is.Port),
		validation.Field(&p.DatabaseName, validation.Required),
		validation.Field(&p.SSLMode, validation.Required, validation.In("disable", "allow", "prefer", "require", "verify-ca", "verify-full")),
	)
}

func (p Postgres) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s?sslmode=%s",
		p.UserName,
		p.Password,
		net.JoinHostPort(p.Host, p.Port),
		p.DatabaseName,
		p.SSLMode,
	)
}

type PostgresConfiguration struct {
	MaxIdleConnections    int `yaml:"max_idle_connections"`
	MaxOpenConnections    int `yaml:"max_open_connections"`
	ConnMaxLifetimeMinute int `yaml:"conn_max_lifetime_minutes"`
}

func (c PostgresConfiguration) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinute) * time.Minute
}

// Commitment configures how commitments and simulated ledger records are
// produced. Changing the namespace or digest makes new commitments
// incomparable with stored ones.
type Commitment struct {
	Namespace   string `yaml:"namespace"`
	Digest      string `yaml:"digest"`
	ProgramID   string `yaml:"program_id"`
	Network     string `yaml:"network"`
	ExplorerURL string `yaml:"explorer_url"`
	EmailDomain string `yaml:"email_domain"`
}

func (c Commitment) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Namespace, validation.Required, is.Alphanumeric),
		validation.Field(&c.Digest, validation.Required, validation.In(commitment.DigestRolling, commitment.DigestSHA256, commitment.DigestMiMC)),
		validation.Field(&c.ProgramID, validation.Required),
		validation.Field(&c.Network, validation.Required),
		validation.Field(&c.ExplorerURL, validation.Required, is.URL),
		validation.Field(&c.EmailDomain, is.Host),
	)
}

// Signer configures the claim signer. Without a key file an ephemeral key
// is generated at startup, which is only useful for development.
type Signer struct {
	PrivateKeyFile string `yaml:"private_key_file"`
	Ephemeral      bool   `yaml:"ephemeral"`
}

func (s Signer) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.PrivateKeyFile, validation.When(!s.Ephemeral, validation.Required)),
	)
}

type FileParts struct {
	FileName string
	Path     string
}

func ProcessConfigPath(configFile string) (FileParts, error) {
	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return FileParts{}, fmt.Errorf("convert to absolute path: %w", err)
	}

	fileName := filepath.Base(absolutePath)
	path := filepath.Dir(absolutePath)
	extension := filepath.Ext(fileName)

	if strings.ReplaceAll(strings.ToLower(extension), ".", "") != defaultExtension {
		return FileParts{}, fmt.Errorf("config file must have extension %s, got: %s", defaultExtension, extension)
	}

	return FileParts{
		FileName: fileName[:len(fileName)-len(extension)],
		Path:     path,
	}, nil
}

func NewFileSystemLoader() *FileSystemLoader {
	return &FileSystemLoader{}
}

type FileSystemLoader struct{}

func (fs *FileSystemLoader) Load(name, path, envPrefix string, b Binder) (Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType(defaultExtension)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if b != nil {
		err := b.Bind(v)
		if err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(envPrefix)

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config

	err = v.Unmarshal(&config, func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = defaultTagName
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return fmt.Errorf("bind env var %s to key %s: %w", envVar, key, err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

// NewDefaultEnvBinder maps the variables injected by the platform onto
// config keys.
func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"NAIS_DATABASE_SYNTHPROOF_SYNTHPROOF_PASSWORD": "postgres.password",
		"NAIS_DATABASE_SYNTHPROOF_SYNTHPROOF_HOST":     "postgres.host",
		"SYNTHPROOF_SIGNER_KEY_FILE":                   "signer.private_key_file",
	})
}
