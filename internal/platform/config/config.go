// Package config loads service configuration from defaults, an optional file
// and environment variables, in increasing precedence. Nested keys map to
// environment variables by upper-casing and replacing dots with underscores,
// e.g. issuance.ticket_ttl -> ISSUANCE_TICKET_TTL.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vcissuer/pkg/platform/validation"
)

// Config is the full service configuration.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
	Auth     Auth     `mapstructure:"auth"`
	Issuer   Issuer   `mapstructure:"issuer"`
	Database Database `mapstructure:"database"`
	Redis    Redis    `mapstructure:"redis"`
	Kafka    Kafka    `mapstructure:"kafka"`
	Issuance Issuance `mapstructure:"issuance"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string        `mapstructure:"addr"`
	Environment    string        `mapstructure:"environment"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	BodyLimitBytes int64         `mapstructure:"body_limit_bytes"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Auth configures caller bearer tokens.
type Auth struct {
	CallerTokenKey      string        `mapstructure:"caller_token_key"`
	CallerTokenAudience string        `mapstructure:"caller_token_audience"`
	CallerTokenTTL      time.Duration `mapstructure:"caller_token_ttl"`
}

// Issuer seeds the runtime issuer configuration at boot.
type Issuer struct {
	DerivationOrigin  string   `mapstructure:"derivation_origin"`
	FrontendHostnames []string `mapstructure:"frontend_hostnames"`
	AuthorityIDs      []string `mapstructure:"authority_ids"`
	// RootKeysJWKS is a JSON Web Key Set holding the authorities' public keys.
	RootKeysJWKS string   `mapstructure:"root_keys_jwks"`
	IssuerID     string   `mapstructure:"issuer_id"`
	SigningKey   string   `mapstructure:"signing_key"`
	Controllers  []string `mapstructure:"controllers"`
}

// Database configures Postgres. An empty URL selects in-memory stores.
type Database struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// Redis configures the ticket cache. An empty URL keeps tickets elsewhere.
type Redis struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Kafka configures the audit sink. Empty brokers disable it.
type Kafka struct {
	Brokers         string        `mapstructure:"brokers"`
	AuditTopic      string        `mapstructure:"audit_topic"`
	Acks            string        `mapstructure:"acks"`
	Retries         int           `mapstructure:"retries"`
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`
	Compression     string        `mapstructure:"compression"`
	AuditRetention  time.Duration `mapstructure:"audit_retention"`
}

// Issuance tunes the two-phase issuance flow.
type Issuance struct {
	CertificationInterval time.Duration `mapstructure:"certification_interval"`
	TicketTTL             time.Duration `mapstructure:"ticket_ttl"`
	CleanupInterval       time.Duration `mapstructure:"cleanup_interval"`
	CredentialValidity    time.Duration `mapstructure:"credential_validity"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.body_limit_bytes", validation.MaxBodySize)

	v.SetDefault("log.level", "info")

	v.SetDefault("auth.caller_token_key", "dev-secret-key-change-in-production")
	v.SetDefault("auth.caller_token_audience", "")
	v.SetDefault("auth.caller_token_ttl", time.Hour)

	v.SetDefault("issuer.derivation_origin", "https://default.derivation.origin")
	v.SetDefault("issuer.frontend_hostnames", []string{"https://default.host.name"})
	v.SetDefault("issuer.authority_ids", []string{})
	v.SetDefault("issuer.root_keys_jwks", "")
	v.SetDefault("issuer.issuer_id", "https://vcissuer.local")
	v.SetDefault("issuer.signing_key", "")
	v.SetDefault("issuer.controllers", []string{})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.audit_topic", "vcissuer.audit")
	v.SetDefault("kafka.acks", "all")
	v.SetDefault("kafka.retries", 3)
	v.SetDefault("kafka.delivery_timeout", 30*time.Second)
	v.SetDefault("kafka.compression", "snappy")
	v.SetDefault("kafka.audit_retention", 7*24*time.Hour)

	v.SetDefault("issuance.certification_interval", 2*time.Second)
	v.SetDefault("issuance.ticket_ttl", 15*time.Minute)
	v.SetDefault("issuance.cleanup_interval", time.Minute)
	v.SetDefault("issuance.credential_validity", 30*24*time.Hour)
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Issuer.FrontendHostnames = splitList(cfg.Issuer.FrontendHostnames)
	cfg.Issuer.AuthorityIDs = splitList(cfg.Issuer.AuthorityIDs)
	cfg.Issuer.Controllers = splitList(cfg.Issuer.Controllers)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Auth.CallerTokenKey == "" {
		errs = append(errs, errors.New("auth.caller_token_key is required"))
	}
	if c.Issuer.IssuerID == "" {
		errs = append(errs, errors.New("issuer.issuer_id is required"))
	}
	if c.Issuance.TicketTTL <= 0 {
		errs = append(errs, errors.New("issuance.ticket_ttl must be positive"))
	}
	if c.Issuance.CertificationInterval <= 0 {
		errs = append(errs, errors.New("issuance.certification_interval must be positive"))
	}
	if c.Issuance.CleanupInterval <= 0 {
		errs = append(errs, errors.New("issuance.cleanup_interval must be positive"))
	}
	if c.Issuance.CredentialValidity <= 0 {
		errs = append(errs, errors.New("issuance.credential_validity must be positive"))
	}
	return errors.Join(errs...)
}

// splitList accepts both list values and a single comma-separated entry,
// which is how lists arrive from environment variables.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
