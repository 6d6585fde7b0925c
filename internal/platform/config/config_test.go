package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://default.derivation.origin", cfg.Issuer.DerivationOrigin)
	assert.Equal(t, []string{"https://default.host.name"}, cfg.Issuer.FrontendHostnames)
	assert.Equal(t, 15*time.Minute, cfg.Issuance.TicketTTL)
	assert.Equal(t, 2*time.Second, cfg.Issuance.CertificationInterval)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "snappy", cfg.Kafka.Compression)
	assert.Equal(t, 7*24*time.Hour, cfg.Kafka.AuditRetention)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("ISSUANCE_TICKET_TTL", "5m")
	t.Setenv("ISSUER_CONTROLLERS", "aaaaa-aa, bbbbb-bb")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Issuance.TicketTTL)
	assert.Equal(t, []string{"aaaaa-aa", "bbbbb-bb"}, cfg.Issuer.Controllers)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcissuer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
issuer:
  derivation_origin: https://issuer.example
  frontend_hostnames:
    - https://a.example
    - https://b.example
kafka:
  audit_topic: audit.v2
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://issuer.example", cfg.Issuer.DerivationOrigin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Issuer.FrontendHostnames)
	assert.Equal(t, "audit.v2", cfg.Kafka.AuditTopic)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("ISSUANCE_TICKET_TTL", "0s")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket_ttl")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
