package providers

import (
	"testing"

	"dirpurge/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Ledger: structures.LedgerConfig{
			Path:        "/tmp/purge/db.json",
			Driver:      "json",
			Compression: "none",
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyLedgerPath(t *testing.T) {
	c := validConfig()
	c.Ledger.Path = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownDriver(t *testing.T) {
	c := validConfig()
	c.Ledger.Driver = "tinydb"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownCompression(t *testing.T) {
	c := validConfig()
	c.Ledger.Compression = "gzip"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_SqliteRejectsCompression(t *testing.T) {
	c := validConfig()
	c.Ledger.Driver = "sqlite"
	c.Ledger.Compression = "zstd"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MetricsNeedTextfile(t *testing.T) {
	c := validConfig()
	c.Metrics.Enabled = true
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())

	c.Metrics.TextfilePath = "/tmp/purge.prom"
	assert.NoError(t, NewCnfValidator(c).Validate())
}
