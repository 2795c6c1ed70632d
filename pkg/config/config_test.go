package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.Equal(t, 5, cfg.Engine.TxMaxRetries)
	assert.Equal(t, 20*time.Millisecond, cfg.Engine.TxRetryBackoff)
	assert.True(t, cfg.Engine.StockAllowNegative)
	assert.Equal(t, "./data/spool.db", cfg.Spool.Path)
	assert.True(t, cfg.Spool.Enabled())
	assert.Equal(t, 15*time.Second, cfg.Spool.ReplayInterval)
	assert.Equal(t, 15, cfg.Documents.ProformaValidityDays)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("STOCK_ALLOW_NEGATIVE", "false")
	t.Setenv("TX_MAX_RETRIES", "9")
	t.Setenv("SPOOL_PATH", "")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.False(t, cfg.Engine.StockAllowNegative)
	assert.Equal(t, 9, cfg.Engine.TxMaxRetries)
	assert.False(t, cfg.Spool.Enabled())
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss", DBName: "tienda", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss@db:5432/tienda?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
