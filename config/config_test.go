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
	t.Setenv("SOURCE_CITY", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("RESULTS_TIMEOUT_SEC", "")

	cfg := Load()
	assert.Equal(t, "Bangalore", cfg.SourceCity)
	assert.Equal(t, BackendCSV, cfg.StorageBackend)
	assert.Equal(t, 7*time.Second, cfg.ResultsTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DEST_CITY", "Hubli")
	t.Setenv("HEADLESS", "false")
	t.Setenv("MAX_ITEMS", "12")
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("TOP_N", "not-a-number")

	cfg := Load()
	assert.Equal(t, "Hubli", cfg.DestinationCity)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 12, cfg.MaxItems)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, 5, cfg.TopN, "invalid ints fall back to the default")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "bus", PostgresSSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=bus sslmode=disable", cfg.DSN())
}

func TestLoadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("price: 4\nwindow: 0.5\nunknown_key: 9\n"), 0o644))

	overrides, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"price": 4, "window": 0.5, "unknown_key": 9}, overrides)
}

func TestLoadWeightsEmptyPath(t *testing.T) {
	overrides, err := LoadWeights("")
	require.NoError(t, err)
	assert.Nil(t, overrides)
}

func TestLoadWeightsErrors(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("price: [unclosed\n"), 0o644))
	_, err = LoadWeights(path)
	assert.Error(t, err)
}

func TestLoadWeightsSkipsNonNumericEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := "price: 4\nnote: cheap first\nrating: [1, 2]\nwindow: 1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	overrides, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"price": 4, "window": 1.5}, overrides)
}
