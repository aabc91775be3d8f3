package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeton-ddss/lsh/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lsh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, uint64(config.DefaultNgramWidth), cfg.MinHash.NgramWidth)
	assert.Equal(t, uint64(config.DefaultBandCount), cfg.MinHash.BandCount)
	assert.Equal(t, uint64(config.DefaultBandSize), cfg.Euclidean.BandSize)
	assert.InDelta(t, config.DefaultBucketWidth, cfg.Euclidean.BucketWidth, 0)
	assert.Equal(t, config.Width64, cfg.Output.Width)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, config.DefaultBatchSize, cfg.Batch.Size)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `minhash:
  ngram_width: 5
  band_count: 20
  salt: corpus-a
euclidean:
  bucket_width: 0.25
output:
  width: 32
  format: table
batch:
  size: 100
  workers: 2
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), cfg.MinHash.NgramWidth)
	assert.Equal(t, uint64(20), cfg.MinHash.BandCount)
	assert.Equal(t, "corpus-a", cfg.MinHash.Salt)
	assert.InDelta(t, 0.25, cfg.Euclidean.BucketWidth, 0)
	assert.Equal(t, config.Width32, cfg.Output.Width)
	assert.Equal(t, config.FormatTable, cfg.Output.Format)
	assert.Equal(t, 2, cfg.Batch.Workers)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("LSH_MINHASH_SEED", "42")

	cfg, err := config.LoadConfig(writeConfig(t, "minhash:\n  seed: 7\n"))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.MinHash.Seed)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "output:\n  width: 16\n"))

	require.ErrorIs(t, err, config.ErrInvalidWidth)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
}
