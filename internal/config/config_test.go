package config_test

import (
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeton-ddss/lsh/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		MinHash: config.MinHashConfig{
			NgramWidth: 3,
			BandCount:  16,
			BandSize:   4,
		},
		Euclidean: config.EuclideanConfig{
			BucketWidth: 0.5,
			BandCount:   8,
			BandSize:    2,
		},
		Output: config.OutputConfig{
			Width:  config.Width64,
			Format: config.FormatJSON,
		},
		Batch: config.BatchConfig{
			Size: 1024,
		},
		Logging: config.LoggingConfig{
			Level: "debug",
		},
	}
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateMinHash())
	require.NoError(t, cfg.ValidateEuclidean())
}

func TestValidate_ReturnsSentinel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"width", func(c *config.Config) { c.Output.Width = 16 }, config.ErrInvalidWidth},
		{"format", func(c *config.Config) { c.Output.Format = "csv" }, config.ErrInvalidFormat},
		{"batch size", func(c *config.Config) { c.Batch.Size = 0 }, config.ErrInvalidBatchSize},
		{"workers", func(c *config.Config) { c.Batch.Workers = -1 }, config.ErrInvalidWorkers},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"sample ratio", func(c *config.Config) { c.Telemetry.SampleRatio = 1.5 }, config.ErrInvalidSampleRatio},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)

			assert.ErrorIs(t, cfg.Validate(), tc.want)
			assert.ErrorIs(t, cfg.ValidateMinHash(), tc.want)
			assert.ErrorIs(t, cfg.ValidateEuclidean(), tc.want)
		})
	}
}

// --- Family Section Tests ---.

func TestValidateMinHash_ZeroBandSize(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MinHash.BandSize = 0

	require.ErrorIs(t, cfg.ValidateMinHash(), config.ErrInvalidBandSize)
	require.NoError(t, cfg.ValidateEuclidean())
	require.NoError(t, cfg.Validate())
}

func TestValidateEuclidean_ReturnsSentinel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"band size", func(c *config.Config) { c.Euclidean.BandSize = 0 }, config.ErrInvalidBandSize},
		{"zero bucket width", func(c *config.Config) { c.Euclidean.BucketWidth = 0 }, config.ErrInvalidBucketWidth},
		{"infinite bucket width", func(c *config.Config) { c.Euclidean.BucketWidth = math.Inf(1) }, config.ErrInvalidBucketWidth},
		{"nan bucket width", func(c *config.Config) { c.Euclidean.BucketWidth = math.NaN() }, config.ErrInvalidBucketWidth},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)

			assert.ErrorIs(t, cfg.ValidateEuclidean(), tc.want)
			assert.NoError(t, cfg.ValidateMinHash())
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	level, err := config.LoggingConfig{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	level, err = config.LoggingConfig{Level: "WARN"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
