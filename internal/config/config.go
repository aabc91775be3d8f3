package config

import (
	"errors"
	"log/slog"
	"math"
	"strings"
)

// Config is the top-level configuration struct for lsh.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	MinHash   MinHashConfig   `mapstructure:"minhash"`
	Euclidean EuclideanConfig `mapstructure:"euclidean"`
	Output    OutputConfig    `mapstructure:"output"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// MinHashConfig holds the banding parameters for text and shingle input.
type MinHashConfig struct {
	NgramWidth uint64 `mapstructure:"ngram_width"`
	BandCount  uint64 `mapstructure:"band_count"`
	BandSize   uint64 `mapstructure:"band_size"`
	Seed       uint64 `mapstructure:"seed"`
	Salt       string `mapstructure:"salt"`
}

// EuclideanConfig holds the banding parameters for numeric vectors.
type EuclideanConfig struct {
	BucketWidth float64 `mapstructure:"bucket_width"`
	BandCount   uint64  `mapstructure:"band_count"`
	BandSize    uint64  `mapstructure:"band_size"`
	Seed        uint64  `mapstructure:"seed"`
}

// OutputConfig controls how band hashes are written.
type OutputConfig struct {
	Width  int    `mapstructure:"width"`
	Format string `mapstructure:"format"`
}

// BatchConfig controls how input rows are batched and parallelized.
type BatchConfig struct {
	Size    int `mapstructure:"size"`
	Workers int `mapstructure:"workers"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry and Prometheus export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
	MetricsFile  string  `mapstructure:"metrics_file"`
}

// Output widths in bits.
const (
	Width32 = 32
	Width64 = 64
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidBandSize indicates a zero band size.
	ErrInvalidBandSize = errors.New("band_size must be positive")
	// ErrInvalidBucketWidth indicates a non-positive or non-finite bucket width.
	ErrInvalidBucketWidth = errors.New("euclidean.bucket_width must be positive and finite")
	// ErrInvalidWidth indicates an output width other than 32 or 64.
	ErrInvalidWidth = errors.New("output.width must be 32 or 64")
	// ErrInvalidFormat indicates an unknown output format.
	ErrInvalidFormat = errors.New("output.format must be json, yaml, or table")
	// ErrInvalidBatchSize indicates a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch.size must be positive")
	// ErrInvalidWorkers indicates a negative worker count.
	ErrInvalidWorkers = errors.New("batch.workers must be non-negative")
	// ErrInvalidLogLevel indicates an unparseable log level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn, or error")
	// ErrInvalidSampleRatio indicates a sample ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks the sections shared by every command and returns the
// first error found. Hash family sections are checked by [Config.ValidateMinHash]
// and [Config.ValidateEuclidean], so a bad section only fails the command
// that reads it.
func (c *Config) Validate() error {
	return c.validateRuntime()
}

// ValidateMinHash checks the minhash section and the shared sections.
func (c *Config) ValidateMinHash() error {
	if c.MinHash.BandSize == 0 {
		return ErrInvalidBandSize
	}

	return c.Validate()
}

// ValidateEuclidean checks the euclidean section and the shared sections.
func (c *Config) ValidateEuclidean() error {
	if c.Euclidean.BandSize == 0 {
		return ErrInvalidBandSize
	}

	w := c.Euclidean.BucketWidth
	if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
		return ErrInvalidBucketWidth
	}

	return c.Validate()
}

func (c *Config) validateRuntime() error {
	if c.Output.Width != Width32 && c.Output.Width != Width64 {
		return ErrInvalidWidth
	}

	switch c.Output.Format {
	case FormatJSON, FormatYAML, FormatTable:
	default:
		return ErrInvalidFormat
	}

	if c.Batch.Size <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Batch.Workers < 0 {
		return ErrInvalidWorkers
	}

	_, levelErr := c.Logging.SlogLevel()
	if levelErr != nil {
		return levelErr
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// SlogLevel parses Level. An empty level is info.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	if l.Level == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level)))
	if err != nil {
		return slog.LevelInfo, ErrInvalidLogLevel
	}

	return level, nil
}
