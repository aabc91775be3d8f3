package commands

import (
	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/internal/config"
)

// Hashing flag names shared by the minhash and euclidean commands.
const (
	flagBandCount   = "band-count"
	flagBandSize    = "band-size"
	flagSeed        = "seed"
	flagWidth       = "width"
	flagFormat      = "format"
	flagOutput      = "output"
	flagBatchSize   = "batch-size"
	flagWorkers     = "workers"
	flagMetricsFile = "metrics-file"
	flagNgramWidth  = "ngram-width"
	flagSalt        = "salt"
	flagShingles    = "shingles"
	flagBucketWidth = "bucket-width"
)

const (
	usageBandCount   = "Number of bands per row"
	usageBandSize    = "Hash functions combined per band"
	usageSeed        = "Seed for the hash function stream"
	usageWidth       = "Band hash width in bits: 32 or 64"
	usageFormat      = "Output format: json, yaml, table"
	usageOutput      = "Output file; .lz4 or .zst compresses (default: stdout)"
	usageBatchSize   = "Rows per batch"
	usageWorkers     = "Batches hashed in parallel (0 = CPU count)"
	usageMetricsFile = "Write Prometheus metrics to this textfile on exit"
	usageNgramWidth  = "Characters per shingle"
	usageSalt        = "Salt folded into every shingle hash"
	usageShingles    = "Rows are arrays of pre-computed shingles instead of text"
	usageBucketWidth = "Width of each projection bucket"
)

// hashFlags are the options shared by the hashing commands. Unset flags
// fall back to the loaded configuration.
type hashFlags struct {
	bandCount   uint64
	bandSize    uint64
	seed        uint64
	width       int
	format      string
	output      string
	batchSize   int
	workers     int
	metricsFile string
}

func registerHashFlags(cmd *cobra.Command, hf *hashFlags) {
	flags := cmd.Flags()

	flags.Uint64Var(&hf.bandCount, flagBandCount, config.DefaultBandCount, usageBandCount)
	flags.Uint64Var(&hf.bandSize, flagBandSize, config.DefaultBandSize, usageBandSize)
	flags.Uint64Var(&hf.seed, flagSeed, config.DefaultSeed, usageSeed)
	flags.IntVar(&hf.width, flagWidth, config.DefaultWidth, usageWidth)
	flags.StringVar(&hf.format, flagFormat, config.DefaultFormat, usageFormat)
	flags.StringVarP(&hf.output, flagOutput, "o", "", usageOutput)
	flags.IntVar(&hf.batchSize, flagBatchSize, config.DefaultBatchSize, usageBatchSize)
	flags.IntVar(&hf.workers, flagWorkers, config.DefaultBatchWorkers, usageWorkers)
	flags.StringVar(&hf.metricsFile, flagMetricsFile, "", usageMetricsFile)
}

// applyRuntime overrides the output and batch sections with changed flags.
func (hf *hashFlags) applyRuntime(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagWidth) {
		cfg.Output.Width = hf.width
	}

	if flags.Changed(flagFormat) {
		cfg.Output.Format = hf.format
	}

	if flags.Changed(flagBatchSize) {
		cfg.Batch.Size = hf.batchSize
	}

	if flags.Changed(flagWorkers) {
		cfg.Batch.Workers = hf.workers
	}
}

// applyMinHash overrides the minhash section with changed flags.
func (hf *hashFlags) applyMinHash(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagBandCount) {
		cfg.MinHash.BandCount = hf.bandCount
	}

	if flags.Changed(flagBandSize) {
		cfg.MinHash.BandSize = hf.bandSize
	}

	if flags.Changed(flagSeed) {
		cfg.MinHash.Seed = hf.seed
	}

	hf.applyRuntime(cmd, cfg)
}

// applyEuclidean overrides the euclidean section with changed flags.
func (hf *hashFlags) applyEuclidean(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagBandCount) {
		cfg.Euclidean.BandCount = hf.bandCount
	}

	if flags.Changed(flagBandSize) {
		cfg.Euclidean.BandSize = hf.bandSize
	}

	if flags.Changed(flagSeed) {
		cfg.Euclidean.Seed = hf.seed
	}

	hf.applyRuntime(cmd, cfg)
}
