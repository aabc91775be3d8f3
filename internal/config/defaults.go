package config

// Default values applied before the config file and environment are read.
const (
	DefaultNgramWidth      = 3
	DefaultBandCount       = 16
	DefaultBandSize        = 4
	DefaultSeed            = 0
	DefaultBucketWidth     = 1.0
	DefaultWidth           = Width64
	DefaultFormat          = FormatJSON
	DefaultBatchSize       = 8192
	DefaultBatchWorkers    = 0
	DefaultLogLevel        = "info"
	DefaultTelemetrySample = 0.0
)
