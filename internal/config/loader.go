package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".lsh"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for lsh settings.
const envPrefix = "LSH"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("minhash.ngram_width", DefaultNgramWidth)
	viperCfg.SetDefault("minhash.band_count", DefaultBandCount)
	viperCfg.SetDefault("minhash.band_size", DefaultBandSize)
	viperCfg.SetDefault("minhash.seed", DefaultSeed)
	viperCfg.SetDefault("minhash.salt", "")

	viperCfg.SetDefault("euclidean.bucket_width", DefaultBucketWidth)
	viperCfg.SetDefault("euclidean.band_count", DefaultBandCount)
	viperCfg.SetDefault("euclidean.band_size", DefaultBandSize)
	viperCfg.SetDefault("euclidean.seed", DefaultSeed)

	viperCfg.SetDefault("output.width", DefaultWidth)
	viperCfg.SetDefault("output.format", DefaultFormat)

	viperCfg.SetDefault("batch.size", DefaultBatchSize)
	viperCfg.SetDefault("batch.workers", DefaultBatchWorkers)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySample)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.metrics_file", "")
}
