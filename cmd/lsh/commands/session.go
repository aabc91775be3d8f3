// Package commands implements CLI command handlers for lsh.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/internal/config"
	"github.com/princeton-ddss/lsh/internal/observability"
	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/pkg/version"
)

// Global flag names, registered on the root command.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
	FlagLogJSON = "log-json"
)

// GlobalOptions holds the root command's persistent flags.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	LogJSON    bool
}

// Register binds the options to cmd's persistent flags.
func (g *GlobalOptions) Register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&g.ConfigPath, FlagConfig, "", "Config file (default: .lsh.yaml in CWD or $HOME)")
	flags.BoolVarP(&g.Verbose, FlagVerbose, "v", false, "Debug logging")
	flags.BoolVarP(&g.Quiet, FlagQuiet, "q", false, "Only log errors")
	flags.BoolVar(&g.LogJSON, FlagLogJSON, false, "Log as JSON")
}

// session is the loaded configuration and telemetry for one command run.
type session struct {
	cfg         *config.Config
	providers   observability.Providers
	metrics     *observability.HashMetrics
	metricsFile string
}

func openSession(g *GlobalOptions, metricsFile string, stderr io.Writer) (*session, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	if metricsFile == "" {
		metricsFile = cfg.Telemetry.MetricsFile
	}

	obsCfg, err := observabilityConfig(cfg, g, metricsFile != "")
	if err != nil {
		return nil, err
	}

	providers, err := observability.InitWithWriter(obsCfg, stderr)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewHashMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &session{cfg: cfg, providers: providers, metrics: metrics, metricsFile: metricsFile}, nil
}

func observabilityConfig(cfg *config.Config, g *GlobalOptions, prometheus bool) (observability.Config, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	switch {
	case g.Verbose:
		level = slog.LevelDebug
	case g.Quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = prometheus
	obsCfg.LogLevel = level
	obsCfg.LogJSON = g.LogJSON || cfg.Logging.JSON

	return obsCfg, nil
}

// close writes the metrics textfile, if requested, and flushes telemetry.
func (s *session) close(ctx context.Context) error {
	var textfileErr error
	if s.metricsFile != "" {
		textfileErr = observability.WriteTextfile(s.providers.Registry, s.metricsFile)
	}

	return errors.Join(textfileErr, s.providers.Shutdown(ctx))
}

// openInput opens the positional input argument; none or "-" reads cmd's stdin.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == rowio.Stdio {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	return rowio.OpenInput(args[0])
}

// createOutput opens path; empty or "-" writes cmd's stdout.
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == rowio.Stdio {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}

	return rowio.CreateOutput(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
