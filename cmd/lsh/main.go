// Package main provides the entry point for the lsh CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/cmd/lsh/commands"
	"github.com/princeton-ddss/lsh/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	globals := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "lsh",
		Short: "Locality-sensitive hash signatures for similarity search",
		Long: `lsh computes banded locality-sensitive hash signatures.

Commands:
  minhash    MinHash bands for text or shingle rows
  euclidean  p-stable bands for numeric vectors
  jaccard    Exact Jaccard similarity of two texts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	globals.Register(rootCmd)

	rootCmd.AddCommand(commands.NewMinHashCommand(globals))
	rootCmd.AddCommand(commands.NewEuclideanCommand(globals))
	rootCmd.AddCommand(commands.NewJaccardCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lsh %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
