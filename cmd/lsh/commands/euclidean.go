package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/internal/config"
	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/internal/runner"
)

// EuclideanCommand holds the flags of the euclidean command.
type EuclideanCommand struct {
	globals     *GlobalOptions
	hash        hashFlags
	bucketWidth float64
}

// NewEuclideanCommand creates the euclidean command.
func NewEuclideanCommand(globals *GlobalOptions) *cobra.Command {
	ec := &EuclideanCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "euclidean [input]",
		Short: "Compute p-stable Euclidean band signatures for vector rows",
		Long: `Compute Euclidean LSH band signatures for JSON Lines input.

Each line is an array of numbers or null. All non-null arrays in a batch
must have the same length.`,
		Args: cobra.MaximumNArgs(1),
		RunE: ec.run,
	}

	registerHashFlags(cmd, &ec.hash)
	cmd.Flags().Float64Var(&ec.bucketWidth, flagBucketWidth, config.DefaultBucketWidth, usageBucketWidth)

	return cmd
}

func (ec *EuclideanCommand) run(cmd *cobra.Command, args []string) (err error) {
	sess, err := openSession(ec.globals, ec.hash.metricsFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.close(cmd.Context())) }()

	ec.hash.applyEuclidean(cmd, sess.cfg)

	if cmd.Flags().Changed(flagBucketWidth) {
		sess.cfg.Euclidean.BucketWidth = ec.bucketWidth
	}

	validateErr := sess.cfg.ValidateEuclidean()
	if validateErr != nil {
		return fmt.Errorf("invalid options: %w", validateErr)
	}

	eu := sess.cfg.Euclidean

	return sess.execute(cmd, args, hashJob{
		family: runner.FamilyEuclidean,
		kind:   rowio.KindVector,
		output: ec.hash.output,
		hash: runner.Euclidean(runner.EuclideanParams{
			BucketWidth: eu.BucketWidth,
			BandCount:   eu.BandCount,
			BandSize:    eu.BandSize,
			Seed:        eu.Seed,
			Width:       sess.cfg.Output.Width,
		}),
	})
}
