package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/internal/config"
	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/internal/runner"
)

// MinHashCommand holds the flags of the minhash command.
type MinHashCommand struct {
	globals    *GlobalOptions
	hash       hashFlags
	ngramWidth uint64
	salt       string
	shingles   bool
}

// NewMinHashCommand creates the minhash command.
func NewMinHashCommand(globals *GlobalOptions) *cobra.Command {
	mc := &MinHashCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "minhash [input]",
		Short: "Compute MinHash band signatures for text rows",
		Long: `Compute MinHash band signatures for JSON Lines input.

Each line is a JSON string, or with --shingles an array of strings, or null.
Null rows produce null output rows. Input ending in .lz4 or .zst is
decompressed; "-" or no argument reads stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: mc.run,
	}

	registerHashFlags(cmd, &mc.hash)
	cmd.Flags().Uint64Var(&mc.ngramWidth, flagNgramWidth, config.DefaultNgramWidth, usageNgramWidth)
	cmd.Flags().StringVar(&mc.salt, flagSalt, "", usageSalt)
	cmd.Flags().BoolVar(&mc.shingles, flagShingles, false, usageShingles)

	return cmd
}

func (mc *MinHashCommand) run(cmd *cobra.Command, args []string) (err error) {
	sess, err := openSession(mc.globals, mc.hash.metricsFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.close(cmd.Context())) }()

	mc.apply(cmd, sess.cfg)

	validateErr := sess.cfg.ValidateMinHash()
	if validateErr != nil {
		return fmt.Errorf("invalid options: %w", validateErr)
	}

	kind := rowio.KindText
	if mc.shingles {
		kind = rowio.KindShingles
	}

	mh := sess.cfg.MinHash

	return sess.execute(cmd, args, hashJob{
		family: runner.FamilyMinHash,
		kind:   kind,
		output: mc.hash.output,
		hash: runner.MinHash(runner.MinHashParams{
			NgramWidth: mh.NgramWidth,
			BandCount:  mh.BandCount,
			BandSize:   mh.BandSize,
			Seed:       mh.Seed,
			Salt:       mh.Salt,
			Width:      sess.cfg.Output.Width,
		}),
	})
}

func (mc *MinHashCommand) apply(cmd *cobra.Command, cfg *config.Config) {
	mc.hash.applyMinHash(cmd, cfg)

	if cmd.Flags().Changed(flagNgramWidth) {
		cfg.MinHash.NgramWidth = mc.ngramWidth
	}

	if cmd.Flags().Changed(flagSalt) {
		cfg.MinHash.Salt = mc.salt
	}
}
