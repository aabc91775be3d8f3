package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/internal/runner"
)

// hashJob is one configured hashing run.
type hashJob struct {
	family string
	kind   rowio.Kind
	hash   runner.HashFunc
	output string
}

// execute streams args' input through job and writes the encoded rows.
func (s *session) execute(cmd *cobra.Command, args []string, job hashJob) (err error) {
	ctx := cmd.Context()

	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, in.Close()) }()

	src, err := rowio.NewReader(in, job.kind)
	if err != nil {
		return err
	}

	out, err := createOutput(cmd, job.output)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, out.Close()) }()

	enc, err := rowio.NewEncoder(out, s.cfg.Output.Format)
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx, src, enc, job.hash, runner.Options{
		Family:    job.family,
		BatchSize: s.cfg.Batch.Size,
		Workers:   s.cfg.Batch.Workers,
		Logger:    s.providers.Logger,
		Tracer:    s.providers.Tracer,
		Metrics:   s.metrics,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", job.family, err)
	}

	return nil
}
