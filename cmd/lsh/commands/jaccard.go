package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/princeton-ddss/lsh/internal/config"
	"github.com/princeton-ddss/lsh/pkg/alg/shingle"
	"github.com/princeton-ddss/lsh/pkg/safeconv"
)

// NewJaccardCommand creates the jaccard command, which prints the exact
// Jaccard similarity of two texts' shingle sets.
func NewJaccardCommand() *cobra.Command {
	var (
		ngramWidth uint64
		salt       string
	)

	cmd := &cobra.Command{
		Use:   "jaccard <text-a> <text-b>",
		Short: "Print the exact Jaccard similarity of two texts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := safeconv.Uint64ToInt(ngramWidth)
			if err != nil {
				return fmt.Errorf("%s: %w", flagNgramWidth, err)
			}

			a := shingle.FromText(args[0], width, salt)
			b := shingle.FromText(args[1], width, salt)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(a.Jaccard(b), 'f', -1, 64))
			if err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Uint64Var(&ngramWidth, flagNgramWidth, config.DefaultNgramWidth, usageNgramWidth)
	cmd.Flags().StringVar(&salt, flagSalt, "", usageSalt)

	return cmd
}
