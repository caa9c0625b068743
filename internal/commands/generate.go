package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/dataset"
)

func newGenerateCommand(a *app) *cobra.Command {
	opts := dataset.DefaultSyntheticOptions()

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Write a reproducible synthetic transactions dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.source(args)
			if !cmd.Flags().Changed("frauds") {
				opts.Positives = opts.Rows / 20
			}
			t, err := dataset.Synthetic(opts)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
			if err := writeTableFile(path, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions (%d fraudulent) to %s\n", opts.Rows, opts.Positives, path)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "number of transactions")
	cmd.Flags().IntVar(&opts.Positives, "frauds", opts.Positives, "number of fraudulent transactions (default: 5% of rows)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")

	return cmd
}
