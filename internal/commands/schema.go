package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/features"
	"github.com/cleared-dev/fraudlens/internal/output"
)

func newSchemaCommand(a *app) *cobra.Command {
	var against string

	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Infer the feature schema, optionally comparing it to a baseline dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actual, err := inferSchema(a.source(args), a.cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, output.RenderSchema(actual))
			if against == "" {
				return nil
			}

			expected, err := inferSchema(against, a.cfg)
			if err != nil {
				return fmt.Errorf("baseline: %w", err)
			}
			errs := features.Compare(expected, actual)
			fmt.Fprintf(w, "\nCompared with %s\n", against)
			fmt.Fprint(w, output.RenderSchemaErrors(errs))
			if len(errs) > 0 {
				return fmt.Errorf("schema mismatch: %d difference(s)", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&against, "against", "", "baseline dataset to compare with")

	return cmd
}

func inferSchema(path string, cfg *config.Config) (features.Schema, error) {
	f, err := dataset.DefaultRegistry().Resolve(path, cfg.Dataset.Format)
	if err != nil {
		return features.Schema{}, err
	}
	t, err := dataset.Load(path, f)
	if err != nil {
		return features.Schema{}, err
	}
	return features.InferSchema(t, cfg.Columns)
}
