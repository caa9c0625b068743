package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/output"
	"github.com/cleared-dev/fraudlens/internal/pipeline"
)

func newPreprocessCommand(a *app) *cobra.Command {
	var rows int
	var outPath string

	cmd := &cobra.Command{
		Use:   "preprocess [file]",
		Short: "Show the feature schema and processed rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.RunUntil(cmd.Context(), a.source(args), a.cfg, pipeline.StagePreprocess)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, output.RenderSchema(res.Processed.Schema))
			processed := res.Processed.Table()
			head := processed.Head(rows)
			fmt.Fprintf(w, "\nProcessed data (%d of %d rows)\n", head.Len(), processed.Len())
			fmt.Fprint(w, output.RenderTable(head))

			if outPath == "" {
				return nil
			}
			if err := writeTableFile(outPath, processed); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nWrote %d rows to %s\n", processed.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 10, "number of rows to preview")
	cmd.Flags().StringVar(&outPath, "out", "", "write the processed table as CSV")

	return cmd
}

func writeTableFile(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := dataset.WriteTable(f, t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
