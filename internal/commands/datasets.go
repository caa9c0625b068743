package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/output"
)

func newDatasetsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets [directory]",
		Short: "List dataset files",
		Long:  "List delimited dataset files in a directory (default: the directory of dataset.default_path).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Dir(a.projectPath(a.cfg.Dataset.DefaultPath))
			if len(args) > 0 {
				dir = args[0]
			}
			files, err := dataset.DefaultRegistry().Scan(dir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output.RenderDatasets(files))
			return nil
		},
	}
}
