package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/workspace"
)

func newInitCommand() *cobra.Command {
	var opts workspace.Options

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fraudlens project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			opts.Out = cmd.ErrOrStderr()
			hash, err := workspace.Init(absDir, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if hash != "" {
				fmt.Fprintf(out, "Initialized fraudlens project at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(out, "Initialized fraudlens project at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Git, "git", false, "initialize a git repository and commit the layout")
	cmd.Flags().StringVar(&opts.AuthorName, "author-name", "", "commit author name")
	cmd.Flags().StringVar(&opts.AuthorEmail, "author-email", "", "commit author email")

	return cmd
}
