package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/evaluation"
	"github.com/cleared-dev/fraudlens/internal/logger"
	"github.com/cleared-dev/fraudlens/internal/output"
	"github.com/cleared-dev/fraudlens/internal/pipeline"
	"github.com/cleared-dev/fraudlens/internal/workspace"
)

type reportOptions struct {
	json    bool
	outPath string
	history string
	commit  bool
}

func (o *reportOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "print reports as JSON")
	cmd.Flags().StringVar(&o.outPath, "out", "", "write reports as CSV")
	cmd.Flags().StringVar(&o.history, "history", "", "append reports to a CSV history file")
	cmd.Flags().BoolVar(&o.commit, "commit", false, "commit the project after writing history (requires a git workspace)")
}

func newTrainCommand(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "train [file]",
		Short: "Train both classifiers and print their held-out reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.Run(cmd.Context(), a.source(args), a.cfg)
			if err != nil {
				return err
			}
			return a.emitReports(cmd, res, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func newRunCommand(a *app) *cobra.Command {
	var opts reportOptions
	var summary summaryOptions

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run the full pipeline: summary, preprocessing and training",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.Run(cmd.Context(), a.source(args), a.cfg)
			if err != nil {
				return err
			}
			if opts.json {
				return a.emitReports(cmd, res, opts)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Run %s: %s\n\n", res.RunID, res.Source)
			writeSummary(w, res, a.cfg.Columns.Label, summary)
			fmt.Fprintf(w, "\nFeature schema\n")
			fmt.Fprint(w, output.RenderSchema(res.Processed.Schema))
			fmt.Fprintln(w)
			return a.emitReports(cmd, res, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&summary.rows, "rows", 5, "number of rows to preview")
	cmd.Flags().IntVar(&summary.top, "top", 10, "entries per breakdown")
	cmd.Flags().IntVar(&summary.bins, "bins", 10, "amount histogram bins")
	return cmd
}

// emitReports prints the reports of a finished run and writes any requested
// CSV export or history.
func (a *app) emitReports(cmd *cobra.Command, res *pipeline.Result, opts reportOptions) error {
	reports := res.Training.Reports
	w := cmd.OutOrStdout()

	if opts.json {
		if err := writeReportsJSON(w, reports); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Held-out rows: %d\n\n", len(res.Training.HeldOut.Rows))
		for _, r := range reports {
			fmt.Fprintln(w, output.RenderReport(r))
		}
	}

	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.outPath, err)
		}
		if err := evaluation.WriteReports(f, reports, res.RunID, res.StartedAt); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", opts.outPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if opts.history != "" {
		if err := os.MkdirAll(filepath.Dir(opts.history), 0o755); err != nil {
			return fmt.Errorf("creating history dir: %w", err)
		}
		if err := evaluation.AppendReports(opts.history, reports, res.RunID, res.StartedAt); err != nil {
			return err
		}
	}

	if opts.commit {
		root := filepath.Dir(a.configPath)
		if !workspace.IsRepo(root) {
			return fmt.Errorf("--commit: %s is not a git workspace (run `fraudlens init --git`)", root)
		}
		hash, err := workspace.Commit(root, "run: "+res.RunID, "", "")
		if err != nil {
			return err
		}
		log := logger.FromContext(cmd.Context())
		log.Info().Str("run_id", res.RunID).Str("commit", hash).Msg("committed run")
	}
	return nil
}

// reportJSON is the JSON shape of one report.
type reportJSON struct {
	Model  string         `json:"model"`
	Report map[string]any `json:"report"`
}

func writeReportsJSON(w io.Writer, reports []*evaluation.Report) error {
	out := make([]reportJSON, len(reports))
	for i, r := range reports {
		out[i] = reportJSON{Model: r.Model, Report: r.Map()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding reports: %w", err)
	}
	return nil
}
