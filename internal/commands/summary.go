package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/analytics"
	"github.com/cleared-dev/fraudlens/internal/output"
	"github.com/cleared-dev/fraudlens/internal/pipeline"
)

type summaryOptions struct {
	fraudOnly bool
	search    string
	rows      int
	top       int
	bins      int
}

func newSummaryCommand(a *app) *cobra.Command {
	var opts summaryOptions

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Show KPIs, a data preview and fraud breakdowns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.RunUntil(cmd.Context(), a.source(args), a.cfg, pipeline.StageSummarize)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), res, a.cfg.Columns.Label, opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.fraudOnly, "fraud-only", false, "preview only fraudulent transactions")
	cmd.Flags().StringVar(&opts.search, "search", "", "preview only rows containing this text (case-insensitive)")
	cmd.Flags().IntVar(&opts.rows, "rows", 10, "number of rows to preview")
	cmd.Flags().IntVar(&opts.top, "top", 10, "entries per breakdown")
	cmd.Flags().IntVar(&opts.bins, "bins", 10, "amount histogram bins")

	return cmd
}

func writeSummary(w io.Writer, res *pipeline.Result, label string, opts summaryOptions) {
	fmt.Fprint(w, output.RenderSummary(res.Summary))

	preview := res.Raw
	if opts.fraudOnly {
		preview = analytics.FraudOnly(preview, label)
	}
	if opts.search != "" {
		preview = analytics.Search(preview, opts.search)
	}
	head := preview.Head(opts.rows)
	fmt.Fprintf(w, "\nRaw data (%d of %d rows)\n", head.Len(), preview.Len())
	fmt.Fprint(w, output.RenderTable(head))

	txns := res.Transactions
	fmt.Fprintf(w, "\nFraud by merchant\n")
	fmt.Fprint(w, output.RenderCounts("Merchant", analytics.TopFraudBy(txns, analytics.FieldMerchant, opts.top)))
	fmt.Fprintf(w, "\nFraud by location\n")
	fmt.Fprint(w, output.RenderCounts("Location", analytics.TopFraudBy(txns, analytics.FieldLocation, opts.top)))
	fmt.Fprintf(w, "\nFraud trend\n")
	fmt.Fprint(w, output.RenderTrend(analytics.FraudTrend(txns)))
	fmt.Fprintf(w, "\nAmount distribution\n")
	fmt.Fprint(w, output.RenderHistogram(analytics.AmountHistogram(txns, opts.bins)))
	fmt.Fprintf(w, "\nTop high-value fraudulent transactions\n")
	fmt.Fprint(w, output.RenderTransactions(analytics.TopFraudByAmount(txns, opts.top)))
}
