// Package output renders fraudlens results as plain-text tables.
//
// Renderers return strings so commands can write them wherever they like.
// ANSI colors are added only when stdout is a terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/cleared-dev/fraudlens/internal/analytics"
	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/evaluation"
	"github.com/cleared-dev/fraudlens/internal/features"
	"github.com/cleared-dev/fraudlens/internal/model"
)

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// maxCell bounds the width of a raw table column.
const maxCell = 24

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

func rule(width int) string {
	return strings.Repeat("─", width) + "\n"
}

// RenderSummary renders the headline KPIs.
func RenderSummary(s analytics.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-26s %s\n", "Total Transactions", formatThousands(fmt.Sprintf("%d", s.Total))))
	sb.WriteString(fmt.Sprintf("%-26s %d\n", "Fraudulent Transactions", s.Fraud))
	pct := fmt.Sprintf("%.2f%%", s.FraudPercent)
	if s.Fraud > 0 {
		pct = colorize(colorRed, pct)
	}
	sb.WriteString(fmt.Sprintf("%-26s %s\n", "Fraudulent %", pct))
	sb.WriteString(fmt.Sprintf("%-26s $%s\n", "Avg. Transaction Amount", formatThousands(s.AverageAmount.StringFixed(2))))
	return sb.String()
}

// RenderCounts renders a ranked fraud breakdown under a title.
func RenderCounts(title string, counts []analytics.Count) string {
	if len(counts) == 0 {
		return fmt.Sprintf("No fraud cases by %s.\n", strings.ToLower(title))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %s\n", title, "Fraud Cases"))
	sb.WriteString(rule(36))
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("%-24s %11d\n", truncate(c.Key, 24), c.Count))
	}
	return sb.String()
}

// RenderTrend renders per-day fraud counts.
func RenderTrend(days []analytics.DayCount) string {
	if len(days) == 0 {
		return "No dated transactions.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-12s %7s %7s\n", "Date", "Fraud", "Total"))
	sb.WriteString(rule(28))
	for _, d := range days {
		sb.WriteString(fmt.Sprintf("%-12s %7d %7d\n", d.Day.Format("2006-01-02"), d.Fraud, d.Total))
	}
	return sb.String()
}

// RenderHistogram renders amount bins split by class.
func RenderHistogram(bins []analytics.Bin) string {
	if len(bins) == 0 {
		return "No amounts.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-25s %7s %7s\n", "Amount", "Legit", "Fraud"))
	sb.WriteString(rule(41))
	for _, b := range bins {
		r := fmt.Sprintf("%.2f – %.2f", b.Lo, b.Hi)
		sb.WriteString(fmt.Sprintf("%-25s %7d %7d\n", r, b.Legit, b.Fraud))
	}
	return sb.String()
}

// RenderTransactions renders typed transactions, e.g. the largest frauds.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return "No transactions.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-14s %12s %-16s %-16s %s\n", "ID", "Amount", "Merchant", "Location", "Time"))
	sb.WriteString(rule(80))
	for _, t := range txns {
		ts := "-"
		if t.HasTimestamp() {
			ts = t.Timestamp.Format("2006-01-02 15:04")
		}
		sb.WriteString(fmt.Sprintf("%-14s %12s %-16s %-16s %s\n",
			truncate(t.ID, 14),
			t.Amount.StringFixed(2),
			truncate(t.Merchant, 16),
			truncate(t.Location, 16),
			ts))
	}
	return sb.String()
}

// RenderTable renders a raw or processed table with columns sized to fit.
func RenderTable(t *dataset.Table) string {
	if len(t.Columns) == 0 {
		return "Empty table.\n"
	}
	widths := make([]int, len(t.Columns))
	for j, c := range t.Columns {
		widths[j] = min(len(c), maxCell)
	}
	for _, row := range t.Rows {
		for j, cell := range row {
			widths[j] = max(widths[j], min(len(cell), maxCell))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for j, cell := range cells {
			if j > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(fmt.Sprintf("%-*s", widths[j], truncate(cell, maxCell)))
		}
		sb.WriteString("\n")
	}
	writeRow(t.Columns)
	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	sb.WriteString(rule(total))
	for _, row := range t.Rows {
		writeRow(row)
	}
	if len(t.Rows) == 0 {
		sb.WriteString(colorize(colorGray, "(no rows)") + "\n")
	}
	return sb.String()
}

// RenderSchema renders the feature schema: dropped columns, then each
// feature column with its kind and origin.
func RenderSchema(s features.Schema) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Label:   %s\n", s.Label))
	dropped := "-"
	if len(s.Dropped) > 0 {
		dropped = strings.Join(s.Dropped, ", ")
	}
	sb.WriteString(fmt.Sprintf("Dropped: %s\n\n", dropped))

	sb.WriteString(fmt.Sprintf("%-28s %-10s %s\n", "Feature", "Kind", "Detail"))
	sb.WriteString(rule(64))
	for _, c := range s.Columns {
		detail := ""
		switch c.Kind {
		case features.KindIndicator:
			detail = fmt.Sprintf("%s = %s", c.Source, c.Category)
			if enc, ok := s.Encoding(c.Source); ok {
				detail += fmt.Sprintf(" (vs %s)", enc.Reference())
			}
		case features.KindScaled:
			if sc, ok := s.Scaling(c.Source); ok {
				detail = fmt.Sprintf("mean %.4g, std %.4g", sc.Mean, sc.Std)
			}
		}
		sb.WriteString(fmt.Sprintf("%-28s %-10s %s\n", truncate(c.Name, 28), c.Kind, detail))
	}
	for _, e := range s.Encodings {
		if ref := e.Reference(); ref != "" {
			sb.WriteString(colorize(colorGray, fmt.Sprintf("%s reference category: %s", e.Attribute, ref)) + "\n")
		}
	}
	return sb.String()
}

// RenderSchemaErrors renders the result of a schema comparison.
func RenderSchemaErrors(errs []features.SchemaError) string {
	if len(errs) == 0 {
		return colorize(colorGreen, "✓ schemas match") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(colorize(colorRed, fmt.Sprintf("✗ %d schema difference(s)", len(errs))) + "\n")
	for _, e := range errs {
		sb.WriteString("  " + e.Error() + "\n")
	}
	return sb.String()
}

// RenderReport renders one model's classification report.
func RenderReport(r *evaluation.Report) string {
	return colorize(colorBold, r.Model) + "\n" + r.String()
}

// RenderDatasets renders dataset files found in a directory.
func RenderDatasets(files []dataset.FileInfo) string {
	if len(files) == 0 {
		return "No datasets found.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-32s %-6s %8s\n", "File", "Format", "Size"))
	sb.WriteString(rule(48))
	for _, f := range files {
		sb.WriteString(fmt.Sprintf("%-32s %-6s %8s\n", truncate(f.Name, 32), f.Format, formatSize(f.Size)))
	}
	return sb.String()
}

// formatThousands inserts commas into the integer part of a decimal string.
func formatThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + frac
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
