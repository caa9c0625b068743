package output

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fraudlens/internal/analytics"
	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/evaluation"
	"github.com/cleared-dev/fraudlens/internal/features"
	"github.com/cleared-dev/fraudlens/internal/model"
)

func assertContains(t *testing.T, result string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(result, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, result)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	s := analytics.Summary{
		Total:         12345,
		Fraud:         617,
		FraudPercent:  4.998,
		AverageAmount: decimal.RequireFromString("1234.567"),
	}
	assertContains(t, RenderSummary(s),
		"Total Transactions", "12,345",
		"Fraudulent %", "5.00%",
		"$1,234.57")
}

func TestRenderCounts(t *testing.T) {
	tests := []struct {
		name     string
		counts   []analytics.Count
		contains []string
	}{
		{
			name:     "empty",
			contains: []string{"No fraud cases by merchant"},
		},
		{
			name:     "ranked",
			counts:   []analytics.Count{{Key: "Target", Count: 3}, {Key: "Amazon", Count: 2}},
			contains: []string{"Merchant", "Fraud Cases", "Target", "3", "Amazon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, RenderCounts("Merchant", tt.counts), tt.contains...)
		})
	}
}

func TestRenderTrend(t *testing.T) {
	days := []analytics.DayCount{{Day: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Fraud: 1, Total: 3}}
	assertContains(t, RenderTrend(days), "Date", "2025-01-02")
	assertContains(t, RenderTrend(nil), "No dated transactions")
}

func TestRenderHistogram(t *testing.T) {
	bins := []analytics.Bin{{Lo: 0, Hi: 50, Legit: 9, Fraud: 1}}
	assertContains(t, RenderHistogram(bins), "0.00 – 50.00", "9", "1")
	assertContains(t, RenderHistogram(nil), "No amounts")
}

func TestRenderTransactions(t *testing.T) {
	txns := []model.Transaction{{
		ID:        "TXN1028",
		Amount:    decimal.RequireFromString("1912.5"),
		Merchant:  "Amazon",
		Location:  "Chicago",
		Timestamp: time.Date(2025, 1, 10, 15, 15, 0, 0, time.UTC),
		IsFraud:   true,
	}, {ID: "TXN9", Amount: decimal.NewFromInt(1)}}

	result := RenderTransactions(txns)
	assertContains(t, result, "TXN1028", "1912.50", "Amazon", "Chicago", "2025-01-10 15:15", "TXN9", "-")
	assertContains(t, RenderTransactions(nil), "No transactions")
}

func TestRenderTable(t *testing.T) {
	tbl, err := dataset.New(
		[]string{"transaction_id", "merchant"},
		[][]string{{"T1", "A very long merchant name that overflows"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	result := RenderTable(tbl)
	assertContains(t, result, "transaction_id", "T1", "A very long merchant ...")

	empty, _ := dataset.New([]string{"a"}, nil)
	assertContains(t, RenderTable(empty), "(no rows)")
	assertContains(t, RenderTable(&dataset.Table{}), "Empty table")
}

func TestRenderSchema(t *testing.T) {
	s := features.Schema{
		Label:   "is_fraud",
		Dropped: []string{"transaction_id"},
		Columns: []features.Column{
			{Name: "amount", Kind: features.KindScaled, Source: "amount"},
			{Name: "merchant_B", Kind: features.KindIndicator, Source: "merchant", Category: "B"},
		},
		Encodings: []features.Encoding{{Attribute: "merchant", Categories: []string{"A", "B"}}},
		Scalings:  []features.Scaling{{Attribute: "amount", Mean: 10, Std: 2}},
	}
	assertContains(t, RenderSchema(s),
		"Label:   is_fraud",
		"Dropped: transaction_id",
		"merchant_B", "merchant = B (vs A)",
		"mean 10, std 2",
		"merchant reference category: A")
}

func TestRenderSchemaErrors(t *testing.T) {
	assertContains(t, RenderSchemaErrors(nil), "schemas match")

	errs := []features.SchemaError{{Check: "missing", Column: "merchant_B", Description: "not in actual schema"}}
	assertContains(t, RenderSchemaErrors(errs), "1 schema difference", "missing [merchant_B]")
}

func TestRenderReport(t *testing.T) {
	r, err := evaluation.NewReport("Random Forest", []string{"0", "1"}, []string{"0", "1"})
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, RenderReport(r), "Random Forest", "precision", "macro avg")
}

func TestRenderDatasets(t *testing.T) {
	files := []dataset.FileInfo{
		{Name: "transactions.csv", Format: "csv", Size: 2048},
		{Name: "big.tsv", Format: "tsv", Size: 3 * 1024 * 1024},
	}
	assertContains(t, RenderDatasets(files), "transactions.csv", "2 KB", "big.tsv", "3.0 MB")
	assertContains(t, RenderDatasets(nil), "No datasets found")
}

func TestFormatThousands(t *testing.T) {
	tests := map[string]string{
		"0":          "0",
		"999":        "999",
		"1000":       "1,000",
		"1234567.89": "1,234,567.89",
		"-45678.5":   "-45,678.5",
	}
	for in, want := range tests {
		if got := formatThousands(in); got != want {
			t.Errorf("formatThousands(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 5); got != "ab..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("got %q", got)
	}
}
