// Package analytics computes the dashboard figures for a transactions
// dataset: headline KPIs, fraud breakdowns by attribute and day, and the
// largest fraudulent transactions. It renders nothing.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/model"
)

// Summary holds the headline KPIs of a dataset.
type Summary struct {
	Total         int
	Fraud         int
	FraudPercent  float64
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
}

// Summarize computes the KPIs. Transactions decoded from a table without a
// label or amount column count as non-fraud with zero amount, so those
// figures come out as zero.
func Summarize(txns []model.Transaction) Summary {
	s := Summary{Total: len(txns)}
	for _, t := range txns {
		if t.IsFraud {
			s.Fraud++
		}
		s.TotalAmount = s.TotalAmount.Add(t.Amount)
	}
	if s.Total > 0 {
		s.FraudPercent = float64(s.Fraud) / float64(s.Total) * 100
		s.AverageAmount = s.TotalAmount.Div(decimal.NewFromInt(int64(s.Total)))
	}
	return s
}

// Field selects the attribute TopFraudBy groups on.
type Field string

const (
	FieldMerchant Field = "merchant"
	FieldLocation Field = "location"
)

func (f Field) value(t model.Transaction) string {
	switch f {
	case FieldMerchant:
		return t.Merchant
	case FieldLocation:
		return t.Location
	}
	return ""
}

// Count is a grouped fraud count.
type Count struct {
	Key   string
	Count int
}

// TopFraudBy returns up to n values of field ranked by fraud count,
// ties broken alphabetically. Empty values are ignored; n <= 0 means all.
func TopFraudBy(txns []model.Transaction, field Field, n int) []Count {
	counts := map[string]int{}
	for _, t := range txns {
		if !t.IsFraud {
			continue
		}
		if k := field.value(t); k != "" {
			counts[k]++
		}
	}

	out := make([]Count, 0, len(counts))
	for k, c := range counts {
		out = append(out, Count{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DayCount is the fraud tally of one calendar day.
type DayCount struct {
	Day   time.Time
	Fraud int
	Total int
}

// FraudTrend returns per-day fraud counts in ascending date order.
// Transactions without a parseable timestamp are skipped.
func FraudTrend(txns []model.Transaction) []DayCount {
	byDay := map[time.Time]*DayCount{}
	for _, t := range txns {
		if !t.HasTimestamp() {
			continue
		}
		d := t.Day()
		dc, ok := byDay[d]
		if !ok {
			dc = &DayCount{Day: d}
			byDay[d] = dc
		}
		dc.Total++
		if t.IsFraud {
			dc.Fraud++
		}
	}

	out := make([]DayCount, 0, len(byDay))
	for _, dc := range byDay {
		out = append(out, *dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// TopFraudByAmount returns up to n fraudulent transactions by descending
// amount; equal amounts keep dataset order. n <= 0 means all.
func TopFraudByAmount(txns []model.Transaction, n int) []model.Transaction {
	var fraud []model.Transaction
	for _, t := range txns {
		if t.IsFraud {
			fraud = append(fraud, t)
		}
	}
	sort.SliceStable(fraud, func(i, j int) bool { return fraud[i].Amount.GreaterThan(fraud[j].Amount) })
	if n > 0 && len(fraud) > n {
		fraud = fraud[:n]
	}
	return fraud
}

// Bin is one amount range of a histogram, split by class.
type Bin struct {
	Lo, Hi float64
	Fraud  int
	Legit  int
}

// AmountHistogram buckets amounts into equal-width bins spanning the
// observed range, counting fraudulent and legitimate rows separately.
func AmountHistogram(txns []model.Transaction, bins int) []Bin {
	if len(txns) == 0 || bins <= 0 {
		return nil
	}

	var all, fraud, legit []float64
	for _, t := range txns {
		v := t.Amount.InexactFloat64()
		all = append(all, v)
		if t.IsFraud {
			fraud = append(fraud, v)
		} else {
			legit = append(legit, v)
		}
	}
	sort.Float64s(fraud)
	sort.Float64s(legit)

	lo, hi := floats.Min(all), floats.Max(all)
	if lo == hi {
		hi = lo + 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// The top divider is exclusive; nudge it so the maximum lands in the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	fc := stat.Histogram(nil, dividers, fraud, nil)
	lc := stat.Histogram(nil, dividers, legit, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Fraud: int(fc[i]), Legit: int(lc[i])}
	}
	out[bins-1].Hi = hi
	return out
}

// FraudOnly returns the rows whose label marks fraud. A table without the
// label column is returned as an unfiltered copy.
func FraudOnly(t *dataset.Table, label string) *dataset.Table {
	idx := t.Index(label)
	if idx < 0 {
		return t.Clone()
	}
	return t.Filter(func(row []string) bool { return dataset.IsPositive(row[idx]) })
}

// Search returns the rows where any cell contains query, ignoring case.
// An empty query matches every row.
func Search(t *dataset.Table, query string) *dataset.Table {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return t.Clone()
	}
	return t.Filter(func(row []string) bool {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), q) {
				return true
			}
		}
		return false
	})
}
