package dataset

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// SyntheticOptions controls Synthetic.
type SyntheticOptions struct {
	Rows      int
	Positives int // rows labeled fraud
	Merchants []string
	Locations []string
	Start     time.Time
	Seed      int64
}

// DefaultSyntheticOptions mirrors the shape of the bundled transactions file.
func DefaultSyntheticOptions() SyntheticOptions {
	return SyntheticOptions{
		Rows:      10000,
		Positives: 500,
		Merchants: []string{"Amazon", "Best Buy", "Target", "Walmart", "eBay"},
		Locations: []string{"Chicago", "Houston", "Los Angeles", "New York", "Seattle"},
		Start:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}
}

// Synthetic generates a reproducible transactions table with columns
// transaction_id, amount, merchant, location, timestamp, is_fraud.
// Every merchant and location appears once Rows covers the combinations;
// fraudulent rows carry larger amounts.
func Synthetic(opts SyntheticOptions) (*Table, error) {
	if opts.Rows < 0 || opts.Positives < 0 || opts.Positives > opts.Rows {
		return nil, fmt.Errorf("invalid synthetic options: %d rows, %d positives", opts.Rows, opts.Positives)
	}
	if len(opts.Merchants) == 0 || len(opts.Locations) == 0 {
		return nil, fmt.Errorf("invalid synthetic options: merchants and locations must be non-empty")
	}

	rnd := rand.New(rand.NewSource(opts.Seed))
	fraud := make(map[int]bool, opts.Positives)
	for _, i := range rnd.Perm(opts.Rows)[:opts.Positives] {
		fraud[i] = true
	}

	t := &Table{Columns: []string{"transaction_id", "amount", "merchant", "location", "timestamp", "is_fraud"}}
	t.Rows = make([][]string, opts.Rows)
	for i := 0; i < opts.Rows; i++ {
		amount := 5 + rnd.ExpFloat64()*60
		label := "0"
		if fraud[i] {
			amount = 600 + rnd.Float64()*2400
			label = "1"
		}
		ts := opts.Start.Add(time.Duration(i) * 17 * time.Minute)
		t.Rows[i] = []string{
			fmt.Sprintf("TXN%06d", i+1),
			strconv.FormatFloat(amount, 'f', 2, 64),
			opts.Merchants[i%len(opts.Merchants)],
			opts.Locations[(i/len(opts.Merchants))%len(opts.Locations)],
			ts.Format("2006-01-02 15:04:05"),
			label,
		}
	}
	return t, nil
}
