package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/model"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Decode converts table rows into typed transactions. Absent columns leave
// zero values. A present amount that does not parse is an error; timestamps
// that do not parse are left zero.
func Decode(t *Table, cols config.ColumnsConfig) ([]model.Transaction, error) {
	idIdx := t.Index(cols.ID)
	amountIdx := t.Index(cols.Amount)
	merchantIdx := t.Index(cols.Merchant)
	locationIdx := t.Index(cols.Location)
	tsIdx := t.Index(cols.Timestamp)
	labelIdx := t.Index(cols.Label)

	txns := make([]model.Transaction, len(t.Rows))
	for i, row := range t.Rows {
		txn := model.Transaction{Row: i}
		if idIdx >= 0 {
			txn.ID = row[idIdx]
		}
		if amountIdx >= 0 {
			amt, err := decimal.NewFromString(strings.TrimSpace(row[amountIdx]))
			if err != nil {
				return nil, fmt.Errorf("%w: %q row %d: %q", ErrNonNumeric, cols.Amount, i+2, row[amountIdx])
			}
			txn.Amount = amt
		}
		if merchantIdx >= 0 {
			txn.Merchant = row[merchantIdx]
		}
		if locationIdx >= 0 {
			txn.Location = row[locationIdx]
		}
		if tsIdx >= 0 {
			txn.Timestamp = ParseTimestamp(row[tsIdx])
		}
		if labelIdx >= 0 {
			txn.IsFraud = IsPositive(row[labelIdx])
		}
		txns[i] = txn
	}
	return txns, nil
}

// ParseTimestamp tries the known layouts and returns the zero time on failure.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// IsPositive reports whether a label cell marks the positive (fraud) class.
func IsPositive(s string) bool {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	b, err := strconv.ParseBool(strings.ToLower(s))
	return err == nil && b
}
