package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the typed view of one raw dataset row.
// Fields whose column is absent from the dataset keep their zero value.
type Transaction struct {
	Row       int // zero-based position in the raw table
	ID        string
	Amount    decimal.Decimal
	Merchant  string
	Location  string
	Timestamp time.Time // zero if absent or unparseable
	IsFraud   bool
}

// HasTimestamp reports whether the timestamp was present and parseable.
func (t Transaction) HasTimestamp() bool {
	return !t.Timestamp.IsZero()
}

// Day truncates the timestamp to its calendar day in UTC.
func (t Transaction) Day() time.Time {
	y, m, d := t.Timestamp.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
