// Package dataset loads delimited transaction files into in-memory tables.
//
// A Table keeps every cell as the string read from the file. All Table
// operations return new tables; none of them modify the receiver.
package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks input that is not a readable delimited table.
	ErrMalformed = errors.New("malformed dataset")
	// ErrNonNumeric marks a numeric column holding a value that does not parse.
	ErrNonNumeric = errors.New("non-numeric value in numeric column")
)

// Table is an ordered header plus string records.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a Table, checking that every row matches the header width.
func New(columns []string, rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformed, i+1, len(row), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has a column.
func (t *Table) Has(name string) bool {
	return name != "" && t.Index(name) >= 0
}

// Column returns a copy of a column's values in row order.
func (t *Table) Column(name string) ([]string, error) {
	j := t.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, nil
}

// Value returns the cell at row i for a column, or "" if the column is absent.
func (t *Table) Value(i int, name string) string {
	j := t.Index(name)
	if j < 0 {
		return ""
	}
	return t.Rows[i][j]
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	cols := append([]string(nil), t.Columns...)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return &Table{Columns: cols, Rows: rows}
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// Head returns the first n rows (all rows if n exceeds the length).
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	c := &Table{Columns: t.Columns, Rows: t.Rows[:n]}
	return c.Clone()
}

// Drop returns the table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []int
	out := &Table{}
	for j, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, j)
			out.Columns = append(out.Columns, c)
		}
	}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(keep))
		for k, j := range keep {
			r[k] = row[j]
		}
		out.Rows[i] = r
	}
	return out
}
