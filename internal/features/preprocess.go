package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/dataset"
)

// Processed is the model-ready table: one feature row per raw row plus the
// untouched label column.
type Processed struct {
	Schema Schema
	X      [][]float64
	Labels []string
}

// Len returns the number of rows.
func (p *Processed) Len() int { return len(p.X) }

// Preprocess infers the schema of t and applies it to t in one pass. The
// input table is not modified. It returns the processed table and the
// ordered feature names.
func Preprocess(t *dataset.Table, cols config.ColumnsConfig) (*Processed, []string, error) {
	schema, err := InferSchema(t, cols)
	if err != nil {
		return nil, nil, err
	}
	p, err := apply(t, schema)
	if err != nil {
		return nil, nil, err
	}
	return p, schema.FeatureNames(), nil
}

func apply(t *dataset.Table, s Schema) (*Processed, error) {
	labels, err := t.Column(s.Label)
	if err != nil {
		return nil, fmt.Errorf("%w: label %q", ErrMissingColumn, s.Label)
	}

	idx := make([]int, len(s.Columns))
	for j, c := range s.Columns {
		idx[j] = t.Index(c.Source)
		if idx[j] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c.Source)
		}
	}
	scalings := make(map[string]Scaling, len(s.Scalings))
	for _, sc := range s.Scalings {
		scalings[sc.Attribute] = sc
	}

	X := make([][]float64, t.Len())
	for i, row := range t.Rows {
		x := make([]float64, len(s.Columns))
		for j, c := range s.Columns {
			raw := row[idx[j]]
			switch c.Kind {
			case KindIndicator:
				if raw == c.Category {
					x[j] = 1
				}
			case KindScaled:
				v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %q row %d: %q", ErrNonNumeric, c.Source, i+2, raw)
				}
				sc := scalings[c.Source]
				x[j] = (v - sc.Mean) / sc.Std
			case KindNumeric:
				v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %q row %d: %q", ErrNonNumeric, c.Source, i+2, raw)
				}
				x[j] = v
			}
		}
		X[i] = x
	}

	return &Processed{Schema: s, X: X, Labels: labels}, nil
}

// Table renders the processed rows as a string table: feature columns in
// schema order followed by the label column.
func (p *Processed) Table() *dataset.Table {
	cols := append(p.Schema.FeatureNames(), p.Schema.Label)
	rows := make([][]string, len(p.X))
	for i, x := range p.X {
		row := make([]string, 0, len(cols))
		for _, v := range x {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows[i] = append(row, p.Labels[i])
	}
	return &dataset.Table{Columns: cols, Rows: rows}
}
