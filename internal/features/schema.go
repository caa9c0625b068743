package features

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/cleared-dev/fraudlens/internal/colname"
	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/dataset"
)

var (
	// ErrMissingColumn marks a required column absent from the raw table.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNonNumeric marks a designated numeric column holding non-numeric
	// values. It is the same sentinel the loader reports when decoding amounts.
	ErrNonNumeric = dataset.ErrNonNumeric
)

// Kind classifies a feature column.
type Kind string

const (
	KindScaled    Kind = "scaled"    // designated numeric, standardized
	KindNumeric   Kind = "numeric"   // numeric passthrough, unscaled
	KindIndicator Kind = "indicator" // one-hot flag for a single category
)

// Column is one feature column of the processed table.
type Column struct {
	Name     string
	Kind     Kind
	Source   string // raw attribute the column derives from
	Category string // indicator only
}

// Encoding records how one categorical attribute was expanded.
// Categories is sorted; Categories[0] is the reference and has no indicator.
type Encoding struct {
	Attribute  string
	Categories []string
}

// Reference returns the category encoded as all-zero indicators.
func (e Encoding) Reference() string {
	if len(e.Categories) == 0 {
		return ""
	}
	return e.Categories[0]
}

// Scaling records the statistics used to standardize a numeric attribute.
type Scaling struct {
	Attribute string
	Mean      float64
	Std       float64 // population std; 1 when the column is constant
}

// Schema is the typed feature schema inferred from one raw table.
type Schema struct {
	Label     string
	Dropped   []string
	Columns   []Column
	Encodings []Encoding
	Scalings  []Scaling
}

// FeatureNames returns the feature column names in order, excluding the label.
func (s Schema) FeatureNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Encoding returns the encoding for a categorical attribute.
func (s Schema) Encoding(attribute string) (Encoding, bool) {
	for _, e := range s.Encodings {
		if e.Attribute == attribute {
			return e, true
		}
	}
	return Encoding{}, false
}

// Scaling returns the scaling parameters for a numeric attribute.
func (s Schema) Scaling(attribute string) (Scaling, bool) {
	for _, sc := range s.Scalings {
		if sc.Attribute == attribute {
			return sc, true
		}
	}
	return Scaling{}, false
}

// InferSchema derives the feature schema from a raw table. The identifier
// and configured drop columns are removed, the label is set aside, designated
// numeric columns are scaled, designated categorical columns are one-hot
// encoded, and any other column is kept as numeric if every value parses or
// encoded as categorical otherwise.
func InferSchema(t *dataset.Table, cols config.ColumnsConfig) (Schema, error) {
	if !t.Has(cols.Label) {
		return Schema{}, fmt.Errorf("%w: label %q", ErrMissingColumn, cols.Label)
	}
	for _, name := range cols.Numeric {
		if !t.Has(name) {
			return Schema{}, fmt.Errorf("%w: numeric %q", ErrMissingColumn, name)
		}
	}
	for _, name := range cols.Categorical {
		if !t.Has(name) {
			return Schema{}, fmt.Errorf("%w: categorical %q", ErrMissingColumn, name)
		}
	}

	s := Schema{Label: cols.Label}
	skip := map[string]bool{cols.Label: true}
	for _, name := range append([]string{cols.ID}, cols.Drop...) {
		if t.Has(name) && !skip[name] {
			s.Dropped = append(s.Dropped, name)
			skip[name] = true
		}
	}

	numeric := toSet(cols.Numeric)
	categorical := toSet(cols.Categorical)
	encodeOrder := append([]string(nil), cols.Categorical...)

	for _, name := range t.Columns {
		if skip[name] || categorical[name] {
			continue
		}
		values, err := t.Column(name)
		if err != nil {
			return Schema{}, err
		}

		if numeric[name] {
			xs, err := parseFloats(values)
			if err != nil {
				return Schema{}, fmt.Errorf("%w: %q: %v", ErrNonNumeric, name, err)
			}
			s.Columns = append(s.Columns, Column{Name: name, Kind: KindScaled, Source: name})
			s.Scalings = append(s.Scalings, fitScaling(name, xs))
			continue
		}

		if _, err := parseFloats(values); err == nil {
			s.Columns = append(s.Columns, Column{Name: name, Kind: KindNumeric, Source: name})
			continue
		}
		encodeOrder = append(encodeOrder, name)
	}

	for _, name := range encodeOrder {
		if skip[name] {
			continue
		}
		values, err := t.Column(name)
		if err != nil {
			return Schema{}, err
		}
		enc := Encoding{Attribute: name, Categories: distinctSorted(values)}
		s.Encodings = append(s.Encodings, enc)
		for _, cat := range enc.Categories[min(1, len(enc.Categories)):] {
			s.Columns = append(s.Columns, Column{
				Name:     colname.FormatIndicator(name, cat),
				Kind:     KindIndicator,
				Source:   name,
				Category: cat,
			})
		}
	}

	return s, nil
}

func fitScaling(name string, xs []float64) Scaling {
	if len(xs) == 0 {
		return Scaling{Attribute: name, Std: 1}
	}
	mean, std := stat.PopMeanStdDev(xs, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	return Scaling{Attribute: name, Mean: mean, Std: std}
}

func parseFloats(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("row %d: %q", i+2, v)
		}
		out[i] = f
	}
	return out, nil
}

func distinctSorted(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
