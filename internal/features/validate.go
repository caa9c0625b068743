package features

import "fmt"

// SchemaError describes one difference between two feature schemas.
type SchemaError struct {
	Check       string // "label", "missing", "extra", "kind", "order"
	Column      string
	Description string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.Column, e.Description)
}

// Compare reports how actual differs from expected. An empty result means a
// model trained on expected could be fed rows shaped by actual.
func Compare(expected, actual Schema) []SchemaError {
	var errs []SchemaError

	if expected.Label != actual.Label {
		errs = append(errs, SchemaError{
			Check:       "label",
			Column:      actual.Label,
			Description: fmt.Sprintf("label is %q, expected %q", actual.Label, expected.Label),
		})
	}

	want := make(map[string]int, len(expected.Columns))
	for i, c := range expected.Columns {
		want[c.Name] = i
	}
	got := make(map[string]int, len(actual.Columns))
	for i, c := range actual.Columns {
		got[c.Name] = i
	}

	// Missing and kind changes, in expected order.
	for _, c := range expected.Columns {
		j, ok := got[c.Name]
		if !ok {
			errs = append(errs, SchemaError{Check: "missing", Column: c.Name, Description: "feature column not produced"})
			continue
		}
		if k := actual.Columns[j].Kind; k != c.Kind {
			errs = append(errs, SchemaError{
				Check:       "kind",
				Column:      c.Name,
				Description: fmt.Sprintf("kind is %s, expected %s", k, c.Kind),
			})
		}
	}

	// Extra columns, in actual order.
	for _, c := range actual.Columns {
		if _, ok := want[c.Name]; !ok {
			errs = append(errs, SchemaError{Check: "extra", Column: c.Name, Description: "unexpected feature column"})
		}
	}

	// Position only matters once both sides hold the same columns.
	if len(errs) == 0 {
		for i, c := range expected.Columns {
			if j := got[c.Name]; j != i {
				errs = append(errs, SchemaError{
					Check:       "order",
					Column:      c.Name,
					Description: fmt.Sprintf("at position %d, expected %d", j, i),
				})
			}
		}
	}

	return errs
}
