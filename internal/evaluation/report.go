// Package evaluation computes classification reports: accuracy plus
// per-class precision, recall, F1 and support, with macro and
// support-weighted averages.
package evaluation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoPredictions is returned for empty or mismatched label slices.
var ErrNoPredictions = errors.New("no predictions to evaluate")

// Keys used by Report.Map for the non-class entries.
const (
	KeyAccuracy    = "accuracy"
	KeyMacroAvg    = "macro avg"
	KeyWeightedAvg = "weighted avg"
)

// Metrics holds precision, recall, F1 and support for one class or average.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// ClassMetrics is Metrics for a single class label.
type ClassMetrics struct {
	Label string
	Metrics
}

// Report is the evaluation of one model on the held-out partition.
type Report struct {
	Model       string
	Classes     []ClassMetrics // sorted by label
	Accuracy    float64
	MacroAvg    Metrics
	WeightedAvg Metrics
}

// NewReport evaluates yPred against yTrue. Classes are the sorted union of
// both slices and any extra labels, so a class absent from the evaluated
// rows can still be listed with zero support. A zero denominator yields 0
// for that metric.
func NewReport(model string, yTrue, yPred []string, labels ...string) (*Report, error) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d true labels, %d predictions", ErrNoPredictions, len(yTrue), len(yPred))
	}

	labels = unionLabels(labels, yTrue, yPred)
	tp := map[string]int{}
	predicted := map[string]int{}
	actual := map[string]int{}
	correct := 0
	for i := range yTrue {
		actual[yTrue[i]]++
		predicted[yPred[i]]++
		if yTrue[i] == yPred[i] {
			tp[yTrue[i]]++
			correct++
		}
	}

	r := &Report{
		Model:    model,
		Accuracy: float64(correct) / float64(len(yTrue)),
	}
	total := len(yTrue)
	for _, l := range labels {
		precision := ratio(tp[l], predicted[l])
		recall := ratio(tp[l], actual[l])
		m := Metrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1(precision, recall),
			Support:   actual[l],
		}
		r.Classes = append(r.Classes, ClassMetrics{Label: l, Metrics: m})

		r.MacroAvg.Precision += m.Precision
		r.MacroAvg.Recall += m.Recall
		r.MacroAvg.F1 += m.F1

		w := float64(m.Support) / float64(total)
		r.WeightedAvg.Precision += w * m.Precision
		r.WeightedAvg.Recall += w * m.Recall
		r.WeightedAvg.F1 += w * m.F1
	}

	k := float64(len(labels))
	r.MacroAvg.Precision /= k
	r.MacroAvg.Recall /= k
	r.MacroAvg.F1 /= k
	r.MacroAvg.Support = total
	r.WeightedAvg.Support = total
	return r, nil
}

// Class returns the metrics for label.
func (r *Report) Class(label string) (ClassMetrics, bool) {
	for _, c := range r.Classes {
		if c.Label == label {
			return c, true
		}
	}
	return ClassMetrics{}, false
}

// Support is the number of evaluated rows.
func (r *Report) Support() int {
	n := 0
	for _, c := range r.Classes {
		n += c.Support
	}
	return n
}

// Map returns the report as a nested mapping keyed by class label plus
// "accuracy", "macro avg" and "weighted avg".
func (r *Report) Map() map[string]any {
	out := make(map[string]any, len(r.Classes)+3)
	for _, c := range r.Classes {
		out[c.Label] = c.Metrics
	}
	out[KeyAccuracy] = r.Accuracy
	out[KeyMacroAvg] = r.MacroAvg
	out[KeyWeightedAvg] = r.WeightedAvg
	return out
}

// String renders the report as an aligned text table.
func (r *Report) String() string {
	width := len(KeyWeightedAvg)
	for _, c := range r.Classes {
		width = max(width, len(c.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, KeyAccuracy, "", "", r.Accuracy, r.Support())
	for _, avg := range []struct {
		name string
		m    Metrics
	}{{KeyMacroAvg, r.MacroAvg}, {KeyWeightedAvg, r.WeightedAvg}} {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, avg.name, avg.m.Precision, avg.m.Recall, avg.m.F1, avg.m.Support)
	}
	return b.String()
}

func unionLabels(sets ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sets {
		for _, l := range s {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	sort.Strings(out)
	return out
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
