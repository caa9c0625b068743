// Package classifier implements the binary/multiclass classifiers used by
// the trainer: a logistic regression and a random forest of CART trees.
//
// Class labels are dense integers 0..k-1. Every implementation is
// deterministic for a given seed and runs on the calling goroutine.
package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when fitting on no rows.
	ErrEmpty = errors.New("classifier: empty training set")
	// ErrSingleClass is returned when the target holds fewer than two classes.
	ErrSingleClass = errors.New("classifier: need at least two classes")
)

// Classifier is a supervised model over dense float features.
type Classifier interface {
	Name() string
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	// PredictProba returns one probability vector per row, indexed by class.
	PredictProba(X [][]float64) [][]float64
}

// checkTarget validates X/y and returns the number of classes (max label + 1).
func checkTarget(X [][]float64, y []int) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmpty
	}
	if len(y) != len(X) {
		return 0, fmt.Errorf("classifier: X has %d rows, y has %d", len(X), len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return 0, fmt.Errorf("classifier: row %d has %d features, expected %d", i, len(X[i]), p)
		}
	}

	k := 0
	seen := map[int]bool{}
	for i, c := range y {
		if c < 0 {
			return 0, fmt.Errorf("classifier: negative label %d at row %d", c, i)
		}
		seen[c] = true
		if c+1 > k {
			k = c + 1
		}
	}
	if len(seen) < 2 {
		return 0, ErrSingleClass
	}
	return k, nil
}

// argmax returns the index of the largest value; ties go to the lowest index.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func predictFromProba(proba [][]float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = argmax(p)
	}
	return out
}
