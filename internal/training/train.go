// Package training fits the classifier variants on a seeded train/held-out
// partition of a processed table and evaluates them on the held-out rows.
package training

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cleared-dev/fraudlens/internal/classifier"
	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/evaluation"
	"github.com/cleared-dev/fraudlens/internal/features"
)

var (
	// ErrInsufficientData is returned when the table is too small to split.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrSingleClass is returned when the label, or the training partition,
	// holds only one distinct value.
	ErrSingleClass = errors.New("label has a single class")
)

// Model names, in training order.
const (
	LogisticRegression = "Logistic Regression"
	RandomForest       = "Random Forest"
)

// Model is a fitted classifier variant.
type Model struct {
	Name       string
	Classifier classifier.Classifier
}

// HeldOut is the evaluation partition.
type HeldOut struct {
	X      [][]float64
	Labels []string
	Rows   []int // indices into the processed table
}

// Result is the output of Train.
type Result struct {
	Models  []Model
	Reports []*evaluation.Report // same order as Models
	HeldOut HeldOut
	Classes []string // sorted label values; class i is Classes[i]
	Split   Partition
}

// Model returns the fitted variant with the given name.
func (r *Result) Model(name string) (classifier.Classifier, bool) {
	for _, m := range r.Models {
		if m.Name == name {
			return m.Classifier, true
		}
	}
	return nil, false
}

// Report returns the report of the variant with the given name.
func (r *Result) Report(name string) (*evaluation.Report, bool) {
	for _, rep := range r.Reports {
		if rep.Model == name {
			return rep, true
		}
	}
	return nil, false
}

// Variants returns unfitted classifiers configured from cfg, in training order.
func Variants(cfg config.ModelsConfig) []Model {
	return []Model{
		{
			Name: LogisticRegression,
			Classifier: classifier.NewLogisticRegression(
				classifier.WithMaxIter(cfg.Logistic.MaxIter),
				classifier.WithLearningRate(cfg.Logistic.LearningRate),
				classifier.WithC(cfg.Logistic.C),
			),
		},
		{
			Name: RandomForest,
			Classifier: classifier.NewRandomForest(
				classifier.WithNEstimators(cfg.Forest.NEstimators),
				classifier.WithMaxDepth(cfg.Forest.MaxDepth),
				classifier.WithMaxFeatures(cfg.Forest.MaxFeatures),
				classifier.WithSeed(cfg.Forest.Seed),
			),
		},
	}
}

// Train splits p, fits every variant on the training rows and reports on the
// held-out rows. p is not modified.
func Train(p *features.Processed, split config.SplitConfig, models config.ModelsConfig) (*Result, error) {
	classes := distinct(p.Labels)
	if p.Len() > 0 && len(classes) < 2 {
		return nil, fmt.Errorf("%w: only %q present", ErrSingleClass, classes[0])
	}

	part, err := Split(p.Len(), split.TestRatio, split.Seed)
	if err != nil {
		return nil, err
	}

	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	trainX, trainY := make([][]float64, len(part.Train)), make([]int, len(part.Train))
	trainClasses := map[int]bool{}
	for i, row := range part.Train {
		trainX[i] = p.X[row]
		trainY[i] = classIndex[p.Labels[row]]
		trainClasses[trainY[i]] = true
	}
	if len(trainClasses) < 2 {
		return nil, fmt.Errorf("%w: training partition has one class", ErrSingleClass)
	}

	held := HeldOut{
		X:      make([][]float64, len(part.Test)),
		Labels: make([]string, len(part.Test)),
		Rows:   append([]int(nil), part.Test...),
	}
	for i, row := range part.Test {
		held.X[i] = append([]float64(nil), p.X[row]...)
		held.Labels[i] = p.Labels[row]
	}

	res := &Result{HeldOut: held, Classes: classes, Split: part}
	for _, m := range Variants(models) {
		if err := m.Classifier.Fit(trainX, trainY); err != nil {
			return nil, fmt.Errorf("fitting %s: %w", m.Name, err)
		}
		pred := m.Classifier.Predict(held.X)
		yPred := make([]string, len(pred))
		for i, c := range pred {
			yPred[i] = classes[c]
		}
		rep, err := evaluation.NewReport(m.Name, held.Labels, yPred, classes...)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", m.Name, err)
		}
		res.Models = append(res.Models, m)
		res.Reports = append(res.Reports, rep)
	}
	return res, nil
}

func distinct(labels []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
