package classifier

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// RandomForest averages the class probabilities of bootstrap-trained trees.
// Trees are grown one after another from a single seeded source, so a fixed
// Seed yields an identical forest.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int // 0 = unlimited
	MinSamplesSplit int
	MaxFeatures     int // 0 = sqrt(number of features)
	Bootstrap       bool
	Seed            int64

	trees    []*DecisionTree
	nClasses int
}

// ForestOption configures a RandomForest.
type ForestOption func(*RandomForest)

func WithNEstimators(n int) ForestOption { return func(f *RandomForest) { f.NEstimators = n } }
func WithMaxDepth(d int) ForestOption    { return func(f *RandomForest) { f.MaxDepth = d } }
func WithMaxFeatures(n int) ForestOption { return func(f *RandomForest) { f.MaxFeatures = n } }
func WithSeed(seed int64) ForestOption   { return func(f *RandomForest) { f.Seed = seed } }

// NewRandomForest returns a 100-tree bootstrap forest seeded with 42.
func NewRandomForest(opts ...ForestOption) *RandomForest {
	f := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		Bootstrap:       true,
		Seed:            42,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Name implements Classifier.
func (f *RandomForest) Name() string { return "Random Forest" }

// Fit implements Classifier.
func (f *RandomForest) Fit(X [][]float64, y []int) error {
	k, err := checkTarget(X, y)
	if err != nil {
		return err
	}
	f.nClasses = k

	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = sqrtFeatures(len(X[0]))
	}

	rnd := rand.New(rand.NewSource(f.Seed))
	f.trees = make([]*DecisionTree, f.NEstimators)
	for t := range f.trees {
		tree := NewDecisionTree(
			WithTreeMaxDepth(f.MaxDepth),
			WithTreeMaxFeatures(maxFeatures),
			WithTreeSeed(rnd.Int63()),
		)
		tree.MinSamplesSplit = max(2, f.MinSamplesSplit)

		treeRnd := rand.New(rand.NewSource(tree.Seed))
		idx := make([]int, len(X))
		for i := range idx {
			if f.Bootstrap {
				idx[i] = treeRnd.Intn(len(X))
			} else {
				idx[i] = i
			}
		}
		tree.grow(X, y, idx, k, treeRnd)
		f.trees[t] = tree
	}
	return nil
}

// PredictProba implements Classifier.
func (f *RandomForest) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		sum := make([]float64, f.nClasses)
		for _, t := range f.trees {
			floats.Add(sum, t.walk(x).proba)
		}
		floats.Scale(1/float64(len(f.trees)), sum)
		out[i] = sum
	}
	return out
}

// Predict implements Classifier.
func (f *RandomForest) Predict(X [][]float64) []int {
	return predictFromProba(f.PredictProba(X))
}

// Trees returns the number of fitted trees.
func (f *RandomForest) Trees() int { return len(f.trees) }
