package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// DecisionTree is a CART classifier that splits on Gini impurity.
type DecisionTree struct {
	MaxDepth        int // 0 = unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // features considered per split; 0 = all
	Seed            int64

	root     *node
	nClasses int
}

type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      *node
	right     *node
	proba     []float64
}

// TreeOption configures a DecisionTree.
type TreeOption func(*DecisionTree)

func WithTreeMaxDepth(d int) TreeOption    { return func(t *DecisionTree) { t.MaxDepth = d } }
func WithTreeMaxFeatures(n int) TreeOption { return func(t *DecisionTree) { t.MaxFeatures = n } }
func WithTreeSeed(seed int64) TreeOption   { return func(t *DecisionTree) { t.Seed = seed } }

// NewDecisionTree returns a fully grown tree that considers every feature.
func NewDecisionTree(opts ...TreeOption) *DecisionTree {
	t := &DecisionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Name implements Classifier.
func (t *DecisionTree) Name() string { return "Decision Tree" }

// Fit implements Classifier.
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	k, err := checkTarget(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.grow(X, y, idx, k, rand.New(rand.NewSource(t.Seed)))
	return nil
}

// grow builds the tree over the rows in idx. The forest calls it directly
// with bootstrap samples, which may repeat rows or miss a class entirely.
func (t *DecisionTree) grow(X [][]float64, y []int, idx []int, nClasses int, rnd *rand.Rand) {
	t.nClasses = nClasses
	t.root = t.build(X, y, idx, 0, rnd)
}

func (t *DecisionTree) build(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *node {
	counts := make([]float64, t.nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}

	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) || pure(counts) {
		return leaf(counts)
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, counts, rnd)
	if !ok {
		return leaf(counts)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      t.build(X, y, left, depth+1, rnd),
		right:     t.build(X, y, right, depth+1, rnd),
	}
}

func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, counts []float64, rnd *rand.Rand) (int, float64, bool) {
	features, budget := t.candidateFeatures(len(X[0]), rnd)
	n := float64(len(idx))
	parent := gini(counts, n)

	bestGain := 1e-12
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(idx))
	leftCounts := make([]float64, t.nClasses)
	rightCounts := make([]float64, t.nClasses)

	for visited, f := range features {
		if visited >= budget && bestFeature >= 0 {
			break
		}
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return X[sorted[a]][f] < X[sorted[b]][f] })

		for c := range leftCounts {
			leftCounts[c] = 0
			rightCounts[c] = counts[c]
		}

		for pos := 0; pos < len(sorted)-1; pos++ {
			c := y[sorted[pos]]
			leftCounts[c]++
			rightCounts[c]--

			lo, hi := X[sorted[pos]][f], X[sorted[pos+1]][f]
			if lo == hi {
				continue
			}
			nl := float64(pos + 1)
			nr := n - nl
			if int(nl) < t.MinSamplesLeaf || int(nr) < t.MinSamplesLeaf {
				continue
			}
			gain := parent - (nl/n)*gini(leftCounts, nl) - (nr/n)*gini(rightCounts, nr)
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// candidateFeatures returns the order in which features are tried and how
// many must be tried. When none of the first budget features yields a valid
// split, the search keeps going through the rest.
func (t *DecisionTree) candidateFeatures(p int, rnd *rand.Rand) ([]int, int) {
	if t.MaxFeatures <= 0 || t.MaxFeatures >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all, p
	}
	return rnd.Perm(p), t.MaxFeatures
}

// PredictProba implements Classifier.
func (t *DecisionTree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = append([]float64(nil), t.walk(x).proba...)
	}
	return out
}

// Predict implements Classifier.
func (t *DecisionTree) Predict(X [][]float64) []int {
	return predictFromProba(t.PredictProba(X))
}

// Depth returns the depth of the fitted tree; a single leaf has depth 0.
func (t *DecisionTree) Depth() int {
	return depth(t.root)
}

func (t *DecisionTree) walk(x []float64) *node {
	n := t.root
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

func depth(n *node) int {
	if n == nil || n.leaf {
		return 0
	}
	return 1 + max(depth(n.left), depth(n.right))
}

func leaf(counts []float64) *node {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	proba := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			proba[i] = c / total
		}
	}
	return &node{leaf: true, proba: proba}
}

func pure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := c / n
		sum += p * p
	}
	return 1 - sum
}

// sqrtFeatures is the default per-split feature budget for forests.
func sqrtFeatures(p int) int {
	return max(1, int(math.Sqrt(float64(p))))
}
