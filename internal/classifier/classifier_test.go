package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns two well-separated 2-D blobs, class 0 left of the origin.
func separable() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		off := float64(i%5) * 0.1
		X = append(X, []float64{-2 - off, off})
		y = append(y, 0)
		X = append(X, []float64{2 + off, -off})
		y = append(y, 1)
	}
	return X, y
}

func threeBlobs() ([][]float64, []int) {
	centers := [][]float64{{-3, 0}, {3, 0}, {0, 3}}
	var X [][]float64
	var y []int
	for c, center := range centers {
		for i := 0; i < 10; i++ {
			off := float64(i%3)*0.2 - 0.2
			X = append(X, []float64{center[0] + off, center[1] - off})
			y = append(y, c)
		}
	}
	return X, y
}

func accuracy(pred, y []int) float64 {
	hit := 0
	for i := range y {
		if pred[i] == y[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(y))
}

func allClassifiers() []Classifier {
	return []Classifier{
		NewLogisticRegression(),
		NewDecisionTree(),
		NewRandomForest(WithNEstimators(15)),
	}
}

func TestClassifiers_Separable(t *testing.T) {
	X, y := separable()
	for _, c := range allClassifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			require.NoError(t, c.Fit(X, y))
			assert.Equal(t, 1.0, accuracy(c.Predict(X), y))

			got := c.Predict([][]float64{{-5, 0}, {5, 0}})
			assert.Equal(t, []int{0, 1}, got)
		})
	}
}

func TestClassifiers_ProbabilitiesAreDistributions(t *testing.T) {
	X, y := threeBlobs()
	for _, c := range allClassifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			require.NoError(t, c.Fit(X, y))
			proba := c.PredictProba(X)
			require.Len(t, proba, len(X))
			for _, p := range proba {
				require.Len(t, p, 3)
				sum := 0.0
				for _, v := range p {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 1.0)
					sum += v
				}
				assert.InDelta(t, 1.0, sum, 1e-9)
			}
		})
	}
}

func TestClassifiers_Multiclass(t *testing.T) {
	X, y := threeBlobs()
	for _, c := range allClassifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			require.NoError(t, c.Fit(X, y))
			assert.Equal(t, 1.0, accuracy(c.Predict(X), y))
		})
	}
}

func TestClassifiers_FitErrors(t *testing.T) {
	for _, c := range allClassifiers() {
		t.Run(c.Name(), func(t *testing.T) {
			assert.ErrorIs(t, c.Fit(nil, nil), ErrEmpty)
			assert.ErrorIs(t, c.Fit([][]float64{{1}, {2}}, []int{1, 1}), ErrSingleClass)

			err := c.Fit([][]float64{{1}, {2}}, []int{0})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "y has 1")

			err = c.Fit([][]float64{{1}, {2, 3}}, []int{0, 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 1")

			assert.Error(t, c.Fit([][]float64{{1}, {2}}, []int{0, -1}))
		})
	}
}

func TestLogisticRegression_Deterministic(t *testing.T) {
	X, y := separable()
	a := NewLogisticRegression(WithMaxIter(200))
	b := NewLogisticRegression(WithMaxIter(200))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	wa, ba := a.Coefficients()
	wb, bb := b.Coefficients()
	assert.Equal(t, wa, wb)
	assert.Equal(t, ba, bb)
	require.Len(t, wa, 1)
	assert.Greater(t, wa[0][0], 0.0)
}

func TestLogisticRegression_RegularizationShrinksWeights(t *testing.T) {
	X, y := separable()
	loose := NewLogisticRegression(WithC(100))
	tight := NewLogisticRegression(WithC(0.01))
	require.NoError(t, loose.Fit(X, y))
	require.NoError(t, tight.Fit(X, y))

	wl, _ := loose.Coefficients()
	wt, _ := tight.Coefficients()
	assert.Less(t, wt[0][0], wl[0][0])
}

func TestLogisticRegression_OneVsRest(t *testing.T) {
	X, y := threeBlobs()
	m := NewLogisticRegression()
	require.NoError(t, m.Fit(X, y))
	w, b := m.Coefficients()
	assert.Len(t, w, 3)
	assert.Len(t, b, 3)
}

func TestDecisionTree_TwoLevels(t *testing.T) {
	X := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	y := []int{0, 0, 1, 0}

	tree := NewDecisionTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, y, tree.Predict(X))
	assert.Equal(t, 2, tree.Depth())
}

func TestDecisionTree_MaxDepth(t *testing.T) {
	X := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	y := []int{0, 0, 1, 0}

	tree := NewDecisionTree(WithTreeMaxDepth(1))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, []float64{0.5, 0.5}, tree.PredictProba([][]float64{{1, 0}})[0])
}

func TestDecisionTree_LeafProbabilities(t *testing.T) {
	// Identical features cannot be split, so the root is a leaf with class frequencies.
	X := [][]float64{{1}, {1}, {1}, {1}}
	y := []int{0, 0, 0, 1}

	tree := NewDecisionTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, [][]float64{{0.75, 0.25}}, tree.PredictProba([][]float64{{1}}))
}

func TestRandomForest_Reproducible(t *testing.T) {
	X, y := threeBlobs()
	a := NewRandomForest(WithNEstimators(10), WithSeed(7))
	b := NewRandomForest(WithNEstimators(10), WithSeed(7))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	probe := [][]float64{{0, 0}, {-1, 1}, {1.5, 1.5}}
	assert.Equal(t, a.PredictProba(probe), b.PredictProba(probe))
	assert.Equal(t, 10, a.Trees())
}

func TestRandomForest_TreeOptions(t *testing.T) {
	X, y := threeBlobs()
	f := NewRandomForest(WithNEstimators(5), WithMaxDepth(3), WithMaxFeatures(1), WithSeed(7))
	require.NoError(t, f.Fit(X, y))

	seeds := make(map[int64]bool)
	for _, tree := range f.trees {
		assert.Equal(t, 1, tree.MaxFeatures)
		assert.Equal(t, 3, tree.MaxDepth)
		assert.LessOrEqual(t, tree.Depth(), 3)
		seeds[tree.Seed] = true
	}
	assert.Len(t, seeds, 5)

	g := NewRandomForest(WithNEstimators(5), WithMaxDepth(3), WithMaxFeatures(1), WithSeed(7))
	require.NoError(t, g.Fit(X, y))
	for i := range f.trees {
		assert.Equal(t, f.trees[i].Seed, g.trees[i].Seed)
	}
}

func TestDecisionTree_FeatureSubsetSeeded(t *testing.T) {
	X, y := threeBlobs()
	a := NewDecisionTree(WithTreeMaxFeatures(1), WithTreeSeed(3))
	b := NewDecisionTree(WithTreeMaxFeatures(1), WithTreeSeed(3))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, 1, a.MaxFeatures)
	assert.Equal(t, int64(3), a.Seed)
	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
	assert.Equal(t, y, a.Predict(X))
}

func TestRandomForest_Defaults(t *testing.T) {
	f := NewRandomForest()
	assert.Equal(t, 100, f.NEstimators)
	assert.Equal(t, int64(42), f.Seed)
	assert.True(t, f.Bootstrap)
	assert.Equal(t, "Random Forest", f.Name())
}

func TestSqrtFeatures(t *testing.T) {
	assert.Equal(t, 1, sqrtFeatures(1))
	assert.Equal(t, 2, sqrtFeatures(5))
	assert.Equal(t, 3, sqrtFeatures(9))
}
