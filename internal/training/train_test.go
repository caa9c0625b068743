package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fraudlens/internal/classifier"
	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/features"
)

func scenario(t *testing.T) *features.Processed {
	t.Helper()
	opts := dataset.DefaultSyntheticOptions()
	opts.Rows = 100
	opts.Positives = 10
	opts.Merchants = []string{"Amazon", "Target", "Walmart"}
	opts.Locations = []string{"Chicago", "New York", "Seattle"}
	tbl, err := dataset.Synthetic(opts)
	require.NoError(t, err)

	p, _, err := features.Preprocess(tbl, config.Default().Columns)
	require.NoError(t, err)
	return p
}

func train(t *testing.T, p *features.Processed) *Result {
	t.Helper()
	cfg := config.Default()
	res, err := Train(p, cfg.Split, cfg.Models)
	require.NoError(t, err)
	return res
}

func TestTrain_Scenario(t *testing.T) {
	p := scenario(t)
	res := train(t, p)

	assert.Equal(t, []string{"0", "1"}, res.Classes)
	require.Len(t, res.Models, 2)
	require.Len(t, res.Reports, 2)
	assert.Equal(t, LogisticRegression, res.Models[0].Name)
	assert.Equal(t, RandomForest, res.Models[1].Name)

	for _, rep := range res.Reports {
		_, ok := rep.Class("0")
		assert.True(t, ok, "%s has class 0", rep.Model)
		_, ok = rep.Class("1")
		assert.True(t, ok, "%s has class 1", rep.Model)

		assert.Equal(t, 20, rep.Support())
		assert.GreaterOrEqual(t, rep.Accuracy, 0.0)
		assert.LessOrEqual(t, rep.Accuracy, 1.0)
		for _, c := range rep.Classes {
			for _, v := range []float64{c.Precision, c.Recall, c.F1} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}

	_, ok := res.Model(RandomForest)
	assert.True(t, ok)
	_, ok = res.Report(LogisticRegression)
	assert.True(t, ok)
	_, ok = res.Model("SVM")
	assert.False(t, ok)
}

func TestTrain_HeldOutMatchesSplit(t *testing.T) {
	p := scenario(t)
	res := train(t, p)

	part, err := Split(100, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, part.Test, res.HeldOut.Rows)
	require.Len(t, res.HeldOut.X, 20)
	for i, row := range res.HeldOut.Rows {
		assert.Equal(t, p.X[row], res.HeldOut.X[i])
		assert.Equal(t, p.Labels[row], res.HeldOut.Labels[i])
	}
}

func TestTrain_Deterministic(t *testing.T) {
	a := train(t, scenario(t))
	b := train(t, scenario(t))
	assert.Equal(t, a.Reports, b.Reports)
	assert.Equal(t, a.HeldOut, b.HeldOut)
}

func TestTrain_DoesNotModifyInput(t *testing.T) {
	p := scenario(t)
	x := make([][]float64, len(p.X))
	for i := range p.X {
		x[i] = append([]float64(nil), p.X[i]...)
	}
	labels := append([]string(nil), p.Labels...)

	train(t, p)
	assert.Equal(t, x, p.X)
	assert.Equal(t, labels, p.Labels)
}

func TestTrain_SeparableAmounts(t *testing.T) {
	// Fraud amounts in the synthetic data are far above legitimate ones.
	res := train(t, scenario(t))
	rep, ok := res.Report(RandomForest)
	require.True(t, ok)
	assert.Greater(t, rep.Accuracy, 0.9)
}

func TestTrain_SingleClass(t *testing.T) {
	p := &features.Processed{
		X:      [][]float64{{1}, {2}, {3}, {4}},
		Labels: []string{"0", "0", "0", "0"},
	}
	cfg := config.Default()
	_, err := Train(p, cfg.Split, cfg.Models)
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestTrain_SingleClassTrainingPartition(t *testing.T) {
	cfg := config.Default()
	part, err := Split(10, cfg.Split.TestRatio, cfg.Split.Seed)
	require.NoError(t, err)

	p := &features.Processed{X: make([][]float64, 10), Labels: make([]string, 10)}
	for i := range p.X {
		p.X[i] = []float64{float64(i)}
		p.Labels[i] = "0"
	}
	p.Labels[part.Test[0]] = "1"

	_, err = Train(p, cfg.Split, cfg.Models)
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestTrain_TooFewRows(t *testing.T) {
	cfg := config.Default()
	_, err := Train(&features.Processed{}, cfg.Split, cfg.Models)
	assert.ErrorIs(t, err, ErrInsufficientData)

	p := &features.Processed{
		X:      [][]float64{{1}, {2}, {3}},
		Labels: []string{"0", "1", "0"},
	}
	split := cfg.Split
	split.TestRatio = 0.9
	_, err = Train(p, split, cfg.Models)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestVariants(t *testing.T) {
	models := config.Default().Models
	models.Forest.NEstimators = 7
	models.Forest.MaxFeatures = 2
	v := Variants(models)
	require.Len(t, v, 2)
	assert.Equal(t, "Logistic Regression", v[0].Classifier.Name())
	assert.Equal(t, "Random Forest", v[1].Classifier.Name())

	forest, ok := v[1].Classifier.(*classifier.RandomForest)
	require.True(t, ok)
	assert.Equal(t, 7, forest.NEstimators)
	assert.Equal(t, 2, forest.MaxFeatures)
}
