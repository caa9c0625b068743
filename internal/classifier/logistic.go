package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticRegression is an L2-regularized logistic regression trained with
// full-batch gradient descent. More than two classes are handled one-vs-rest.
type LogisticRegression struct {
	MaxIter      int
	LearningRate float64
	C            float64 // inverse regularization strength
	Tol          float64 // stop when the largest gradient component falls below

	weights  [][]float64 // one row per binary sub-model
	bias     []float64
	nClasses int
}

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

func WithMaxIter(n int) LogisticOption { return func(m *LogisticRegression) { m.MaxIter = n } }
func WithLearningRate(lr float64) LogisticOption {
	return func(m *LogisticRegression) { m.LearningRate = lr }
}
func WithC(c float64) LogisticOption { return func(m *LogisticRegression) { m.C = c } }

// NewLogisticRegression returns a model with MaxIter 1000 and C 1.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	m := &LogisticRegression{
		MaxIter:      1000,
		LearningRate: 0.5,
		C:            1.0,
		Tol:          1e-6,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Name implements Classifier.
func (m *LogisticRegression) Name() string { return "Logistic Regression" }

// Fit trains the model. Weights start at zero, so results are deterministic.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	k, err := checkTarget(X, y)
	if err != nil {
		return err
	}
	m.nClasses = k

	models := k
	if k == 2 {
		models = 1
	}
	m.weights = make([][]float64, models)
	m.bias = make([]float64, models)

	target := make([]float64, len(y))
	for c := 0; c < models; c++ {
		positive := c
		if k == 2 {
			positive = 1
		}
		for i, label := range y {
			target[i] = 0
			if label == positive {
				target[i] = 1
			}
		}
		m.weights[c], m.bias[c] = m.fitBinary(X, target)
	}
	return nil
}

func (m *LogisticRegression) fitBinary(X [][]float64, y []float64) ([]float64, float64) {
	n := float64(len(X))
	p := len(X[0])
	w := make([]float64, p)
	b := 0.0
	gw := make([]float64, p)

	reg := 0.0
	if m.C > 0 {
		reg = 1 / (m.C * n)
	}

	for it := 0; it < m.MaxIter; it++ {
		for j := range gw {
			gw[j] = 0
		}
		gb := 0.0
		for i, x := range X {
			d := sigmoid(floats.Dot(w, x)+b) - y[i]
			floats.AddScaled(gw, d, x)
			gb += d
		}
		floats.Scale(1/n, gw)
		floats.AddScaled(gw, reg, w)
		gb /= n

		floats.AddScaled(w, -m.LearningRate, gw)
		b -= m.LearningRate * gb

		if math.Max(floats.Norm(gw, math.Inf(1)), math.Abs(gb)) < m.Tol {
			break
		}
	}
	return w, b
}

// PredictProba implements Classifier.
func (m *LogisticRegression) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		probs := make([]float64, m.nClasses)
		if m.nClasses == 2 {
			p1 := sigmoid(floats.Dot(m.weights[0], x) + m.bias[0])
			probs[0], probs[1] = 1-p1, p1
		} else {
			for c := range m.weights {
				probs[c] = sigmoid(floats.Dot(m.weights[c], x) + m.bias[c])
			}
			if sum := floats.Sum(probs); sum > 0 {
				floats.Scale(1/sum, probs)
			}
		}
		out[i] = probs
	}
	return out
}

// Predict implements Classifier.
func (m *LogisticRegression) Predict(X [][]float64) []int {
	return predictFromProba(m.PredictProba(X))
}

// Coefficients returns a copy of the weights and intercepts, one row per
// binary sub-model.
func (m *LogisticRegression) Coefficients() ([][]float64, []float64) {
	w := make([][]float64, len(m.weights))
	for i := range m.weights {
		w[i] = append([]float64(nil), m.weights[i]...)
	}
	return w, append([]float64(nil), m.bias...)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
