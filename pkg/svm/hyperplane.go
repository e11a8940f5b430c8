package svm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Hyperplane is a separating hyperplane w·x + b = 0 recovered from a
// dual SVM solution, together with the indices of the support vectors
// that define it. For every support vector k, y_k·(w·x_k + b) = 1
// within numerical tolerance.
type Hyperplane struct {
	Weights        []float64
	Bias           float64
	SupportIndices []int
}

// Recover identifies the support vectors of a dual solution and
// recovers the hyperplane from them. A point is a support vector when
// its dual coefficient exceeds tol; tol absorbs solver noise around the
// theoretical zero of non-support coefficients.
//
// The weight vector is w = Σ αᵢ·yᵢ·xᵢ over the support vectors. The
// bias is the mean of the per-support-vector estimates y_k - w·x_k,
// which is more robust to solver imprecision than a single-point solve.
func Recover(ds *Dataset, alpha []float64, tol float64) (*Hyperplane, error) {
	if len(alpha) != ds.Len() {
		return nil, fmt.Errorf("%w: dual solution has length %d, expected %d", ErrInvalidInput, len(alpha), ds.Len())
	}
	if tol <= 0 {
		return nil, fmt.Errorf("%w: support vector tolerance must be positive, got %v", ErrInvalidInput, tol)
	}

	var support []int
	for i, a := range alpha {
		if a > tol {
			support = append(support, i)
		}
	}
	if len(support) == 0 {
		return nil, fmt.Errorf("%w: no dual coefficient above %v", ErrNoSupportVectors, tol)
	}

	w := make([]float64, ds.Dim())
	for _, i := range support {
		floats.AddScaled(w, alpha[i]*ds.Label(i), ds.Point(i))
	}

	estimates := make([]float64, len(support))
	for si, k := range support {
		estimates[si] = ds.Label(k) - floats.Dot(w, ds.Point(k))
	}

	return &Hyperplane{
		Weights:        w,
		Bias:           stat.Mean(estimates, nil),
		SupportIndices: support,
	}, nil
}

// Decision returns the signed distance proxy w·x + b for a point.
func (h *Hyperplane) Decision(x []float64) float64 {
	return floats.Dot(h.Weights, x) + h.Bias
}

// Predict classifies a point as +1 or -1 by the sign of its decision
// value. Points exactly on the hyperplane are classified as +1.
func (h *Hyperplane) Predict(x []float64) float64 {
	if h.Decision(x) < 0 {
		return -1
	}
	return 1
}

// Margin returns the width 2/‖w‖ of the margin between the two classes.
func (h *Hyperplane) Margin() float64 {
	return 2 / math.Sqrt(floats.Dot(h.Weights, h.Weights))
}
