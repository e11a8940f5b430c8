package svm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	refPoints = [][]float64{{0, 0}, {2, 0}, {0, 2}, {3, 3}, {4, 4}}
	refLabels = []float64{-1, -1, -1, 1, 1}
)

func refDataset(t *testing.T) *Dataset {
	ds, err := NewDataset(refPoints, refLabels)
	require.NoError(t, err)
	return ds
}

func TestGramMatrix(t *testing.T) {
	expected := [][]float64{
		{0, 0, 0, 0, 0},
		{0, 4, 0, -6, -8},
		{0, 0, 4, -6, -8},
		{0, -6, -6, 18, 24},
		{0, -8, -8, 24, 32},
	}
	q := gram(refDataset(t))
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			require.Equal(t, expected[i][j], q.At(i, j), "Q[%d][%d]", i, j)
		}
	}
	// Symmetry must hold for every entry.
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			require.Equal(t, q.At(i, j), q.At(j, i))
		}
	}
}

func TestDualProblemCoefficients(t *testing.T) {
	ds := refDataset(t)
	epsilon := 1e-5
	p, err := DualProblem(ds, epsilon)
	require.NoError(t, err)

	n := ds.Len()
	q := gram(ds)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := q.At(i, j)
			if i == j {
				want += epsilon
			}
			require.InDelta(t, want, p.P.At(i, j), 1e-12)
		}
	}
	for i := 0; i < n; i++ {
		require.Equal(t, -1.0, p.Q.AtVec(i))
		require.Equal(t, 0.0, p.H.AtVec(i))
		require.Equal(t, refLabels[i], p.A.At(0, i))
		for j := 0; j < n; j++ {
			if i == j {
				require.Equal(t, -1.0, p.G.At(i, j))
			} else {
				require.Equal(t, 0.0, p.G.At(i, j))
			}
		}
	}
	require.Equal(t, 0.0, p.B.AtVec(0))
}

func TestDualProblemRegularizedPositiveDefinite(t *testing.T) {
	// The raw Gram matrix of 2-D points is rank-deficient for N > 2; the
	// ε perturbation must make P strictly positive-definite anyway.
	p, err := DualProblem(refDataset(t), 1e-5)
	require.NoError(t, err)

	var chol mat.Cholesky
	require.True(t, chol.Factorize(p.P))
}

func TestDualProblemSingleClass(t *testing.T) {
	ds, err := NewDataset([][]float64{{0, 0}, {1, 1}}, []float64{1, 1})
	require.NoError(t, err)

	_, err = DualProblem(ds, 1e-5)
	require.ErrorIs(t, err, ErrDegenerateProblem)
}

func TestDualProblemBadEpsilon(t *testing.T) {
	_, err := DualProblem(refDataset(t), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewDatasetValidation(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		labels []float64
	}{
		{
			name:   "too few points",
			points: [][]float64{{1, 2}},
			labels: []float64{1},
		},
		{
			name:   "length mismatch",
			points: [][]float64{{1, 2}, {3, 4}},
			labels: []float64{1},
		},
		{
			name:   "dimension mismatch",
			points: [][]float64{{1, 2}, {3}},
			labels: []float64{1, -1},
		},
		{
			name:   "bad label",
			points: [][]float64{{1, 2}, {3, 4}},
			labels: []float64{1, 0},
		},
		{
			name:   "empty feature vector",
			points: [][]float64{{}, {}},
			labels: []float64{1, -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataset(tt.points, tt.labels)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDatasetCopiesInput(t *testing.T) {
	points := [][]float64{{1, 0}, {0, 1}}
	labels := []float64{1, -1}
	ds, err := NewDataset(points, labels)
	require.NoError(t, err)

	points[0][0] = 99
	labels[0] = -1
	require.Equal(t, 1.0, ds.Point(0)[0])
	require.Equal(t, 1.0, ds.Label(0))
}
