package svm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"maxmargin/pkg/qp"
)

type stubSolver struct {
	alpha []float64
	err   error
}

func (s *stubSolver) Solve(*qp.Problem) ([]float64, error) {
	return s.alpha, s.err
}

func TestFitReference(t *testing.T) {
	h, err := Fit(refPoints, refLabels, Config{})
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, h.SupportIndices)
	require.InDelta(t, 0.5, h.Weights[0], 1e-2)
	require.InDelta(t, 0.5, h.Weights[1], 1e-2)
	require.InDelta(t, -2.0, h.Bias, 1e-2)

	// Hard margin: every training point is on the correct side with
	// functional margin at least one.
	for i, pt := range refPoints {
		require.GreaterOrEqual(t, refLabels[i]*h.Decision(pt), 1-1e-2, "point %d", i)
	}
	for _, k := range h.SupportIndices {
		require.InDelta(t, 1.0, refLabels[k]*h.Decision(refPoints[k]), 1e-2)
	}
}

func TestFitIdempotent(t *testing.T) {
	first, err := Fit(refPoints, refLabels, Config{})
	require.NoError(t, err)
	second, err := Fit(refPoints, refLabels, Config{})
	require.NoError(t, err)

	require.Equal(t, first.SupportIndices, second.SupportIndices)
	for i := range first.Weights {
		require.InDelta(t, first.Weights[i], second.Weights[i], 1e-12)
	}
	require.InDelta(t, first.Bias, second.Bias, 1e-12)
}

func TestFitSingleClass(t *testing.T) {
	_, err := Fit([][]float64{{0, 0}, {1, 1}}, []float64{-1, -1}, Config{})
	require.ErrorIs(t, err, ErrDegenerateProblem)
}

func TestFitInvalidInput(t *testing.T) {
	_, err := Fit([][]float64{{0, 0}, {1, 1, 1}}, []float64{-1, 1}, Config{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFitOneDimensional(t *testing.T) {
	h, err := Fit([][]float64{{0}, {2}}, []float64{-1, 1}, Config{})
	require.NoError(t, err)

	// Separating point at x = 1: w = 1, b = -1.
	require.InDelta(t, 1.0, h.Weights[0], 1e-2)
	require.InDelta(t, -1.0, h.Bias, 1e-2)
}

func TestFitRejectsSolverError(t *testing.T) {
	solverErr := errors.New("did not converge")
	_, err := Fit(refPoints, refLabels, Config{Solver: &stubSolver{err: solverErr}})
	require.ErrorIs(t, err, ErrSolverFailure)
}

func TestFitRejectsNegativeCoefficients(t *testing.T) {
	_, err := Fit(refPoints, refLabels, Config{
		Solver: &stubSolver{alpha: []float64{0, 0.125, 0.125, 0.5, -0.25}},
	})
	require.ErrorIs(t, err, ErrSolverFailure)
}

func TestFitRejectsEqualityViolation(t *testing.T) {
	// Σ yᵢαᵢ = -1 here, far outside tolerance.
	_, err := Fit(refPoints, refLabels, Config{
		Solver: &stubSolver{alpha: []float64{1, 0, 0, 0, 0}},
	})
	require.ErrorIs(t, err, ErrSolverFailure)
}

func TestFitRejectsWrongLength(t *testing.T) {
	_, err := Fit(refPoints, refLabels, Config{
		Solver: &stubSolver{alpha: []float64{0.5, 0.5}},
	})
	require.ErrorIs(t, err, ErrSolverFailure)
}

func TestFitNoSupportVectors(t *testing.T) {
	// An all-zero solution satisfies the dual constraints but defines no
	// hyperplane.
	_, err := Fit(refPoints, refLabels, Config{
		Solver: &stubSolver{alpha: make([]float64, 5)},
	})
	require.ErrorIs(t, err, ErrNoSupportVectors)
}
