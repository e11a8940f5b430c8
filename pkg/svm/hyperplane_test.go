package svm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var refAlpha = []float64{0, 0.125, 0.125, 0.25, 0}

func TestRecoverReference(t *testing.T) {
	ds := refDataset(t)
	h, err := Recover(ds, refAlpha, 1e-4)
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, h.SupportIndices)
	require.InDelta(t, 0.5, h.Weights[0], 1e-9)
	require.InDelta(t, 0.5, h.Weights[1], 1e-9)
	require.InDelta(t, -2.0, h.Bias, 1e-9)
}

func TestRecoverRoundTrip(t *testing.T) {
	ds := refDataset(t)
	h, err := Recover(ds, refAlpha, 1e-4)
	require.NoError(t, err)

	// Every support vector lies exactly on its margin boundary.
	for _, k := range h.SupportIndices {
		require.InDelta(t, 1.0, ds.Label(k)*h.Decision(ds.Point(k)), 1e-2)
	}
}

func TestRecoverNoSupportVectors(t *testing.T) {
	_, err := Recover(refDataset(t), make([]float64, 5), 1e-4)
	require.ErrorIs(t, err, ErrNoSupportVectors)
}

func TestRecoverLengthMismatch(t *testing.T) {
	_, err := Recover(refDataset(t), []float64{0.1, 0.1}, 1e-4)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecoverBadTolerance(t *testing.T) {
	_, err := Recover(refDataset(t), refAlpha, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestHyperplanePredict(t *testing.T) {
	h := &Hyperplane{Weights: []float64{0.5, 0.5}, Bias: -2}

	require.Equal(t, -1.0, h.Predict([]float64{0, 0}))
	require.Equal(t, -1.0, h.Predict([]float64{2, 0}))
	require.Equal(t, 1.0, h.Predict([]float64{4, 4}))
	require.Equal(t, 1.0, h.Predict([]float64{3, 3}))
}

func TestHyperplaneMargin(t *testing.T) {
	h := &Hyperplane{Weights: []float64{0.5, 0.5}, Bias: -2}
	// ‖w‖ = 1/√2, margin = 2√2.
	require.InDelta(t, 2.8284271, h.Margin(), 1e-6)
}
