// Package svm trains hard-margin linear support vector machines on
// linearly-separable two-class point sets. Training formulates the dual
// optimization as a canonical-form quadratic program, hands it to a QP
// solver, and recovers the separating hyperplane from the support
// vectors of the solution.
package svm

import "fmt"

// Dataset is an immutable labeled point set. Labels are exactly -1 or +1.
type Dataset struct {
	points [][]float64
	labels []float64
	dim    int
}

// NewDataset validates and copies the given points and labels.
// It fails with ErrInvalidInput when fewer than two points are given,
// when feature dimensions are inconsistent, or when a label is outside
// {-1, +1}.
func NewDataset(points [][]float64, labels []float64) (*Dataset, error) {
	if len(points) != len(labels) {
		return nil, fmt.Errorf("%w: %d points but %d labels", ErrInvalidInput, len(points), len(labels))
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidInput, len(points))
	}
	dim := len(points[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty feature vector at index 0", ErrInvalidInput)
	}
	ds := &Dataset{
		points: make([][]float64, len(points)),
		labels: make([]float64, len(labels)),
		dim:    dim,
	}
	for i, pt := range points {
		if len(pt) != dim {
			return nil, fmt.Errorf("%w: point %d has dimension %d, expected %d", ErrInvalidInput, i, len(pt), dim)
		}
		if labels[i] != -1 && labels[i] != 1 {
			return nil, fmt.Errorf("%w: label %v at index %d, expected -1 or +1", ErrInvalidInput, labels[i], i)
		}
		ds.points[i] = append([]float64(nil), pt...)
		ds.labels[i] = labels[i]
	}
	return ds, nil
}

// Len returns the number of points.
func (d *Dataset) Len() int { return len(d.points) }

// Dim returns the feature dimension.
func (d *Dataset) Dim() int { return d.dim }

// Point returns the feature vector of point i. The returned slice must
// not be modified.
func (d *Dataset) Point(i int) []float64 { return d.points[i] }

// Label returns the label of point i.
func (d *Dataset) Label(i int) float64 { return d.labels[i] }

// twoClasses reports whether both labels occur in the set.
func (d *Dataset) twoClasses() bool {
	var pos, neg bool
	for _, y := range d.labels {
		if y > 0 {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}
