package svm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"maxmargin/pkg/qp"
)

// DualProblem builds the quadratic program for the dual of the
// hard-margin SVM over the given point set:
//
//	minimize   ½αᵀPα - 1⃗ᵀα
//	subject to α ≥ 0, Σ yᵢαᵢ = 0
//
// in the canonical form accepted by package qp with P = Q + ε·I,
// q = -1⃗, G = -I, h = 0⃗, A = yᵀ and b = [0].
//
// The Gram matrix Q with Q[i][j] = yᵢ·yⱼ·(xᵢ·xⱼ) is only guaranteed
// positive-semidefinite; the ε perturbation of its diagonal is a
// numerical-stability device, not part of the SVM formulation. Larger ε
// keeps strict-PD solvers stable at the cost of biasing the solution
// away from the exact optimum.
//
// A single-class point set fails with ErrDegenerateProblem before any
// solver is involved.
func DualProblem(ds *Dataset, epsilon float64) (*qp.Problem, error) {
	if epsilon <= 0 {
		return nil, fmt.Errorf("%w: regularization epsilon must be positive, got %v", ErrInvalidInput, epsilon)
	}
	if !ds.twoClasses() {
		return nil, fmt.Errorf("%w: all labels identical, no separating hyperplane exists", ErrDegenerateProblem)
	}

	n := ds.Len()
	p := gram(ds)
	for i := 0; i < n; i++ {
		p.SetSym(i, i, p.At(i, i)+epsilon)
	}

	q := mat.NewVecDense(n, nil)
	g := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		q.SetVec(i, -1)
		g.Set(i, i, -1)
	}

	a := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, ds.Label(i))
	}

	return &qp.Problem{
		P: p,
		Q: q,
		G: g,
		H: mat.NewVecDense(n, nil),
		A: a,
		B: mat.NewVecDense(1, nil),
	}, nil
}

// gram computes the label-scaled Gram matrix of the point set. Symmetric
// storage makes the result exactly symmetric by construction.
func gram(ds *Dataset) *mat.SymDense {
	n := ds.Len()
	q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			q.SetSym(i, j, ds.Label(i)*ds.Label(j)*floats.Dot(ds.Point(i), ds.Point(j)))
		}
	}
	return q
}
