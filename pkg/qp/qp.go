// Package qp solves convex quadratic programs in the canonical form
//
//	minimize   ½xᵀPx + qᵀx
//	subject to Gx ≤ h
//	           Ax = b
//
// with a primal active-set method. P must be positive-definite.
package qp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBadProblem indicates inconsistent coefficient dimensions.
	ErrBadProblem = errors.New("qp: inconsistent problem dimensions")

	// ErrNotPositiveDefinite indicates that P failed the Cholesky
	// factorization and cannot be handled by this solver.
	ErrNotPositiveDefinite = errors.New("qp: quadratic term is not positive-definite")

	// ErrInfeasible indicates that no feasible point could be found for the
	// constraint set.
	ErrInfeasible = errors.New("qp: constraint set is infeasible")

	// ErrSingular indicates a rank-deficient working set; the KKT system
	// could not be solved.
	ErrSingular = errors.New("qp: singular KKT system")

	// ErrMaxIterations indicates that the solver did not converge within
	// its iteration budget.
	ErrMaxIterations = errors.New("qp: maximum iterations exceeded")
)

// Problem holds the coefficients of a canonical-form quadratic program.
// A and B are optional; when nil the program has no equality constraints.
// A Problem is treated as immutable once handed to a solver.
type Problem struct {
	P *mat.SymDense // n×n quadratic term
	Q *mat.VecDense // length-n linear term
	G *mat.Dense    // m×n inequality constraint matrix
	H *mat.VecDense // length-m inequality bound
	A *mat.Dense    // optional k×n equality constraint matrix
	B *mat.VecDense // optional length-k equality value
}

// Dims validates the problem coefficients and returns the number of
// variables n, inequality constraints m and equality constraints k.
func (p *Problem) Dims() (n, m, k int, err error) {
	if p.P == nil || p.Q == nil {
		return 0, 0, 0, fmt.Errorf("%w: missing quadratic or linear term", ErrBadProblem)
	}
	n = p.P.Symmetric()
	if p.Q.Len() != n {
		return 0, 0, 0, fmt.Errorf("%w: P is %d×%d but q has length %d", ErrBadProblem, n, n, p.Q.Len())
	}
	if p.G != nil {
		gr, gc := p.G.Dims()
		if gc != n {
			return 0, 0, 0, fmt.Errorf("%w: G has %d columns, expected %d", ErrBadProblem, gc, n)
		}
		if p.H == nil || p.H.Len() != gr {
			return 0, 0, 0, fmt.Errorf("%w: G has %d rows but h has length %d", ErrBadProblem, gr, vecLen(p.H))
		}
		m = gr
	} else if p.H != nil {
		return 0, 0, 0, fmt.Errorf("%w: h given without G", ErrBadProblem)
	}
	if p.A != nil {
		ar, ac := p.A.Dims()
		if ac != n {
			return 0, 0, 0, fmt.Errorf("%w: A has %d columns, expected %d", ErrBadProblem, ac, n)
		}
		if p.B == nil || p.B.Len() != ar {
			return 0, 0, 0, fmt.Errorf("%w: A has %d rows but b has length %d", ErrBadProblem, ar, vecLen(p.B))
		}
		k = ar
	} else if p.B != nil {
		return 0, 0, 0, fmt.Errorf("%w: b given without A", ErrBadProblem)
	}
	return n, m, k, nil
}

// Objective evaluates ½xᵀPx + qᵀx at the given point.
func (p *Problem) Objective(x []float64) float64 {
	v := mat.NewVecDense(len(x), x)
	var px mat.VecDense
	px.MulVec(p.P, v)
	return 0.5*mat.Dot(v, &px) + mat.Dot(p.Q, v)
}

func vecLen(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
