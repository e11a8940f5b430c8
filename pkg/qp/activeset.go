package qp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultTol        = 1e-9
	defaultIterFactor = 50
)

// ActiveSet is a primal active-set solver for convex quadratic programs.
// It maintains a working set of inequality constraints treated as
// equalities, solves the resulting KKT system for a step direction, and
// adds or drops constraints until the KKT conditions hold.
//
// The zero value is ready to use with default tolerances.
type ActiveSet struct {
	// MaxIter bounds the number of working-set iterations. When zero a
	// budget proportional to the problem size is used.
	MaxIter int

	// Tol is the numerical tolerance for feasibility, step-size and
	// multiplier-sign tests. When zero a default is used.
	Tol float64
}

// NewActiveSet returns an ActiveSet solver with default settings.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Solve returns the minimizer of the given problem.
//
// It fails with ErrNotPositiveDefinite when P has no Cholesky
// factorization, ErrInfeasible when no feasible starting point exists,
// and ErrMaxIterations when the iteration budget is exhausted.
func (s *ActiveSet) Solve(p *Problem) ([]float64, error) {
	n, m, k, err := p.Dims()
	if err != nil {
		return nil, err
	}
	tol := s.Tol
	if tol <= 0 {
		tol = defaultTol
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = defaultIterFactor * (n + m + 1)
	}

	var chol mat.Cholesky
	if !chol.Factorize(p.P) {
		return nil, ErrNotPositiveDefinite
	}

	x, err := s.feasibleStart(p, n, m, k, tol)
	if err != nil {
		return nil, err
	}

	active := make([]bool, m)
	working := make([]int, 0, n)

	for iter := 0; iter < maxIter; iter++ {
		sol, err := solveKKT(p, x, working, n, k)
		if err != nil {
			return nil, err
		}
		step := make([]float64, n)
		for i := range step {
			step[i] = sol.AtVec(i)
		}

		if floats.Norm(step, math.Inf(1)) <= tol {
			// Stationary on the working set: check multiplier signs.
			drop, minMu := -1, -tol
			for wi := range working {
				if mu := sol.AtVec(n + k + wi); mu < minMu {
					minMu, drop = mu, wi
				}
			}
			if drop < 0 {
				return x, nil
			}
			active[working[drop]] = false
			working = append(working[:drop], working[drop+1:]...)
			continue
		}

		// Step to the nearest blocking constraint, if any.
		alpha, blocking := 1.0, -1
		for i := 0; i < m; i++ {
			if active[i] {
				continue
			}
			d := rowDot(p.G, i, step)
			if d <= tol {
				continue
			}
			slack := p.H.AtVec(i) - rowDot(p.G, i, x)
			if slack < 0 {
				slack = 0
			}
			if t := slack / d; t < alpha {
				alpha, blocking = t, i
			}
		}
		floats.AddScaled(x, alpha, step)
		if blocking >= 0 && alpha < 1 {
			active[blocking] = true
			working = append(working, blocking)
		}
	}
	return nil, fmt.Errorf("%w (%d)", ErrMaxIterations, maxIter)
}

// feasibleStart returns a point satisfying Ax = b and Gx ≤ h. The
// minimum-norm solution of the equality system is used; if it violates
// any inequality the problem is reported infeasible rather than running
// a phase-one search.
func (s *ActiveSet) feasibleStart(p *Problem, n, m, k int, tol float64) ([]float64, error) {
	x := make([]float64, n)
	if k > 0 {
		var x0 mat.VecDense
		if err := x0.SolveVec(p.A, p.B); err != nil {
			if _, ok := err.(mat.Condition); !ok {
				return nil, fmt.Errorf("%w: equality system has no solution", ErrInfeasible)
			}
		}
		for i := 0; i < n; i++ {
			x[i] = x0.AtVec(i)
		}
		var r mat.VecDense
		r.MulVec(p.A, &x0)
		for i := 0; i < k; i++ {
			if math.Abs(r.AtVec(i)-p.B.AtVec(i)) > tol*(1+math.Abs(p.B.AtVec(i))) {
				return nil, fmt.Errorf("%w: equality residual too large at row %d", ErrInfeasible, i)
			}
		}
	}
	for i := 0; i < m; i++ {
		if rowDot(p.G, i, x)-p.H.AtVec(i) > tol {
			return nil, fmt.Errorf("%w: no feasible starting point (inequality row %d)", ErrInfeasible, i)
		}
	}
	return x, nil
}

// solveKKT solves the equality-constrained subproblem
//
//	[ P  Cᵀ ] [ step ]   [ -(Px+q) ]
//	[ C  0  ] [  λ   ] = [    0    ]
//
// where C stacks the equality rows of A and the working-set rows of G.
func solveKKT(p *Problem, x []float64, working []int, n, k int) (*mat.VecDense, error) {
	dim := n + k + len(working)
	kkt := mat.NewDense(dim, dim, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kkt.Set(i, j, p.P.At(i, j))
		}
	}
	for r := 0; r < k; r++ {
		for j := 0; j < n; j++ {
			v := p.A.At(r, j)
			kkt.Set(n+r, j, v)
			kkt.Set(j, n+r, v)
		}
	}
	for wi, ci := range working {
		r := n + k + wi
		for j := 0; j < n; j++ {
			v := p.G.At(ci, j)
			kkt.Set(r, j, v)
			kkt.Set(j, r, v)
		}
	}

	rhs := mat.NewVecDense(dim, nil)
	xv := mat.NewVecDense(n, x)
	var px mat.VecDense
	px.MulVec(p.P, xv)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, -(px.AtVec(i) + p.Q.AtVec(i)))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}
	return &sol, nil
}

func rowDot(g *mat.Dense, row int, v []float64) float64 {
	sum := 0.0
	for j := range v {
		sum += g.At(row, j) * v[j]
	}
	return sum
}
