package svm

import (
	"fmt"
	"math"

	"maxmargin/pkg/qp"
)

// Default configuration values. The epsilon default is the smallest
// perturbation that keeps the active-set solver stable at this problem
// scale; the tolerance default matches the noise floor of typical QP
// solvers around zero-valued dual coefficients.
const (
	DefaultEpsilon                = 1e-5
	DefaultSupportVectorTolerance = 1e-4
)

// solutionCheckTol bounds how far an accepted solver output may violate
// the dual constraints α ≥ 0 and Σ yᵢαᵢ = 0.
const solutionCheckTol = 1e-6

// Solver is the external QP collaborator. Implementations must fail,
// rather than return garbage, when the quadratic term is not
// positive-semidefinite enough for their method or when the constraint
// set is infeasible. qp.ActiveSet is the default implementation.
type Solver interface {
	Solve(*qp.Problem) ([]float64, error)
}

// Config holds the tunable parameters of a training run. The zero value
// selects defaults for every field.
type Config struct {
	// Epsilon is the magnitude of the diagonal perturbation added to
	// the Gram matrix. See DualProblem.
	Epsilon float64

	// SupportVectorTolerance is the threshold above which a dual
	// coefficient marks its point as a support vector.
	SupportVectorTolerance float64

	// Solver solves the dual quadratic program.
	Solver Solver
}

func (c Config) withDefaults() Config {
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.SupportVectorTolerance <= 0 {
		c.SupportVectorTolerance = DefaultSupportVectorTolerance
	}
	if c.Solver == nil {
		c.Solver = qp.NewActiveSet()
	}
	return c
}

// Fit trains a hard-margin linear SVM on the given points and labels
// and returns the separating hyperplane. Labels must be -1 or +1.
func Fit(points [][]float64, labels []float64, cfg Config) (*Hyperplane, error) {
	ds, err := NewDataset(points, labels)
	if err != nil {
		return nil, err
	}
	return FitDataset(ds, cfg)
}

// FitDataset trains on an already-validated dataset. It builds the dual
// problem, solves it, rejects solutions violating the dual constraints
// and recovers the hyperplane from the support vectors.
func FitDataset(ds *Dataset, cfg Config) (*Hyperplane, error) {
	cfg = cfg.withDefaults()

	problem, err := DualProblem(ds, cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	alpha, err := cfg.Solver.Solve(problem)
	if err != nil {
		return nil, fmt.Errorf("%w: solving dual problem: %v", ErrSolverFailure, err)
	}
	if err := checkDualSolution(ds, alpha); err != nil {
		return nil, err
	}

	return Recover(ds, alpha, cfg.SupportVectorTolerance)
}

// checkDualSolution rejects solver output that violates non-negativity
// or the equality constraint Σ yᵢαᵢ = 0 beyond numerical tolerance, and
// clamps harmless sub-tolerance negatives to zero.
func checkDualSolution(ds *Dataset, alpha []float64) error {
	if len(alpha) != ds.Len() {
		return fmt.Errorf("%w: solver returned %d coefficients, expected %d", ErrSolverFailure, len(alpha), ds.Len())
	}
	scale := 1.0
	for _, a := range alpha {
		scale += math.Abs(a)
	}
	sum := 0.0
	for i, a := range alpha {
		if a < -solutionCheckTol*scale {
			return fmt.Errorf("%w: negative dual coefficient %v at index %d", ErrSolverFailure, a, i)
		}
		if a < 0 {
			alpha[i] = 0
		}
		sum += ds.Label(i) * alpha[i]
	}
	if math.Abs(sum) > solutionCheckTol*scale {
		return fmt.Errorf("%w: equality constraint violated, Σyα = %v", ErrSolverFailure, sum)
	}
	return nil
}
