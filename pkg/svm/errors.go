package svm

import "errors"

var (
	// ErrInvalidInput indicates a malformed point set: too few points,
	// inconsistent feature dimensions or labels outside {-1, +1}.
	ErrInvalidInput = errors.New("svm: invalid input")

	// ErrDegenerateProblem indicates that no separating hyperplane can
	// exist for the given point set, e.g. only one class is present.
	ErrDegenerateProblem = errors.New("svm: degenerate problem")

	// ErrSolverFailure indicates that the QP solver failed or returned a
	// solution violating the dual constraints.
	ErrSolverFailure = errors.New("svm: solver failure")

	// ErrNoSupportVectors indicates that every dual coefficient was below
	// tolerance; the solution cannot define a hyperplane.
	ErrNoSupportVectors = errors.New("svm: no support vectors")
)
