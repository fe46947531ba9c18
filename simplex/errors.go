package simplex

import (
	"github.com/pkg/errors"
	"q.log/lpsimplex/model"
)

// Precondition failures.
var (
	ErrDimensionMismatch    = model.ErrDimensionMismatch
	ErrRankDeficient        = model.ErrRankDeficient
	ErrInvalidStartingBasis = errors.New("simplex: x0 is not a basic feasible solution")
)

// Outcomes of a valid problem.
var (
	ErrInfeasible = errors.New("simplex: problem is infeasible")
	ErrUnbounded  = errors.New("simplex: problem is unbounded")
)

var (
	// ErrSingularBasis means a pivot produced a singular A_B. It is never
	// the result of valid input.
	ErrSingularBasis      = errors.New("simplex: basis matrix is singular")
	ErrCycleLimitExceeded = errors.New("simplex: iteration limit exceeded")
)
