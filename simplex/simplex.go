package simplex

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsimplex/model"
)

// State is the phase 2 state after a call to Step.
type State int

const (
	StateRunning State = iota
	StateOptimal
	StateUnbounded
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateOptimal:
		return "optimal"
	case StateUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pivot records one basis exchange.
type Pivot struct {
	Entering int
	Leaving  int
	// Position is the basis position that Leaving occupied.
	Position int
	// Ratio is the step length of the ratio test. Zero means a degenerate
	// pivot.
	Ratio float64
}

// Step performs one transition of the phase 2 loop from basis. When the
// returned state is StateRunning, next is the basis after the pivot and
// pivot describes it; otherwise next equals basis.
func Step(p *model.Problem, basis Basis, cfg Config) (next Basis, state State, pivot Pivot, err error) {
	e, err := NewEngine(p, basis)
	if err != nil {
		return nil, StateRunning, Pivot{}, err
	}
	return step(e, cfg)
}

func step(e *Engine, cfg Config) (Basis, State, Pivot, error) {
	tol := cfg.Tolerance
	basis := e.Basis()
	_, n := e.p.Dims()

	r := e.ReducedCosts()
	j := entering(r, basis, n, tol, cfg.Rule)
	if j == -1 {
		return basis, StateOptimal, Pivot{}, nil
	}

	d := e.Direction(j)
	xB, _ := e.BasicSolution()

	leave := -1
	minRatio := math.Inf(1)
	for i := range d {
		if d[i] < tol {
			continue
		}
		xi := xB[i]
		if xi < tol {
			xi = 0
		}
		ratio := xi / d[i]
		// Ties leave the lowest column index, whatever its basis position.
		switch {
		case leave == -1 || ratio < minRatio:
			leave, minRatio = i, ratio
		case ratio == minRatio && basis[i] < basis[leave]:
			leave = i
		}
	}
	if leave == -1 {
		return basis, StateUnbounded, Pivot{Entering: j, Leaving: -1, Position: -1}, nil
	}

	pivot := Pivot{
		Entering: j,
		Leaving:  basis[leave],
		Position: leave,
		Ratio:    minRatio,
	}
	basis[leave] = j
	return basis, StateRunning, pivot, nil
}

// entering returns the non-basic index that enters the basis, or -1 when
// every non-basic reduced cost is at least -tol.
func entering(r []float64, basis Basis, n int, tol float64, rule PivotRule) int {
	chosen := -1
	for _, j := range basis.NonBasic(n) {
		if r[j] >= -tol {
			continue
		}
		if rule == Bland {
			return j
		}
		if chosen == -1 || r[j] < r[chosen] {
			chosen = j
		}
	}
	return chosen
}

// iterate runs Step from a feasible basis until it is optimal or unbounded.
// It returns the last basis and the number of pivots performed.
func iterate(p *model.Problem, basis Basis, cfg Config) (Basis, State, int, error) {
	basis = basis.Clone()
	for iter := 0; ; iter++ {
		e, err := NewEngine(p, basis)
		if err != nil {
			return nil, StateRunning, iter, errors.Wrapf(err, "iteration %d", iter)
		}
		cfg.Logger.Print(fmt.Sprintf("Z = %v", e.Objective()))

		next, state, pivot, err := step(e, cfg)
		if err != nil {
			return nil, state, iter, err
		}
		switch state {
		case StateOptimal:
			return basis, state, iter, nil
		case StateUnbounded:
			cfg.Logger.Print(fmt.Sprintf("unbounded along column %d, d = %v", pivot.Entering,
				mat.Formatted(mat.NewVecDense(len(basis), e.Direction(pivot.Entering)).T(), mat.Squeeze())))
			return basis, state, iter, nil
		}

		if iter == cfg.MaxIterations {
			return nil, state, iter, errors.Wrapf(ErrCycleLimitExceeded, "%d pivots", iter)
		}
		cfg.Logger.Print(fmt.Sprintf("-------------------- BASE CHANGE %v -> %v ----------------------", pivot.Leaving, pivot.Entering))
		basis = next
	}
}

// Solve minimizes c'x s.t. Ax = b, x >= 0 starting from the basic feasible
// solution x0. The entries of x0 that are at least the tolerance select the
// starting basis. A degenerate x0 with fewer than m such entries is
// completed with the lowest indexed columns that keep A_B non-singular; from
// a degenerate optimum that completion may take degenerate pivots before it
// is optimal again, which SolveFromBasis avoids.
//
// An unbounded problem returns a Result with StatusUnbounded together with
// ErrUnbounded.
func Solve(p *model.Problem, x0 []float64, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	basis, err := startingBasis(p, x0, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	return solveFrom(p, basis, cfg)
}

// SolveFromBasis minimizes c'x s.t. Ax = b, x >= 0 starting from basis,
// which must be feasible. Passing the Basis of an optimal Result performs
// no pivots, also when the optimum is degenerate and its support alone
// would not determine the basis.
func SolveFromBasis(p *model.Problem, basis Basis, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := checkFeasible(p, basis, cfg.Tolerance); err != nil {
		return nil, err
	}

	return solveFrom(p, basis, cfg)
}

// SolveTwoPhase finds a basic feasible point with FindBasicFeasiblePoint and
// optimizes from it.
func SolveTwoPhase(p *model.Problem, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	basis, err := phaseOne(p, cfg)
	if err != nil {
		if errors.Is(err, ErrInfeasible) {
			return &Result{Status: StatusInfeasible}, err
		}
		return nil, err
	}

	return solveFrom(p, basis, cfg)
}

func solveFrom(p *model.Problem, basis Basis, cfg Config) (*Result, error) {
	cfg.Logger.Print(fmt.Sprintf("phase 2: starting basis %v", basis))
	final, state, iter, err := iterate(p, basis, cfg)
	if err != nil {
		return nil, err
	}
	if state == StateUnbounded {
		return &Result{Status: StatusUnbounded, Iterations: iter}, ErrUnbounded
	}

	e, err := NewEngine(p, final)
	if err != nil {
		return nil, err
	}
	_, x := e.BasicSolution()
	return &Result{
		Status:     StatusOptimal,
		X:          x,
		Objective:  p.Objective(x),
		Basis:      final,
		Iterations: iter,
	}, nil
}

// startingBasis derives a feasible basis from the support of x0.
func startingBasis(p *model.Problem, x0 []float64, tol float64) (Basis, error) {
	m, n := p.Dims()
	if len(x0) != n {
		return nil, errors.Wrapf(ErrDimensionMismatch, "len(x0) = %d, want %d", len(x0), n)
	}

	var basis Basis
	for j, v := range x0 {
		switch {
		case v <= -tol:
			return nil, errors.Wrapf(ErrInvalidStartingBasis, "x0[%d] = %v is negative", j, v)
		case v >= tol:
			basis = append(basis, j)
		}
	}
	if len(basis) > m {
		return nil, errors.Wrapf(ErrInvalidStartingBasis, "x0 has %d non-zero entries, want at most %d", len(basis), m)
	}
	if len(basis) > 0 && model.Rank(basisMatrix(p, basis)) < len(basis) {
		return nil, errors.Wrapf(ErrInvalidStartingBasis, "columns %v are linearly dependent", basis)
	}
	basis = completeBasis(p, basis)

	if err := checkFeasible(p, basis, tol); err != nil {
		return nil, err
	}
	return basis, nil
}

// checkFeasible reports ErrInvalidStartingBasis unless basis is a
// non-singular basis of p with x_B >= -tol.
func checkFeasible(p *model.Problem, basis Basis, tol float64) error {
	e, err := NewEngine(p, basis)
	switch {
	case errors.Is(err, ErrDimensionMismatch):
		return err
	case err != nil:
		return errors.Wrapf(ErrInvalidStartingBasis, "basis %v: %v", basis, err)
	}
	if !e.Feasible(tol) {
		xB, _ := e.BasicSolution()
		return errors.Wrapf(ErrInvalidStartingBasis, "basis %v gives x_B = %v", basis, xB)
	}
	return nil
}

// completeBasis extends independent columns to m columns, trying the
// remaining columns in index order. rank(A) = m guarantees it succeeds.
func completeBasis(p *model.Problem, basis Basis) Basis {
	m, n := p.Dims()
	for j := 0; j < n && len(basis) < m; j++ {
		if basis.Contains(j) {
			continue
		}
		candidate := append(basis.Clone(), j)
		if model.Rank(basisMatrix(p, candidate)) == len(candidate) {
			basis = candidate
		}
	}
	return basis
}
