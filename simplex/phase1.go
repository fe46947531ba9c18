package simplex

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsimplex/model"
)

// FindBasicFeasiblePoint returns a basic feasible point of p. It solves
//
//	minimize sum(z) s.t. Ax + Dz = b, x >= 0, z >= 0
//
// where D is diagonal with D_ii = 1 if b_i >= 0 and -1 otherwise, starting
// from the basic feasible point (0, Db). If the optimal z is zero, x is a
// basic feasible point of p. Otherwise p is infeasible and ErrInfeasible is
// returned.
func FindBasicFeasiblePoint(p *model.Problem, opts ...Option) ([]float64, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	basis, err := phaseOne(p, cfg)
	if err != nil {
		return nil, err
	}

	e, err := NewEngine(p, basis)
	if err != nil {
		return nil, err
	}
	_, x := e.BasicSolution()
	return x, nil
}

// phaseOne returns a feasible basis of p.
func phaseOne(p *model.Problem, cfg Config) (Basis, error) {
	aux, basis, err := auxiliary(p)
	if err != nil {
		return nil, err
	}
	m, n := p.Dims()

	cfg.Logger.Print(fmt.Sprintf("phase 1: A = %v", mat.Formatted(aux.A(), mat.Prefix("    "), mat.Squeeze())))
	final, state, iter, err := iterate(aux, basis, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "phase 1")
	}
	// The auxiliary objective is bounded below by zero.
	if state != StateOptimal {
		return nil, errors.Wrapf(ErrSingularBasis, "phase 1 ended %v", state)
	}

	e, err := NewEngine(aux, final)
	if err != nil {
		return nil, errors.Wrap(err, "phase 1")
	}
	_, xz := e.BasicSolution()
	x, z := xz[:n], xz[n:]
	norm := floats.Norm(z, 2)
	cfg.Logger.Print(fmt.Sprintf("phase 1: %d pivots, |z| = %v", iter, norm))
	if norm > cfg.Tolerance {
		return nil, errors.Wrapf(ErrInfeasible, "|z| = %g", norm)
	}

	// Artificial columns left in the basis sit at zero level and are swapped
	// for original columns so the basis belongs to p.
	var orig Basis
	for _, j := range final {
		if j < n {
			orig = append(orig, j)
		}
	}
	if len(orig) < m {
		orig = completeBasis(p, orig)
	}

	fe, err := NewEngine(p, orig)
	if err != nil {
		return nil, errors.Wrap(err, "phase 1")
	}
	if !fe.Feasible(cfg.Tolerance) {
		xB, _ := fe.BasicSolution()
		return nil, errors.Wrapf(ErrSingularBasis, "phase 1 basis %v gives x_B = %v for x = %v", orig, xB, x)
	}
	return orig, nil
}

// auxiliary builds the phase 1 problem [A D] with unit costs on the
// artificial columns and returns it with its starting basis.
func auxiliary(p *model.Problem) (*model.Problem, Basis, error) {
	m, n := p.Dims()

	d := mat.NewDense(m, m, nil)
	costs := make([]float64, m)
	basis := make(Basis, m)
	for i := range m {
		// D_ii = 1 if b_i >= 0, -1 otherwise
		if p.B().AtVec(i) >= 0 {
			d.Set(i, i, 1)
		} else {
			d.Set(i, i, -1)
		}
		costs[i] = 1
		basis[i] = n + i
	}

	aux, err := p.Augment(d, costs)
	if err != nil {
		return nil, nil, err
	}
	return aux, basis, nil
}
