package simplex

import (
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsimplex/model"
)

// Basis is the ordered set of basic column indexes. Position i holds the
// variable that row i of A_B⁻¹b solves for.
type Basis []int

func (b Basis) Contains(j int) bool {
	return slices.Contains(b, j)
}

// NonBasic returns the indexes in [0, n) that are not in b, in order.
func (b Basis) NonBasic(n int) []int {
	out := make([]int, 0, n-len(b))
	for j := range n {
		if !b.Contains(j) {
			out = append(out, j)
		}
	}
	return out
}

func (b Basis) Clone() Basis {
	return slices.Clone(b)
}

// Engine derives the basic solution and reduced costs of a basis.
// The inverse of A_B is computed once, on construction.
type Engine struct {
	p     *model.Problem
	basis Basis
	inv   *mat.Dense
}

// MaxCondition is the largest 1-norm condition number of A_B accepted as
// non-singular. Unlike the determinant it does not depend on the scale of A.
const MaxCondition = 1e12

// NewEngine checks that basis indexes m distinct columns of p and that A_B
// is non-singular, then inverts it.
func NewEngine(p *model.Problem, basis Basis) (*Engine, error) {
	m, n := p.Dims()
	if len(basis) != m {
		return nil, errors.Wrapf(ErrDimensionMismatch, "basis has %d indexes, want %d", len(basis), m)
	}
	seen := make(map[int]bool, m)
	for _, j := range basis {
		if j < 0 || j >= n || seen[j] {
			return nil, errors.Wrapf(ErrSingularBasis, "basis %v is not %d distinct columns", basis, m)
		}
		seen[j] = true
	}

	ab := basisMatrix(p, basis)
	var lu mat.LU
	lu.Factorize(ab)
	if cond := lu.Cond(); cond > MaxCondition {
		return nil, errors.Wrapf(ErrSingularBasis, "cond(A_B) = %g for basis %v", cond, basis)
	}
	inv := mat.NewDense(m, m, nil)
	if err := inv.Inverse(ab); err != nil {
		return nil, errors.Wrapf(ErrSingularBasis, "basis %v: %v", basis, err)
	}

	return &Engine{
		p:     p,
		basis: basis.Clone(),
		inv:   inv,
	}, nil
}

// basisMatrix extracts the columns of A at basis, in basis order.
func basisMatrix(p *model.Problem, basis Basis) *mat.Dense {
	m, _ := p.Dims()
	ab := mat.NewDense(m, len(basis), nil)
	for i, j := range basis {
		ab.ColView(i).(*mat.VecDense).CopyVec(p.Col(j))
	}
	return ab
}

func (e *Engine) Basis() Basis {
	return e.basis.Clone()
}

func (e *Engine) Inverse() mat.Matrix {
	return e.inv
}

// BasicSolution returns x_B = A_B⁻¹b and the full solution vector, which is
// zero at every non-basic index.
func (e *Engine) BasicSolution() (xB, x []float64) {
	m, n := e.p.Dims()
	xBVec := mat.NewVecDense(m, nil)
	xBVec.MulVec(e.inv, e.p.B())

	xB = xBVec.RawVector().Data
	x = make([]float64, n)
	for i, j := range e.basis {
		x[j] = xB[i]
	}
	return xB, x
}

// Direction returns A_B⁻¹A_j, column j expressed in the current basis.
func (e *Engine) Direction(j int) []float64 {
	m, _ := e.p.Dims()
	d := mat.NewVecDense(m, nil)
	d.MulVec(e.inv, e.p.Col(j))
	return d.RawVector().Data
}

// ReducedCosts returns r_j = c_j - c_B'A_B⁻¹A_j for every column. Basic
// entries are exactly zero.
func (e *Engine) ReducedCosts() []float64 {
	m, n := e.p.Dims()
	c := e.p.C()

	cB := mat.NewVecDense(m, nil)
	for i, j := range e.basis {
		cB.SetVec(i, c.AtVec(j))
	}

	//pT = cbT*B^-1
	var dual mat.VecDense
	dual.MulVec(e.inv.T(), cB)

	//c'j = cj - pT*Aj
	var pa mat.VecDense
	pa.MulVec(e.p.A().T(), &dual)

	r := make([]float64, n)
	for j := range n {
		r[j] = c.AtVec(j) - pa.AtVec(j)
	}
	for _, j := range e.basis {
		r[j] = 0
	}
	return r
}

// Objective returns c'x at the basic solution.
func (e *Engine) Objective() float64 {
	_, x := e.BasicSolution()
	return e.p.Objective(x)
}

// Feasible reports whether every basic value is at least -tol.
func (e *Engine) Feasible(tol float64) bool {
	xB, _ := e.BasicSolution()
	return floats.Min(xB) >= -tol
}
