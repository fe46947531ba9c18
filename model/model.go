package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rankCond is the relative singular value cutoff used for the rank check.
const rankCond = 1e-10

var (
	ErrDimensionMismatch = errors.New("model: dimension mismatch")
	ErrRankDeficient     = errors.New("model: A does not have full row rank")
	ErrInvalidValue      = errors.New("model: non-finite coefficient")
)

// Model is a mutable builder for a problem in standard form
//
//	minimize c'x s.t. Ax = b, x >= 0
type Model struct {
	//C objective function coefficients
	C []float64

	//A constraints matrix
	A *mat.Dense

	//B constraints rhs
	B []float64

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	m := &Model{
		C:       make([]float64, numCols),
		B:       make([]float64, numRows),
		NumRows: numRows,
		NumCols: numCols,
	}
	if numRows > 0 && numCols > 0 {
		m.A = mat.NewDense(numRows, numCols, nil)
	}
	return m
}

func (m *Model) SetC(cVec []float64) error {
	if len(cVec) != m.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "c has %d entries, want %d", len(cVec), m.NumCols)
	}

	m.C = append([]float64(nil), cVec...)

	return nil
}

// SetA sets the constraint matrix from row-major data.
func (m *Model) SetA(aVec []float64) error {
	if len(aVec) != m.NumCols*m.NumRows || len(aVec) == 0 {
		return errors.Wrapf(ErrDimensionMismatch, "A has %d entries, want %dx%d", len(aVec), m.NumRows, m.NumCols)
	}

	m.A = mat.NewDense(m.NumRows, m.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (m *Model) SetB(bVec []float64) error {
	if len(bVec) != m.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "b has %d entries, want %d", len(bVec), m.NumRows)
	}

	m.B = append([]float64(nil), bVec...)

	return nil
}

// AddCol appends a column with objective coefficient coef.
func (m *Model) AddCol(cVec []float64, coef float64) error {
	if len(cVec) != m.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "column has %d entries, want %d", len(cVec), m.NumRows)
	}

	if m.A == nil {
		m.A = mat.NewDense(m.NumRows, 1, append([]float64(nil), cVec...))
	} else {
		m.A = mat.DenseCopyOf(m.A.Grow(0, 1))
		m.A.SetCol(m.NumCols, cVec)
	}
	m.C = append(m.C, coef)

	m.NumCols++
	return nil
}

// AddRow appends the constraint rVec'x = rhs.
func (m *Model) AddRow(rVec []float64, rhs float64) error {
	if len(rVec) != m.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "row has %d entries, want %d", len(rVec), m.NumCols)
	}

	if m.A == nil {
		m.A = mat.NewDense(1, m.NumCols, append([]float64(nil), rVec...))
	} else {
		m.A = mat.DenseCopyOf(m.A.Grow(1, 0))
		m.A.SetRow(m.NumRows, rVec)
	}
	m.B = append(m.B, rhs)

	m.NumRows++
	return nil
}

func (m *Model) MultiplyConstraint(row int, mul float64) error {
	if row < 0 || row >= m.NumRows {
		return errors.Errorf("model: row %d does not exist", row)
	}

	for col := range m.NumCols {
		m.A.Set(row, col, m.A.At(row, col)*mul)
	}
	m.B[row] *= mul
	return nil
}

// Problem validates the model and freezes it into a Problem.
func (m *Model) Problem() (*Problem, error) {
	if m.A == nil {
		return nil, errors.Wrap(ErrDimensionMismatch, "model has no constraints")
	}
	return NewProblem(m.A, m.B, m.C)
}

// Problem is an immutable linear program in standard equality form.
// A is m×n with m <= n and rank(A) = m.
type Problem struct {
	a *mat.Dense
	b *mat.VecDense
	c *mat.VecDense
}

// NewProblem copies A, b and c and checks the standard form preconditions.
func NewProblem(a mat.Matrix, b, c []float64) (*Problem, error) {
	if a == nil {
		return nil, errors.Wrap(ErrDimensionMismatch, "nil constraint matrix")
	}
	m, n := a.Dims()
	if len(b) != m {
		return nil, errors.Wrapf(ErrDimensionMismatch, "len(b) = %d, A has %d rows", len(b), m)
	}
	if len(c) != n {
		return nil, errors.Wrapf(ErrDimensionMismatch, "len(c) = %d, A has %d columns", len(c), n)
	}

	p := &Problem{
		a: mat.DenseCopyOf(a),
		b: mat.NewVecDense(m, append([]float64(nil), b...)),
		c: mat.NewVecDense(n, append([]float64(nil), c...)),
	}

	if !finite(p.a.RawMatrix().Data) || !finite(b) || !finite(c) {
		return nil, ErrInvalidValue
	}
	if m > n {
		return nil, errors.Wrapf(ErrRankDeficient, "%d rows exceed %d columns", m, n)
	}
	if r := Rank(p.a); r != m {
		return nil, errors.Wrapf(ErrRankDeficient, "rank(A) = %d, want %d", r, m)
	}

	return p, nil
}

// Rank returns the numerical rank of a.
func Rank(a mat.Matrix) int {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return 0
	}
	return svd.Rank(rankCond)
}

// Augment returns the problem [A cols] with costs appended to c.
// The receiver is not modified.
func (p *Problem) Augment(cols mat.Matrix, costs []float64) (*Problem, error) {
	m, n := p.Dims()
	r, k := cols.Dims()
	if r != m || len(costs) != k {
		return nil, errors.Wrapf(ErrDimensionMismatch, "augmenting %dx%d by %dx%d with %d costs", m, n, r, k, len(costs))
	}

	a := mat.NewDense(m, n+k, nil)
	a.Slice(0, m, 0, n).(*mat.Dense).Copy(p.a)
	a.Slice(0, m, n, n+k).(*mat.Dense).Copy(cols)

	c := make([]float64, 0, n+k)
	c = append(c, p.c.RawVector().Data...)
	c = append(c, costs...)

	return NewProblem(a, p.b.RawVector().Data, c)
}

// Dims returns the number of constraints m and variables n.
func (p *Problem) Dims() (m, n int) {
	return p.a.Dims()
}

func (p *Problem) A() mat.Matrix { return p.a }

func (p *Problem) B() mat.Vector { return p.b }

func (p *Problem) C() mat.Vector { return p.c }

// Col returns column j of A.
func (p *Problem) Col(j int) mat.Vector {
	return p.a.ColView(j)
}

// Objective returns c'x.
func (p *Problem) Objective(x []float64) float64 {
	return floats.Dot(p.c.RawVector().Data, x)
}

// Residual returns the max norm of Ax - b.
func (p *Problem) Residual(x []float64) float64 {
	m, n := p.Dims()
	if len(x) != n {
		panic(mat.ErrShape)
	}
	var ax mat.VecDense
	ax.MulVec(p.a, mat.NewVecDense(n, x))
	res := make([]float64, m)
	floats.SubTo(res, ax.RawVector().Data, p.b.RawVector().Data)
	return floats.Norm(res, math.Inf(1))
}

func finite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
