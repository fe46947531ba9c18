package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func exampleModel(t *testing.T) *Model {
	t.Helper()

	m := NewModel(2, 4)
	require.NoError(t, m.SetA([]float64{
		2, 3, 1, 0,
		-1, 1, 0, 1,
	}))
	require.NoError(t, m.SetB([]float64{6, 1}))
	require.NoError(t, m.SetC([]float64{-1, -3, 0, 0}))
	return m
}

func TestModelSetters(t *testing.T) {
	m := NewModel(2, 3)

	assert.ErrorIs(t, m.SetA([]float64{1, 2, 3}), ErrDimensionMismatch)
	assert.ErrorIs(t, m.SetB([]float64{1, 2, 3}), ErrDimensionMismatch)
	assert.ErrorIs(t, m.SetC([]float64{1}), ErrDimensionMismatch)
	assert.ErrorIs(t, m.AddCol([]float64{1}, 0), ErrDimensionMismatch)
	assert.ErrorIs(t, m.AddRow([]float64{1, 2}, 0), ErrDimensionMismatch)
	assert.Error(t, m.MultiplyConstraint(2, -1))
}

func TestModelGrow(t *testing.T) {
	m := exampleModel(t)

	require.NoError(t, m.AddCol([]float64{1, 1}, 5))
	assert.Equal(t, 5, m.NumCols)
	assert.Equal(t, []float64{-1, -3, 0, 0, 5}, m.C)
	assert.Equal(t, 1.0, m.A.At(1, 4))

	require.NoError(t, m.AddRow([]float64{1, 0, 0, 0, 0}, 7))
	assert.Equal(t, 3, m.NumRows)
	assert.Equal(t, []float64{6, 1, 7}, m.B)
	assert.Equal(t, 1.0, m.A.At(2, 0))
	assert.Equal(t, 0.0, m.A.At(2, 4))

	require.NoError(t, m.MultiplyConstraint(1, -1))
	assert.Equal(t, []float64{1, -1, 0, -1, -1}, mat.Row(nil, 1, m.A))
	assert.Equal(t, -1.0, m.B[1])
}

func TestModelFromEmpty(t *testing.T) {
	m := NewModel(0, 2)
	_, err := m.Problem()
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	require.NoError(t, m.AddRow([]float64{1, 1}, 1))
	require.NoError(t, m.SetC([]float64{1, 0}))
	p, err := m.Problem()
	require.NoError(t, err)
	rows, cols := p.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 2, cols)
}

func TestNewProblem(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{
		1, 0, 1,
		0, 1, 1,
	})

	for _, test := range []struct {
		name string
		a    mat.Matrix
		b, c []float64
		err  error
	}{
		{name: "ok", a: a, b: []float64{1, 2}, c: []float64{1, 1, 1}},
		{name: "short b", a: a, b: []float64{1}, c: []float64{1, 1, 1}, err: ErrDimensionMismatch},
		{name: "long c", a: a, b: []float64{1, 2}, c: []float64{1, 1, 1, 1}, err: ErrDimensionMismatch},
		{name: "nil A", a: nil, b: []float64{1, 2}, c: []float64{1, 1, 1}, err: ErrDimensionMismatch},
		{name: "more rows than columns", a: a.T(), b: []float64{1, 2, 3}, c: []float64{1, 1}, err: ErrRankDeficient},
		{
			name: "dependent rows",
			a:    mat.NewDense(2, 3, []float64{1, 2, 3, 2, 4, 6}),
			b:    []float64{1, 2},
			c:    []float64{1, 1, 1},
			err:  ErrRankDeficient,
		},
		{name: "NaN", a: a, b: []float64{math.NaN(), 2}, c: []float64{1, 1, 1}, err: ErrInvalidValue},
		{name: "Inf", a: a, b: []float64{1, 2}, c: []float64{1, math.Inf(-1), 1}, err: ErrInvalidValue},
	} {
		t.Run(test.name, func(t *testing.T) {
			p, err := NewProblem(test.a, test.b, test.c)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestProblemIsImmutable(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 1})
	b := []float64{1}
	c := []float64{1, 2}
	p, err := NewProblem(a, b, c)
	require.NoError(t, err)

	a.Set(0, 0, 5)
	b[0] = 5
	c[0] = 5

	assert.Equal(t, 1.0, p.A().At(0, 0))
	assert.Equal(t, 1.0, p.B().AtVec(0))
	assert.Equal(t, 1.0, p.C().AtVec(0))
}

func TestProblemAugment(t *testing.T) {
	p, err := exampleModel(t).Problem()
	require.NoError(t, err)

	aug, err := p.Augment(mat.NewDense(2, 1, []float64{1, -1}), []float64{9})
	require.NoError(t, err)

	m, n := aug.Dims()
	assert.Equal(t, 2, m)
	assert.Equal(t, 5, n)
	assert.Equal(t, -1.0, aug.A().At(1, 4))
	assert.Equal(t, 2.0, aug.A().At(0, 0))
	assert.Equal(t, 9.0, aug.C().AtVec(4))

	_, n = p.Dims()
	assert.Equal(t, 4, n)

	_, err = p.Augment(mat.NewDense(3, 1, nil), []float64{0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = p.Augment(mat.NewDense(2, 1, nil), []float64{0, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestProblemObjectiveAndResidual(t *testing.T) {
	p, err := exampleModel(t).Problem()
	require.NoError(t, err)

	x := []float64{0.6, 1.6, 0, 0}
	assert.InDelta(t, -5.4, p.Objective(x), 1e-12)
	assert.InDelta(t, 0, p.Residual(x), 1e-12)
	assert.InDelta(t, 6, p.Residual([]float64{0, 0, 0, 1}), 1e-12)
	assert.Panics(t, func() { p.Residual([]float64{1}) })
}

func TestRank(t *testing.T) {
	assert.Equal(t, 2, Rank(mat.NewDense(2, 3, []float64{1, 0, 1, 0, 1, 1})))
	assert.Equal(t, 1, Rank(mat.NewDense(2, 2, []float64{1, 2, 2, 4})))
}
