package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsimplex/simplex"
)

func TestStandardForm(t *testing.T) {
	// x1 + x2 <= 4, x1 - x2 >= -2, x1 + 2x2 = 3
	m, err := standardForm(
		[]float64{1, 2},
		[][]float64{{1, 1}, {1, -1}, {1, 2}},
		[]float64{4, -2, 3},
		[]sense{lessEqual, greaterEqual, equal},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, m.NumRows)
	assert.Equal(t, 4, m.NumCols)
	assert.Equal(t, []float64{1, 2, 0, 0}, m.C)
	// the >= row has a negative rhs and is flipped, surplus included
	assert.Equal(t, []float64{4, 2, 3}, m.B)
	want := mat.NewDense(3, 4, []float64{
		1, 1, 1, 0,
		-1, 1, 0, 1,
		1, 2, 0, 0,
	})
	assert.True(t, mat.Equal(want, m.A), "A = %v", mat.Formatted(m.A))
}

func TestStandardFormEmpty(t *testing.T) {
	_, err := standardForm([]float64{1}, nil, nil, nil)
	assert.Error(t, err)
}

func TestConstructModelFromFile(t *testing.T) {
	m, err := NewReader("testdata/example.mps").ConstructModelFromFile()
	require.NoError(t, err)

	assert.Equal(t, 2, m.NumRows)
	assert.Equal(t, 4, m.NumCols)
	assert.Equal(t, []float64{-1, -3, 0, 0}, m.C)
	assert.Equal(t, []float64{6, 1}, m.B)

	p, err := m.Problem()
	require.NoError(t, err)
	res, err := simplex.SolveTwoPhase(p)
	require.NoError(t, err)
	assert.InDelta(t, -5.4, res.Objective, 1e-9)
}

func TestConstructModelFromMissingFile(t *testing.T) {
	_, err := NewReader("testdata/missing.mps").ConstructModelFromFile()
	assert.Error(t, err)
}
