package instance

import (
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"q.log/lpsimplex/model"
)

type sense int

const (
	lessEqual sense = iota
	greaterEqual
	equal
)

// Reader reads a mps file to construct a model
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// ConstructModelFromFile returns a *Model in standard form: every row is an
// equality with non-negative rhs, slack and surplus columns are appended
// after the structural ones, and finite column bounds become rows.
func (r *Reader) ConstructModelFromFile() (*model.Model, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.filename)
	}

	numCols := lp.NumCols()
	var cVec []float64
	for c := 1; c <= numCols; c++ {
		cVec = append(cVec, lp.ObjCoef(c))
	}

	var rows [][]float64
	var rhs []float64
	var senses []sense
	addRow := func(row []float64, b float64, s sense) {
		rows = append(rows, row)
		rhs = append(rhs, b)
		senses = append(senses, s)
	}

	for i := 1; i <= lp.NumRows(); i++ {
		rowVec := make([]float64, numCols)
		idxs, row := lp.MatRow(i)
		for k, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = row[k]
		}

		lb, ub := lp.RowLB(i), lp.RowUB(i)
		switch {
		case lb == -math.MaxFloat64 && ub == math.MaxFloat64:
			// free row, does not constrain x
		case lb == -math.MaxFloat64:
			addRow(rowVec, ub, lessEqual)
		case ub == math.MaxFloat64:
			addRow(rowVec, lb, greaterEqual)
		case lb == ub:
			addRow(rowVec, lb, equal)
		default:
			addRow(rowVec, lb, greaterEqual)
			addRow(append([]float64(nil), rowVec...), ub, lessEqual)
		}
	}

	for c := 1; c <= numCols; c++ {
		if lb := lp.ColLB(c); lb != -math.MaxFloat64 && lb != 0 {
			addRow(unitRow(numCols, c-1), lb, greaterEqual)
		}
		if ub := lp.ColUB(c); ub != math.MaxFloat64 {
			addRow(unitRow(numCols, c-1), ub, lessEqual)
		}
	}

	return standardForm(cVec, rows, rhs, senses)
}

func unitRow(n, j int) []float64 {
	row := make([]float64, n)
	row[j] = 1
	return row
}

// standardForm adds slack and surplus variables and flips rows with
// negative rhs.
func standardForm(cVec []float64, rows [][]float64, rhs []float64, senses []sense) (*model.Model, error) {
	if len(rows) == 0 {
		return nil, errors.New("instance: model has no constraints")
	}

	m := model.NewModel(len(rows), len(cVec))
	aVec := make([]float64, 0, len(rows)*len(cVec))
	for _, row := range rows {
		aVec = append(aVec, row...)
	}
	if err := m.SetA(aVec); err != nil {
		return nil, err
	}
	if err := m.SetB(rhs); err != nil {
		return nil, err
	}
	if err := m.SetC(cVec); err != nil {
		return nil, err
	}

	for r, s := range senses {
		colVec := make([]float64, m.NumRows)
		switch s {
		case equal:
			continue
		case lessEqual:
			colVec[r] = 1
		case greaterEqual:
			colVec[r] = -1
		}
		if err := m.AddCol(colVec, 0); err != nil {
			return nil, err
		}
	}

	for r := range m.NumRows {
		if m.B[r] < 0 {
			if err := m.MultiplyConstraint(r, -1); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
