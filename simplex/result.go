package simplex

import "fmt"

type Status int

const (
	StatusOptimal Status = iota
	StatusUnbounded
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusUnbounded:
		return "unbounded"
	case StatusInfeasible:
		return "infeasible"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a solve. X, Objective and Basis are only set
// when Status is StatusOptimal.
type Result struct {
	Status    Status
	X         []float64
	Objective float64
	Basis     Basis
	// Iterations is the number of phase 2 pivots.
	Iterations int
}
