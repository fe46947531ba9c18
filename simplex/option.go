package simplex

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// DefaultTolerance is the feasibility and optimality threshold.
	DefaultTolerance = 1e-4

	DefaultMaxIterations = 10000
)

// PivotRule selects the entering index of a pivot. Under both rules ratio
// test ties leave the lowest column index.
type PivotRule int

const (
	// Dantzig enters the most negative reduced cost. It can cycle on
	// degenerate problems.
	Dantzig PivotRule = iota
	// Bland enters the lowest eligible index. It cannot cycle, but may
	// return a different optimal vertex than Dantzig on degenerate problems.
	Bland
)

func (r PivotRule) String() string {
	switch r {
	case Dantzig:
		return "dantzig"
	case Bland:
		return "bland"
	default:
		return "unknown"
	}
}

// Config holds the solver settings shared by both phases.
type Config struct {
	Tolerance     float64
	MaxIterations int
	Rule          PivotRule
	Logger        Logger
}

func defaultConfig() Config {
	return Config{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Rule:          Dantzig,
		Logger:        noopLogger{},
	}
}

type Option func(*Config) error

// WithTolerance sets ε, used for every comparison against zero.
func WithTolerance(eps float64) Option {
	return func(c *Config) error {
		if !(eps > 0) || math.IsInf(eps, 1) {
			return errors.Errorf("simplex: invalid tolerance %v", eps)
		}
		c.Tolerance = eps

		return nil
	}
}

// WithMaxIterations caps the number of pivots of a single phase.
func WithMaxIterations(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return errors.Errorf("simplex: invalid iteration limit %d", n)
		}
		c.MaxIterations = n

		return nil
	}
}

func WithPivotRule(rule PivotRule) Option {
	return func(c *Config) error {
		if rule != Dantzig && rule != Bland {
			return errors.Errorf("simplex: unknown pivot rule %d", rule)
		}
		c.Rule = rule

		return nil
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			logger = noopLogger{}
		}
		c.Logger = logger

		return nil
	}
}

func newConfig(opts []Option) (Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
