package simplex

// Logger receives the solver trace: the objective of every basis, each
// basis change and the phase boundaries. *log.Logger satisfies it.
type Logger interface {
	Print(v ...interface{})
}

// noopLogger drops the trace. It is the default of every entry point.
type noopLogger struct{}

func (noopLogger) Print(...interface{}) {}
