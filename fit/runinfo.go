package fit

import (
	"fmt"
	"time"
)

// Status is the terminal state of a fit.
type Status int

// Fit outcomes.
const (
	StatusConverged Status = iota + 1
	StatusMaxIterExceeded
	StatusRejected
)

// String returns a lower-case name of s.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterExceeded:
		return "max_iter_exceeded"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// RunInfo describes a completed fit.
type RunInfo struct {
	Iterations int
	Elapsed    time.Duration

	// LogLikelihood is the final log-likelihood.
	LogLikelihood float64

	// LLHistory and ResidualHistory hold one entry per iteration.
	LLHistory       []float64
	ResidualHistory []float64

	// Recoveries lists the iterations that triggered a random
	// re-initialisation.
	Recoveries []int

	// RMSE of N*Predict(x) against the observed intensity.
	RMSE float64

	// Scale is the fitted intensity scale N.
	Scale          float64
	ScaleConverged bool

	Status Status

	// Reason explains a rejected run.
	Reason string
}

// Converged reports whether the fit met the convergence threshold.
func (r RunInfo) Converged() bool {
	return r.Status == StatusConverged
}
