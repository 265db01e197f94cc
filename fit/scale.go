package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-peakfit/internal/numeric"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/stats/sample"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ScaleResult is the outcome of RefineScale.
type ScaleResult struct {
	// Scale is the intensity scale N installed on the model.
	Scale float64

	// Converged is false when the solver failed; Scale then holds the last
	// positive value it tried, or the previous total.
	Converged bool

	// RMSE of N*Predict(x) against y.
	RMSE float64
}

// RefineScale fits the intensity scale N of m by minimising
// sum((N*Predict(x) - y)^2). Weights and shapes are not changed. Only the
// Logger option is used.
func RefineScale(m *mixture.Model, x, y []float64, opts ...Option) (ScaleResult, error) {
	if len(x) != len(y) || len(x) == 0 {
		return ScaleResult{}, fmt.Errorf("%w: %d x values, %d intensities", ErrInvalidInput, len(x), len(y))
	}

	return refineScale(m, x, y, ApplyOptions(opts...).Logger, scaleSettings()), nil
}

// scaleSettings bounds the scale solver.
func scaleSettings() *optimize.Settings {
	return &optimize.Settings{
		GradientThreshold: 1e-10,
		MajorIterations:   100,
	}
}

// initialScale is the starting guess for N: the trapezoidal integral of y,
// falling back to sum(y) and then to one.
func initialScale(x, y []float64) float64 {
	n0 := sample.Integral(x, y)
	if !(n0 > 0) {
		n0 = floats.Sum(y)
	}

	if !(n0 > 0) {
		n0 = 1
	}

	return n0
}

func refineScale(m *mixture.Model, x, y []float64, log *zap.Logger, settings *optimize.Settings) ScaleResult {
	pred := m.Predict(x)

	if !numeric.Finite(pred) {
		log.Warn("scale refinement skipped: non-finite prediction")
		return ScaleResult{Scale: m.Total(), RMSE: math.NaN()}
	}

	// N = n0 * s with s near one.
	n0 := initialScale(x, y)

	norm := floats.Dot(y, y)
	if !(norm > 0) {
		norm = 1
	}

	resid := make([]float64, len(pred))
	lastPositive := 0.0

	residuals := func(s float64) {
		for i, p := range pred {
			resid[i] = n0*s*p - y[i]
		}
	}

	problem := optimize.Problem{
		Func: func(s []float64) float64 {
			if s[0] > 0 && !math.IsInf(s[0], 0) {
				lastPositive = s[0]
			}

			residuals(s[0])

			return floats.Dot(resid, resid) / norm
		},
		Grad: func(grad, s []float64) {
			residuals(s[0])
			grad[0] = 2 * n0 * floats.Dot(pred, resid) / norm
		},
	}

	res := ScaleResult{Scale: m.Total()}

	result, err := optimize.Minimize(problem, []float64{1}, settings, &optimize.BFGS{})

	switch {
	case err == nil && solved(result):
		res.Scale = n0 * result.X[0]
		res.Converged = true
	default:
		fields := []zap.Field{zap.Float64("last_positive", n0*lastPositive)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		if result != nil {
			fields = append(fields, zap.Stringer("solver_status", result.Status))
		}

		log.Warn("scale refinement did not converge", fields...)

		if lastPositive > 0 {
			res.Scale = n0 * lastPositive
		}
	}

	if err := m.SetTotal(res.Scale); err != nil {
		res.Scale = m.Total()
		res.Converged = false
	}

	res.RMSE = rmse(m.Intensity(x), y)

	return res
}

// solved reports whether the solver stopped on a convergence criterion with
// a positive scale. Evaluation and iteration limits do not count.
func solved(result *optimize.Result) bool {
	if result == nil || !(result.X[0] > 0) {
		return false
	}

	return result.Status == optimize.GradientThreshold || result.Status == optimize.FunctionConvergence
}

// rmse returns the root mean squared difference of a and b.
func rmse(a, b []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}

	return floats.Distance(a, b, 2) / math.Sqrt(float64(len(a)))
}
