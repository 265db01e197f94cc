package fit

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-peakfit/internal/numeric"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/seed"
	"github.com/cwbudde/algo-peakfit/stats/sample"
	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// roundoff is the relative log-likelihood decrease still read as no change.
const roundoff = 1e-12

// Fitter runs EM fits with a fixed configuration. A Fitter holds no per-fit
// state and may be shared between goroutines fitting different models.
type Fitter struct {
	cfg Config
	log *zap.Logger
}

// New creates a Fitter from options applied to DefaultConfig.
func New(opts ...Option) *Fitter {
	return NewWithConfig(ApplyOptions(opts...))
}

// NewWithConfig creates a Fitter from an explicit configuration. Invalid
// fields fall back to their defaults.
func NewWithConfig(cfg Config) *Fitter {
	def := DefaultConfig()

	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}

	if !(cfg.RelativeEpsilon > 0) || math.IsInf(cfg.RelativeEpsilon, 0) {
		cfg.RelativeEpsilon = def.RelativeEpsilon
	}

	if cfg.MaxRecoveries < 0 {
		cfg.MaxRecoveries = def.MaxRecoveries
	}

	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	return &Fitter{cfg: cfg, log: cfg.Logger}
}

// Config returns the fitter configuration.
func (f *Fitter) Config() Config {
	return f.cfg
}

// EM fits m to (x, y) with a one-shot Fitter.
func EM(m *mixture.Model, x, y []float64, opts ...Option) (RunInfo, error) {
	return New(opts...).Fit(m, x, y)
}

// Fit runs EM on m until the relative log-likelihood change drops below
// RelativeEpsilon or MaxIterations is reached, then sorts the signal
// components by location and refines the intensity scale. Without scale
// refinement the scale is set to the integral of y.
//
// The model domain is rebound to the range of x. A model without a starting
// point is initialised at random first. On invalid input the model is not
// touched and the returned RunInfo has StatusRejected.
func (f *Fitter) Fit(m *mixture.Model, x, y []float64) (RunInfo, error) {
	start := time.Now()

	summary, err := validate(x, y, m.Len())
	if err != nil {
		f.log.Warn("fit rejected", zap.Error(err))
		return RunInfo{Status: StatusRejected, Reason: err.Error()}, err
	}

	m.SetDomain(summary.Min, summary.Max)

	if !m.Initialized() {
		m.InitRandom()
	}

	if f.cfg.PeakSeeding {
		if err := seed.Apply(m, x, y, f.cfg.SeedOptions...); err != nil {
			return RunInfo{Status: StatusRejected, Reason: err.Error()}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	info := f.iterate(m, x, y)

	m.SortByLocation()
	info.LogLikelihood = m.LogLikelihood(x, y)

	if f.cfg.RefineScale {
		res := refineScale(m, x, y, f.log, scaleSettings())
		info.Scale = res.Scale
		info.ScaleConverged = res.Converged
		info.RMSE = res.RMSE
	} else {
		info.Scale = initialScale(x, y)
		if err := m.SetTotal(info.Scale); err != nil {
			info.Scale = m.Total()
		}

		info.RMSE = rmse(m.Intensity(x), y)
	}

	info.Elapsed = time.Since(start)

	f.log.Info("fit finished",
		zap.Stringer("status", info.Status),
		zap.Int("iterations", info.Iterations),
		zap.Int("recoveries", len(info.Recoveries)),
		zap.Float64("log_likelihood", info.LogLikelihood),
		zap.Float64("rmse", info.RMSE),
		zap.Float64("scale", info.Scale),
		zap.Duration("elapsed", info.Elapsed),
	)

	return info, nil
}

func (f *Fitter) iterate(m *mixture.Model, x, y []float64) RunInfo {
	info := RunInfo{
		Status:          StatusMaxIterExceeded,
		LLHistory:       make([]float64, 0, min(f.cfg.MaxIterations, 256)),
		ResidualHistory: make([]float64, 0, min(f.cfg.MaxIterations, 256)),
	}

	ws := newWorkspace(m.Len(), len(x))
	llPrev := m.LogLikelihood(x, y)
	exhausted := false

	for it := 0; it < f.cfg.MaxIterations; it++ {
		ll := math.NaN()
		if ws.step(m, x, y) {
			ll = m.LogLikelihood(x, y)
		}

		residual := relativeChange(ll, llPrev)
		if residual < 0 && residual > -roundoff {
			residual = 0
		}

		info.Iterations = it + 1
		info.LLHistory = append(info.LLHistory, ll)
		info.ResidualHistory = append(info.ResidualHistory, residual)

		if f.cfg.Verbose {
			f.log.Debug("em iteration",
				zap.Int("iteration", it),
				zap.Float64("log_likelihood", ll),
				zap.Float64("residual", residual),
			)
		}

		if residual < 0 || math.IsNaN(residual) {
			if len(info.Recoveries) < f.cfg.MaxRecoveries {
				m.InitRandom()
				info.Recoveries = append(info.Recoveries, it)
				llPrev = m.LogLikelihood(x, y)

				f.log.Warn("unstable em step, reinitialising",
					zap.Int("iteration", it),
					zap.Float64("residual", residual),
					zap.Int("recovery", len(info.Recoveries)),
				)

				continue
			}

			if !exhausted {
				exhausted = true

				f.log.Warn("recovery budget exhausted, accepting unstable steps",
					zap.Int("iteration", it),
					zap.Int("max_recoveries", f.cfg.MaxRecoveries),
				)
			}

			llPrev = ll

			continue
		}

		llPrev = ll

		if residual < f.cfg.RelativeEpsilon {
			info.Status = StatusConverged
			break
		}
	}

	return info
}

// relativeChange returns (ll-prev)/|prev|, or the plain difference when prev
// is zero.
func relativeChange(ll, prev float64) float64 {
	if prev == 0 {
		return ll - prev
	}

	return (ll - prev) / math.Abs(prev)
}

// workspace holds the per-fit buffers of the E and M steps.
type workspace struct {
	resp    *mat.Dense // components x samples
	denom   []float64
	weights []float64
	wy      []float64
}

func newWorkspace(k, n int) *workspace {
	return &workspace{
		resp:    mat.NewDense(k, n, nil),
		denom:   make([]float64, n),
		weights: make([]float64, k),
		wy:      make([]float64, n),
	}
}

// step performs one E-step and M-step. It reports false when the updated
// weights are not a valid distribution.
func (ws *workspace) step(m *mixture.Model, x, y []float64) bool {
	weights := m.Weights()

	// E-step: resp[k] = w_k c_k(x) / (sum_j w_j c_j(x) + tiny).
	clear(ws.denom)

	for k := range m.Len() {
		row := ws.resp.RawRowView(k)
		copy(row, m.Component(k).Predict(row, x))
		floats.Scale(weights[k], row)
		floats.Add(ws.denom, row)
	}

	floats.AddConst(numeric.Tiny, ws.denom)

	for k := range m.Len() {
		floats.Div(ws.resp.RawRowView(k), ws.denom)
	}

	// M-step.
	for k := range m.Len() {
		vecmath.MulBlock(ws.wy, y, ws.resp.RawRowView(k))
		ws.weights[k] = floats.Sum(ws.wy)
		m.Component(k).Estimate(x, ws.wy)
	}

	return m.SetWeights(ws.weights) == nil
}

// validate checks the sample and returns its summary.
func validate(x, y []float64, components int) (sample.Summary, error) {
	if len(x) != len(y) {
		return sample.Summary{}, fmt.Errorf("%w: %d x values, %d intensities", ErrInvalidInput, len(x), len(y))
	}

	if len(x) < components || len(x) == 0 {
		return sample.Summary{}, fmt.Errorf("%w: %d samples for %d components", ErrInsufficientData, len(x), components)
	}

	if !numeric.Finite(x) || !numeric.Finite(y) {
		return sample.Summary{}, fmt.Errorf("%w: non-finite sample", ErrInvalidInput)
	}

	for i, v := range y {
		if v < 0 {
			return sample.Summary{}, fmt.Errorf("%w: negative intensity %v at %d", ErrInvalidInput, v, i)
		}
	}

	s := sample.Summarize(x, y)

	if !(s.Total > 0) {
		return sample.Summary{}, fmt.Errorf("%w: total intensity is %v", ErrInvalidInput, s.Total)
	}

	if !(s.Span() > 0) {
		return sample.Summary{}, fmt.Errorf("%w: zero-width domain at x=%v", ErrInvalidInput, s.Min)
	}

	return s, nil
}
