package mixture

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/cwbudde/algo-peakfit/internal/numeric"
	"github.com/cwbudde/algo-peakfit/peak"
	"gonum.org/v1/gonum/floats"
)

// placeholder domain used until the first fit rebinds the model to data.
const (
	defaultLo = 0.0
	defaultHi = 1.0
)

// Model is a weighted sum of peak shapes with an optional trailing background.
//
// A Model is not safe for concurrent mutation; clone it to fit in parallel.
type Model struct {
	components []peak.Model
	weights    []float64
	signal     int
	total      float64
	lo, hi     float64

	seed        int64
	rng         *rand.Rand
	initialized bool
}

// New builds a model from cfg. Signal components are Gaussians; the
// background, if any, is appended last. Without explicit locations the model
// is left uninitialised and receives a random start on its first fit.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		seed: cfg.Seed,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}

	if err := m.rebuild(cfg); err != nil {
		return nil, err
	}

	if err := m.applyParams(cfg); err != nil {
		return nil, err
	}

	return m, nil
}

// NewFromComponents builds a model from arbitrary shapes. A background kind is
// only accepted in the last position. Nil weights mean equal proportions.
func NewFromComponents(components []peak.Model, weights []float64, seed int64) (*Model, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: no components", ErrInvalidConfig)
	}

	signal := len(components)

	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("%w: component %d is nil", ErrInvalidConfig, i)
		}

		if !c.Kind().IsBackground() {
			continue
		}

		if i != len(components)-1 {
			return nil, fmt.Errorf("%w: background %s must be the last component", ErrInvalidConfig, c.Kind())
		}

		signal = i
	}

	if signal == 0 {
		return nil, fmt.Errorf("%w: at least one signal component required", ErrInvalidConfig)
	}

	m := &Model{
		components:  append([]peak.Model(nil), components...),
		signal:      signal,
		total:       1,
		lo:          defaultLo,
		hi:          defaultHi,
		seed:        seed,
		rng:         rand.New(rand.NewSource(seed)),
		initialized: true,
	}

	if weights == nil {
		m.weights = uniformWeights(len(components))
		return m, nil
	}

	if err := m.SetWeights(weights); err != nil {
		return nil, err
	}

	return m, nil
}

// rebuild replaces the component list with cfg.K Gaussians spread over the
// placeholder domain and the configured background.
func (m *Model) rebuild(cfg Config) error {
	lo, hi := defaultLo, defaultHi
	if len(cfg.Domain) == 2 {
		lo, hi = cfg.Domain[0], cfg.Domain[1]
	} else if bg := cfg.Background; bg != nil && bg.Hi > bg.Lo {
		lo, hi = bg.Lo, bg.Hi
	}

	components := make([]peak.Model, 0, cfg.K+1)
	for k := range cfg.K {
		mu := lo + (hi-lo)*float64(k+1)/float64(cfg.K+1)
		components = append(components, peak.NewGaussian(mu, (hi-lo)/float64(4*cfg.K)))
	}

	kind, ok, err := cfg.BackgroundKind()
	if err != nil {
		return err
	}

	if ok {
		bg, err := peak.NewBackground(kind, lo, hi)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupportedBackground, err)
		}

		components = append(components, bg)
	}

	m.components = components
	m.signal = cfg.K
	m.weights = uniformWeights(len(components))
	m.lo, m.hi = lo, hi
	m.total = 1
	m.initialized = false

	return nil
}

// applyParams copies the parameter lists of cfg onto the current components.
// It validates as it goes and may leave the model partially updated on error;
// callers restore a snapshot in that case.
func (m *Model) applyParams(cfg Config) error {
	if err := cfg.validateParams(); err != nil {
		return err
	}

	if len(cfg.Mu) != 0 && len(cfg.Mu) != m.signal {
		return fmt.Errorf("%w: mu has %d entries, model has %d signal components", ErrInvalidConfig, len(cfg.Mu), m.signal)
	}

	if len(cfg.Pi) != 0 && len(cfg.Pi) != len(m.components) {
		return fmt.Errorf("%w: pi has %d entries, model has %d components", ErrInvalidConfig, len(cfg.Pi), len(m.components))
	}

	if len(cfg.Domain) == 2 {
		m.SetDomain(cfg.Domain[0], cfg.Domain[1])
	}

	for k := 0; k < m.signal; k++ {
		g, ok := m.components[k].(*peak.Gaussian)
		if !ok {
			continue
		}

		if len(cfg.MuBounds) == 2 {
			g.PinLocationBounds(cfg.MuBounds[0], cfg.MuBounds[1])
		}

		if len(cfg.SigmaBounds) == 2 {
			g.PinWidthBounds(cfg.SigmaBounds[0], cfg.SigmaBounds[1])
		}

		if len(cfg.Mu) != 0 {
			g.SetMu(cfg.Mu[k])
		}

		if len(cfg.Sigma) != 0 {
			g.SetSigma(cfg.Sigma[k])
		}
	}

	if bg := m.Background(); bg != nil && cfg.Background != nil {
		applyBackground(bg, *cfg.Background)
	}

	if len(cfg.Pi) != 0 {
		if err := m.SetWeights(cfg.Pi); err != nil {
			return err
		}
	}

	if cfg.N > 0 {
		m.total = cfg.N
	}

	if len(cfg.Mu) != 0 {
		m.initialized = true
	}

	return nil
}

func applyBackground(bg peak.Model, cfg BackgroundConfig) {
	if cfg.Hi > cfg.Lo {
		bg.SetDomain(cfg.Lo, cfg.Hi)
	}

	switch b := bg.(type) {
	case *peak.Linear:
		b.SetSlope(cfg.Slope)
	case *peak.Ramp:
		b.SetRising(!cfg.Falling)
	case *peak.Triangle:
		if cfg.Mode != nil {
			b.SetMode(*cfg.Mode)
		}
	}
}

// Len returns the number of components including the background.
func (m *Model) Len() int { return len(m.components) }

// Signal returns the number of signal components.
func (m *Model) Signal() int { return m.signal }

// Component returns component k.
func (m *Model) Component(k int) peak.Model { return m.components[k] }

// Components returns the component list in mixture order. The slice is a
// copy; the shapes are shared with the model.
func (m *Model) Components() []peak.Model {
	return append([]peak.Model(nil), m.components...)
}

// Background returns the background shape, or nil.
func (m *Model) Background() peak.Model {
	if m.signal == len(m.components) {
		return nil
	}

	return m.components[len(m.components)-1]
}

// Weights returns a copy of the mixing weights.
func (m *Model) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// SetWeights validates w, normalises it to sum one and installs it.
func (m *Model) SetWeights(w []float64) error {
	if len(w) != len(m.components) {
		return fmt.Errorf("%w: got %d weights for %d components", ErrInvalidWeights, len(w), len(m.components))
	}

	if err := validateWeights(w); err != nil {
		return err
	}

	m.weights = append(m.weights[:0], w...)
	numeric.Normalize(m.weights)

	return nil
}

// Total returns the overall intensity scale N.
func (m *Model) Total() float64 { return m.total }

// SetTotal sets the intensity scale; n must be positive and finite.
func (m *Model) SetTotal(n float64) error {
	if !(n > 0) || math.IsInf(n, 0) {
		return fmt.Errorf("%w: total intensity must be > 0: %v", ErrInvalidConfig, n)
	}

	m.total = n

	return nil
}

// Domain returns the bounds last passed to SetDomain.
func (m *Model) Domain() (lo, hi float64) { return m.lo, m.hi }

// SetDomain rebinds every component to the data range [lo, hi].
func (m *Model) SetDomain(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}

	m.lo, m.hi = lo, hi
	for _, c := range m.components {
		c.SetDomain(lo, hi)
	}
}

// Initialized reports whether the model holds a starting point, either from
// explicit locations or a previous InitRandom.
func (m *Model) Initialized() bool { return m.initialized }

// Seed returns the seed of the model's random source.
func (m *Model) Seed() int64 { return m.seed }

// InitRandom draws mixing weights uniformly at random, normalises them and
// lets every component randomise its own shape.
func (m *Model) InitRandom() {
	for i := range m.weights {
		m.weights[i] = m.rng.Float64()
	}

	if sum := numeric.Normalize(m.weights); !(sum > 0) {
		m.weights = uniformWeights(len(m.components))
	}

	for _, c := range m.components {
		c.Randomize(m.rng)
	}

	m.initialized = true
}

// Predict returns sum_k w_k * f_k(x). It does not apply the intensity scale.
func (m *Model) Predict(x []float64) []float64 {
	return m.PredictTo(nil, x)
}

// PredictTo writes Predict(x) into dst, reallocating when dst is short.
func (m *Model) PredictTo(dst, x []float64) []float64 {
	if cap(dst) < len(x) {
		dst = make([]float64, len(x))
	}

	dst = dst[:len(x)]
	clear(dst)

	buf := make([]float64, len(x))
	for k, c := range m.components {
		if m.weights[k] == 0 {
			continue
		}

		buf = c.Predict(buf, x)
		floats.AddScaled(dst, m.weights[k], buf)
	}

	return dst
}

// Intensity returns N * Predict(x), the model in observed units.
func (m *Model) Intensity(x []float64) []float64 {
	out := m.Predict(x)
	floats.Scale(m.total, out)

	return out
}

// ComponentPredict returns N * w_k * f_k(x) for component k.
func (m *Model) ComponentPredict(k int, x []float64) ([]float64, error) {
	if k < 0 || k >= len(m.components) {
		return nil, fmt.Errorf("%w: %d", ErrComponentIndex, k)
	}

	out := m.components[k].Predict(nil, x)
	floats.Scale(m.total*m.weights[k], out)

	return out, nil
}

// LogLikelihood returns sum(y * log(Predict(x) + 1e-200)). It is an
// unnormalised convergence signal, not a calibrated probability.
func (m *Model) LogLikelihood(x, y []float64) float64 {
	return LogLikelihoodOf(m.Predict(x), y)
}

// LogLikelihoodOf evaluates the weighted log-likelihood of a precomputed
// prediction.
func LogLikelihoodOf(pred, y []float64) float64 {
	var ll float64
	for i, p := range pred {
		ll += y[i] * math.Log(p+numeric.Tiny)
	}

	return ll
}

// SortByLocation orders the signal components (and their weights) by
// ascending Location. The background stays last.
func (m *Model) SortByLocation() {
	idx := make([]int, m.signal)
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return m.components[idx[a]].Location() < m.components[idx[b]].Location()
	})

	comps := make([]peak.Model, m.signal)
	weights := make([]float64, m.signal)

	for i, j := range idx {
		comps[i] = m.components[j]
		weights[i] = m.weights[j]
	}

	copy(m.components, comps)
	copy(m.weights, weights)
}

// Clone returns a deep copy with its own random source seeded by seed.
func (m *Model) Clone(seed int64) *Model {
	c := &Model{
		components:  make([]peak.Model, len(m.components)),
		weights:     append([]float64(nil), m.weights...),
		signal:      m.signal,
		total:       m.total,
		lo:          m.lo,
		hi:          m.hi,
		seed:        seed,
		rng:         rand.New(rand.NewSource(seed)),
		initialized: m.initialized,
	}

	for i, comp := range m.components {
		c.components[i] = comp.Clone()
	}

	return c
}

// CopyFrom replaces the state of m with a deep copy of src, keeping m's random source.
func (m *Model) CopyFrom(src *Model) {
	m.components = make([]peak.Model, len(src.components))
	for i, comp := range src.components {
		m.components[i] = comp.Clone()
	}

	m.weights = append(m.weights[:0], src.weights...)
	m.signal = src.signal
	m.total = src.total
	m.lo, m.hi = src.lo, src.hi
	m.initialized = src.initialized
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}

	return w
}
