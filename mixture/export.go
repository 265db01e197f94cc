package mixture

import (
	"math/rand"

	"github.com/cwbudde/algo-peakfit/peak"
)

// Export returns the current parameters as a Config that New or Configure
// reproduce exactly, including pinned Gaussian bounds. Sigma is omitted when a
// signal component is not a Gaussian; Mu then carries the component locations.
func (m *Model) Export() Config {
	cfg := Config{
		Version: ConfigVersion,
		K:       m.signal,
		Mu:      make([]float64, m.signal),
		Pi:      m.Weights(),
		N:       m.total,
		Seed:    m.seed,
	}

	if m.hi > m.lo {
		cfg.Domain = []float64{m.lo, m.hi}
	}

	sigma := make([]float64, m.signal)
	gaussian := true

	for k := 0; k < m.signal; k++ {
		cfg.Mu[k] = m.components[k].Location()

		g, ok := m.components[k].(*peak.Gaussian)
		if !ok {
			gaussian = false
			continue
		}

		sigma[k] = g.Sigma()

		if g.LocationPinned() && cfg.MuBounds == nil {
			lo, hi := g.LocationBounds()
			cfg.MuBounds = []float64{lo, hi}
		}

		if g.WidthPinned() && cfg.SigmaBounds == nil {
			lo, hi := g.WidthBounds()
			cfg.SigmaBounds = []float64{lo, hi}
		}
	}

	if gaussian {
		cfg.Sigma = sigma
	}

	if bg := m.Background(); bg != nil {
		cfg.Background = exportBackground(bg)
	}

	return cfg
}

type supported interface {
	Support() (lo, hi float64)
}

func exportBackground(bg peak.Model) *BackgroundConfig {
	out := &BackgroundConfig{Kind: bg.Kind().String()}

	if s, ok := bg.(supported); ok {
		out.Lo, out.Hi = s.Support()
	}

	switch b := bg.(type) {
	case *peak.Linear:
		out.Slope = b.Slope()
	case *peak.Ramp:
		out.Falling = !b.Rising()
	case *peak.Triangle:
		mode := b.Mode()
		out.Mode = &mode
	}

	return out
}

// Configure applies cfg to the model. When the component count or background
// kind changes, the component list is rebuilt first. On any validation
// failure every change, including the component count, is rolled back and
// the model is left exactly as it was.
func (m *Model) Configure(cfg Config) error {
	if err := cfg.validateHeader(); err != nil {
		return err
	}

	kind, hasBackground, err := cfg.BackgroundKind()
	if err != nil {
		return err
	}

	prev := m.Clone(m.seed)
	prevRng := m.rng

	if cfg.K != m.signal || m.backgroundChanged(kind, hasBackground) {
		if err := m.rebuild(cfg); err != nil {
			m.restore(prev, prevRng)
			return err
		}
	}

	if err := m.applyParams(cfg); err != nil {
		m.restore(prev, prevRng)
		return err
	}

	if cfg.Seed != m.seed {
		m.seed = cfg.Seed
		m.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	return nil
}

func (m *Model) backgroundChanged(kind peak.Kind, has bool) bool {
	bg := m.Background()
	if bg == nil {
		return has
	}

	return !has || bg.Kind() != kind
}

func (m *Model) restore(prev *Model, rng *rand.Rand) {
	m.CopyFrom(prev)
	m.seed = prev.seed
	m.rng = rng
}
