package peak

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-peakfit/internal/numeric"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// minSigma keeps a collapsing peak from producing an infinite density.
	minSigma = 1e-12

	// relSigmaFloor is the default lower width bound relative to the domain span.
	relSigmaFloor = 1e-6
)

// Gaussian is a normal density with location mu and width sigma.
//
// mu is confined to [muMin, muMax] and sigma to [sigmaMin, sigmaMax]. Bounds
// that were not set explicitly follow the data domain passed to SetDomain.
type Gaussian struct {
	mu, sigma float64

	muMin, muMax       float64
	sigmaMin, sigmaMax float64

	pinnedMu, pinnedSigma bool
}

// NewGaussian returns a Gaussian with unbounded location and a width bounded
// below by a tiny positive floor.
func NewGaussian(mu, sigma float64) *Gaussian {
	g := &Gaussian{
		muMin:    math.Inf(-1),
		muMax:    math.Inf(1),
		sigmaMin: minSigma,
		sigmaMax: math.Inf(1),
	}
	g.mu = mu
	g.sigma = numeric.Clamp(sigma, g.sigmaMin, g.sigmaMax)

	return g
}

// Kind returns KindGaussian.
func (g *Gaussian) Kind() Kind { return KindGaussian }

// Mu returns the location.
func (g *Gaussian) Mu() float64 { return g.mu }

// Sigma returns the width.
func (g *Gaussian) Sigma() float64 { return g.sigma }

// Location returns mu.
func (g *Gaussian) Location() float64 { return g.mu }

// SetMu sets the location, clamped to the location bounds.
func (g *Gaussian) SetMu(mu float64) {
	g.mu = numeric.Clamp(mu, g.muMin, g.muMax)
}

// SetSigma sets the width, clamped to the width bounds.
func (g *Gaussian) SetSigma(sigma float64) {
	g.sigma = numeric.Clamp(sigma, g.sigmaMin, g.sigmaMax)
}

// LocationBounds returns [muMin, muMax].
func (g *Gaussian) LocationBounds() (lo, hi float64) { return g.muMin, g.muMax }

// WidthBounds returns [sigmaMin, sigmaMax].
func (g *Gaussian) WidthBounds() (lo, hi float64) { return g.sigmaMin, g.sigmaMax }

// LocationPinned reports whether the location bounds were set with
// PinLocationBounds.
func (g *Gaussian) LocationPinned() bool { return g.pinnedMu }

// WidthPinned reports whether the width bounds were set with PinWidthBounds.
func (g *Gaussian) WidthPinned() bool { return g.pinnedSigma }

// PinLocationBounds fixes the location bounds so SetDomain no longer changes them.
func (g *Gaussian) PinLocationBounds(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}

	g.muMin, g.muMax = lo, hi
	g.pinnedMu = true
	g.mu = numeric.Clamp(g.mu, lo, hi)
}

// PinWidthBounds fixes the width bounds so SetDomain no longer changes them.
func (g *Gaussian) PinWidthBounds(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}

	g.sigmaMin = math.Max(lo, minSigma)
	g.sigmaMax = math.Max(hi, g.sigmaMin)
	g.pinnedSigma = true
	g.sigma = numeric.Clamp(g.sigma, g.sigmaMin, g.sigmaMax)
}

// SetDomain moves the unpinned bounds to the data range: mu within [lo, hi]
// and sigma within [1e-6*span, span].
func (g *Gaussian) SetDomain(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}

	if !g.pinnedMu {
		g.muMin, g.muMax = lo, hi
		g.mu = numeric.Clamp(g.mu, lo, hi)
	}

	span := hi - lo
	if !g.pinnedSigma && span > 0 {
		g.sigmaMin = math.Max(relSigmaFloor*span, minSigma)
		g.sigmaMax = span
		g.sigma = numeric.Clamp(g.sigma, g.sigmaMin, g.sigmaMax)
	}
}

// Predict writes the normal density at every x into dst.
func (g *Gaussian) Predict(dst, x []float64) []float64 {
	dst = resize(dst, len(x))
	dist := distuv.Normal{Mu: g.mu, Sigma: g.sigma}

	for i, xi := range x {
		dst[i] = dist.Prob(xi)
	}

	return dst
}

// Estimate sets mu and sigma to the weighted mean and population standard
// deviation of x, clamped to the bounds.
func (g *Gaussian) Estimate(x, w []float64) {
	total := floats.Sum(w)
	if !(total > 0) || math.IsInf(total, 0) {
		return
	}

	mean, variance := stat.PopMeanVariance(x, w)
	if math.IsNaN(mean) || math.IsNaN(variance) {
		return
	}

	g.mu = numeric.Clamp(mean, g.muMin, g.muMax)
	g.sigma = numeric.Clamp(math.Sqrt(variance), g.sigmaMin, g.sigmaMax)
}

// Randomize draws mu uniformly within the location bounds and sigma between
// 2% and 20% of their span. With unbounded locations mu is jittered by sigma.
func (g *Gaussian) Randomize(rng *rand.Rand) {
	span := g.muMax - g.muMin
	if span > 0 && !math.IsInf(span, 0) {
		g.mu = g.muMin + rng.Float64()*span
		g.sigma = numeric.Clamp(span*(0.02+0.18*rng.Float64()), g.sigmaMin, g.sigmaMax)

		return
	}

	g.mu += g.sigma * rng.NormFloat64()
}

// Clone returns a copy of g.
func (g *Gaussian) Clone() Model {
	c := *g
	return &c
}
