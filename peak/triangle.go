package peak

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-peakfit/internal/numeric"
	"gonum.org/v1/gonum/stat/distuv"
)

// Triangle is a triangular density over its support with mode c.
type Triangle struct {
	s    support
	mode float64
}

// NewTriangle returns a Triangle over [lo, hi] with the mode clamped into it.
func NewTriangle(lo, hi, mode float64) *Triangle {
	s := newSupport(lo, hi)
	return &Triangle{s: s, mode: numeric.Clamp(mode, s.lo, s.hi)}
}

// Kind returns KindTriangle.
func (t *Triangle) Kind() Kind { return KindTriangle }

// Mode returns the apex position.
func (t *Triangle) Mode() float64 { return t.mode }

// SetMode sets the apex position, clamped to the support.
func (t *Triangle) SetMode(mode float64) {
	t.mode = numeric.Clamp(mode, t.s.lo, t.s.hi)
}

// Support returns the interval the density is defined on.
func (t *Triangle) Support() (lo, hi float64) { return t.s.lo, t.s.hi }

// Location returns the mode.
func (t *Triangle) Location() float64 { return t.mode }

// SetDomain replaces the support, keeping the mode at the same relative position.
func (t *Triangle) SetDomain(lo, hi float64) {
	next := newSupport(lo, hi)
	t.mode = t.s.rebind(t.mode, next)
	t.s = next
}

// Predict writes the triangular density at every x into dst.
func (t *Triangle) Predict(dst, x []float64) []float64 {
	dst = resize(dst, len(x))
	if !t.s.valid() {
		clear(dst)
		return dst
	}

	dist := distuv.NewTriangle(t.s.lo, t.s.hi, t.mode, nil)
	for i, xi := range x {
		dst[i] = dist.Prob(xi)
	}

	return dst
}

// Estimate places the mode with the moment estimate c = 3*mean - lo - hi,
// using only samples inside the support.
func (t *Triangle) Estimate(x, w []float64) {
	if !t.s.valid() {
		return
	}

	var sw, swx float64

	for i, xi := range x {
		if !t.s.contains(xi) || !(w[i] > 0) {
			continue
		}

		sw += w[i]
		swx += w[i] * xi
	}

	if !(sw > 0) || math.IsInf(sw, 0) {
		return
	}

	t.SetMode(3*swx/sw - t.s.lo - t.s.hi)
}

// Randomize draws the mode uniformly from the support.
func (t *Triangle) Randomize(rng *rand.Rand) {
	t.mode = t.s.lo + rng.Float64()*t.s.width()
}

// Clone returns a copy of t.
func (t *Triangle) Clone() Model {
	c := *t
	return &c
}
