package peak

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-peakfit/internal/numeric"
)

// maxSlope keeps the density strictly positive at both ends of the support.
const maxSlope = 1 - 1e-6

const linearNewtonSteps = 50

// Linear is the straight-line density (1 + s*(2u-1))/L over its support,
// with u = (x-lo)/L and slope s in [-1, 1].
type Linear struct {
	s     support
	slope float64
}

// NewLinear returns a Linear over [lo, hi] with the given slope.
func NewLinear(lo, hi, slope float64) *Linear {
	return &Linear{s: newSupport(lo, hi), slope: numeric.Clamp(slope, -maxSlope, maxSlope)}
}

// Kind returns KindLinear.
func (l *Linear) Kind() Kind { return KindLinear }

// Slope returns the normalised slope in [-1, 1].
func (l *Linear) Slope() float64 { return l.slope }

// SetSlope sets the slope, clamped to [-1, 1].
func (l *Linear) SetSlope(slope float64) {
	l.slope = numeric.Clamp(slope, -maxSlope, maxSlope)
}

// Support returns the interval the density is defined on.
func (l *Linear) Support() (lo, hi float64) { return l.s.lo, l.s.hi }

// Location returns the mean of the density, lo + L*(1/2 + s/6).
func (l *Linear) Location() float64 {
	return l.s.lo + l.s.width()*(0.5+l.slope/6)
}

// SetDomain replaces the support.
func (l *Linear) SetDomain(lo, hi float64) { l.s = newSupport(lo, hi) }

// Predict writes the density at every x into dst.
func (l *Linear) Predict(dst, x []float64) []float64 {
	dst = resize(dst, len(x))
	if !l.s.valid() {
		clear(dst)
		return dst
	}

	inv := 1 / l.s.width()
	for i, xi := range x {
		if !l.s.contains(xi) {
			dst[i] = 0
			continue
		}

		dst[i] = (1 + l.slope*(2*l.s.unit(xi)-1)) * inv
	}

	return dst
}

// Estimate maximises the weighted log-likelihood in the slope with Newton
// steps, starting from the moment estimate s = 3*E[2u-1].
func (l *Linear) Estimate(x, w []float64) {
	if !l.s.valid() {
		return
	}

	var sw, swa float64

	for i, xi := range x {
		if !l.s.contains(xi) || !(w[i] > 0) {
			continue
		}

		sw += w[i]
		swa += w[i] * (2*l.s.unit(xi) - 1)
	}

	if !(sw > 0) || math.IsInf(sw, 0) {
		return
	}

	slope := numeric.Clamp(3*swa/sw, -maxSlope, maxSlope)

	for range linearNewtonSteps {
		var grad, hess float64

		for i, xi := range x {
			if !l.s.contains(xi) || !(w[i] > 0) {
				continue
			}

			a := 2*l.s.unit(xi) - 1
			d := 1 + slope*a
			grad += w[i] * a / d
			hess -= w[i] * a * a / (d * d)
		}

		if hess >= 0 || math.IsNaN(grad) {
			break
		}

		next := numeric.Clamp(slope-grad/hess, -maxSlope, maxSlope)
		if math.Abs(next-slope) < 1e-12 {
			slope = next
			break
		}

		slope = next
	}

	l.slope = slope
}

// Randomize draws the slope uniformly from [-1, 1].
func (l *Linear) Randomize(rng *rand.Rand) {
	l.slope = numeric.Clamp(2*rng.Float64()-1, -maxSlope, maxSlope)
}

// Clone returns a copy of l.
func (l *Linear) Clone() Model {
	c := *l
	return &c
}
