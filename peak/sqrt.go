package peak

import (
	"math"
	"math/rand"
)

// SquareRoot is the density 1.5*sqrt(u)/L over its support, where
// u = (x-lo)/L and L = hi-lo. It models backgrounds that open up from a
// threshold at lo.
type SquareRoot struct {
	s support
}

// NewSquareRoot returns a SquareRoot over [lo, hi].
func NewSquareRoot(lo, hi float64) *SquareRoot {
	return &SquareRoot{s: newSupport(lo, hi)}
}

// Kind returns KindSquareRoot.
func (q *SquareRoot) Kind() Kind { return KindSquareRoot }

// Support returns the interval the density is defined on.
func (q *SquareRoot) Support() (lo, hi float64) { return q.s.lo, q.s.hi }

// Location returns the mean of the density, lo + 0.6*L.
func (q *SquareRoot) Location() float64 { return q.s.lo + 0.6*q.s.width() }

// SetDomain replaces the support.
func (q *SquareRoot) SetDomain(lo, hi float64) { q.s = newSupport(lo, hi) }

// Predict writes the density at every x into dst.
func (q *SquareRoot) Predict(dst, x []float64) []float64 {
	dst = resize(dst, len(x))
	if !q.s.valid() {
		clear(dst)
		return dst
	}

	scale := 1.5 / q.s.width()
	for i, xi := range x {
		if !q.s.contains(xi) {
			dst[i] = 0
			continue
		}

		dst[i] = scale * math.Sqrt(q.s.unit(xi))
	}

	return dst
}

// Estimate is a no-op: the shape has no free parameters.
func (q *SquareRoot) Estimate(_, _ []float64) {}

// Randomize is a no-op.
func (q *SquareRoot) Randomize(_ *rand.Rand) {}

// Clone returns a copy of q.
func (q *SquareRoot) Clone() Model {
	c := *q
	return &c
}
