package peak

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform is a flat density over its support.
type Uniform struct {
	s support
}

// NewUniform returns a Uniform over [lo, hi].
func NewUniform(lo, hi float64) *Uniform {
	return &Uniform{s: newSupport(lo, hi)}
}

// Kind returns KindUniform.
func (u *Uniform) Kind() Kind { return KindUniform }

// Support returns the interval the density is defined on.
func (u *Uniform) Support() (lo, hi float64) { return u.s.lo, u.s.hi }

// Location returns the centre of the support.
func (u *Uniform) Location() float64 { return u.s.lo + u.s.width()/2 }

// SetDomain replaces the support.
func (u *Uniform) SetDomain(lo, hi float64) { u.s = newSupport(lo, hi) }

// Predict writes 1/(hi-lo) inside the support and 0 elsewhere.
func (u *Uniform) Predict(dst, x []float64) []float64 {
	dst = resize(dst, len(x))
	if !u.s.valid() {
		clear(dst)
		return dst
	}

	dist := distuv.Uniform{Min: u.s.lo, Max: u.s.hi}
	for i, xi := range x {
		dst[i] = dist.Prob(xi)
	}

	return dst
}

// Estimate is a no-op: the shape has no free parameters.
func (u *Uniform) Estimate(_, _ []float64) {}

// Randomize is a no-op.
func (u *Uniform) Randomize(_ *rand.Rand) {}

// Clone returns a copy of u.
func (u *Uniform) Clone() Model {
	c := *u
	return &c
}
