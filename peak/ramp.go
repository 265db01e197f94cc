package peak

import "math/rand"

// Ramp is a right-angled triangular density over its support with the apex
// at hi (rising) or lo (falling).
type Ramp struct {
	s      support
	rising bool
}

// NewRamp returns a Ramp over [lo, hi].
func NewRamp(lo, hi float64, rising bool) *Ramp {
	return &Ramp{s: newSupport(lo, hi), rising: rising}
}

// Kind returns KindRamp.
func (r *Ramp) Kind() Kind { return KindRamp }

// Rising reports whether the density increases towards hi.
func (r *Ramp) Rising() bool { return r.rising }

// SetRising selects the ramp direction.
func (r *Ramp) SetRising(rising bool) { r.rising = rising }

// Support returns the interval the density is defined on.
func (r *Ramp) Support() (lo, hi float64) { return r.s.lo, r.s.hi }

// Location returns the mean of the density.
func (r *Ramp) Location() float64 {
	if r.rising {
		return r.s.lo + 2*r.s.width()/3
	}

	return r.s.lo + r.s.width()/3
}

// SetDomain replaces the support.
func (r *Ramp) SetDomain(lo, hi float64) { r.s = newSupport(lo, hi) }

// Predict writes 2u/L (rising) or 2(1-u)/L (falling) inside the support.
func (r *Ramp) Predict(dst, x []float64) []float64 {
	dst = resize(dst, len(x))
	if !r.s.valid() {
		clear(dst)
		return dst
	}

	scale := 2 / r.s.width()
	for i, xi := range x {
		if !r.s.contains(xi) {
			dst[i] = 0
			continue
		}

		u := r.s.unit(xi)
		if !r.rising {
			u = 1 - u
		}

		dst[i] = scale * u
	}

	return dst
}

// Estimate is a no-op: the direction is configuration, not a fitted parameter.
func (r *Ramp) Estimate(_, _ []float64) {}

// Randomize is a no-op.
func (r *Ramp) Randomize(_ *rand.Rand) {}

// Clone returns a copy of r.
func (r *Ramp) Clone() Model {
	c := *r
	return &c
}
