package peak

// support is a closed interval shared by the bounded shapes.
type support struct {
	lo, hi float64
}

func (s support) width() float64 {
	return s.hi - s.lo
}

func (s support) valid() bool {
	return s.hi > s.lo
}

func (s support) contains(x float64) bool {
	return x >= s.lo && x <= s.hi
}

// unit maps x to [0, 1] relative to the support.
func (s support) unit(x float64) float64 {
	return (x - s.lo) / s.width()
}

// rebind moves value from s to the same relative position in next.
func (s support) rebind(value float64, next support) float64 {
	frac := 0.5
	if s.valid() {
		frac = s.unit(value)
	}

	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}

	return next.lo + frac*next.width()
}

func newSupport(lo, hi float64) support {
	if lo > hi {
		lo, hi = hi, lo
	}

	return support{lo: lo, hi: hi}
}
