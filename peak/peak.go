package peak

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrUnknownKind is returned when a model kind name cannot be resolved.
var ErrUnknownKind = errors.New("peak: unknown model kind")

// ErrNotBackground is returned when a signal-only kind is requested as background.
var ErrNotBackground = errors.New("peak: kind cannot be used as background")

// Kind identifies a shape variant.
type Kind int

// Shape variants.
const (
	KindGaussian Kind = iota + 1
	KindUniform
	KindSquareRoot
	KindLinear
	KindRamp
	KindTriangle
)

var kindNames = map[Kind]string{
	KindGaussian:   "gaussian",
	KindUniform:    "uniform",
	KindSquareRoot: "sqrt",
	KindLinear:     "linear",
	KindRamp:       "ramp",
	KindTriangle:   "triangle",
}

// String returns the canonical lower-case name of k.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsBackground reports whether k may be used as a background shape.
func (k Kind) IsBackground() bool {
	switch k {
	case KindUniform, KindSquareRoot, KindLinear, KindRamp, KindTriangle:
		return true
	default:
		return false
	}
}

// ParseKind resolves a case-insensitive kind name. "squareroot" is accepted
// as an alias of "sqrt".
func ParseKind(name string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "squareroot" || s == "square-root" {
		s = "sqrt"
	}

	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Model is a normalised one-dimensional shape driven by the EM loop.
type Model interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Predict writes the density at every x into dst and returns it. dst is
	// reallocated when shorter than x. Predict has no side effects.
	Predict(dst, x []float64) []float64

	// Estimate updates the parameters from samples x weighted by w
	// (maximum likelihood or a closed-form surrogate). A zero total weight
	// leaves the parameters unchanged.
	Estimate(x, w []float64)

	// Randomize draws fresh shape parameters.
	Randomize(rng *rand.Rand)

	// SetDomain rebinds the shape geometry to the data range [lo, hi].
	SetDomain(lo, hi float64)

	// Location returns the parameter used to order components.
	Location() float64

	// Clone returns an independent deep copy.
	Clone() Model
}

// NewBackground returns a background shape of the given kind spanning [lo, hi]
// with neutral parameters (zero slope, rising ramp, centred mode).
func NewBackground(kind Kind, lo, hi float64) (Model, error) {
	switch kind {
	case KindUniform:
		return NewUniform(lo, hi), nil
	case KindSquareRoot:
		return NewSquareRoot(lo, hi), nil
	case KindLinear:
		return NewLinear(lo, hi, 0), nil
	case KindRamp:
		return NewRamp(lo, hi, true), nil
	case KindTriangle:
		return NewTriangle(lo, hi, lo+(hi-lo)/2), nil
	case KindGaussian:
		return nil, fmt.Errorf("%w: %s", ErrNotBackground, kind)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// resize returns dst with length n, allocating when its capacity is short.
func resize(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}

	return dst[:n]
}
