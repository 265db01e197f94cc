// Package numeric holds small floating-point helpers shared by the fitting packages.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tiny guards divisions and logarithms against exact zeros.
const Tiny = 1e-200

// Clamp limits value to the inclusive range [lo, hi].
// A NaN value is mapped to lo.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo || math.IsNaN(value) {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Normalize scales values in place so they sum to one and returns the
// original sum. Values are left untouched if the sum is not positive.
func Normalize(values []float64) float64 {
	sum := floats.Sum(values)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return sum
	}

	floats.Scale(1/sum, values)

	return sum
}
