// Package testutil provides deterministic sample generators and tolerance
// assertions for the fitting tests.
package testutil

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Grid returns n evenly spaced points covering [lo, hi] inclusive.
func Grid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}

	return out
}

// GaussianMixture evaluates scale * sum_k weights[k] * N(x; mus[k], sigmas[k])
// at every point of x.
func GaussianMixture(x, weights, mus, sigmas []float64, scale float64) []float64 {
	out := make([]float64, len(x))

	for k := range weights {
		dist := distuv.Normal{Mu: mus[k], Sigma: sigmas[k]}
		for i, xi := range x {
			out[i] += scale * weights[k] * dist.Prob(xi)
		}
	}

	return out
}

// AddFloor adds a constant offset to every sample and returns data.
func AddFloor(data []float64, floor float64) []float64 {
	for i := range data {
		data[i] += floor
	}

	return data
}

// Jitter adds non-negative multiplicative noise with a fixed seed so data
// stays a valid intensity.
func Jitter(seed int64, data []float64, rel float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(data))

	for i, v := range data {
		out[i] = v * (1 + rel*(rng.Float64()*2-1))
		if out[i] < 0 {
			out[i] = 0
		}
	}

	return out
}
