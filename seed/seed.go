package seed

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-peakfit/dsp/smooth"
	"github.com/cwbudde/algo-peakfit/internal/numeric"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/peak"
	"github.com/cwbudde/algo-peakfit/stats/sample"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput is returned for empty or mismatched samples or k < 1.
var ErrInvalidInput = errors.New("seed: invalid input")

const (
	minRelHeight = 0.01
	flatTol      = 1e-9
)

// Locate returns k peak locations in ascending order.
func Locate(x, y []float64, k int, opts ...Option) ([]float64, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d intensities", ErrInvalidInput, len(x), len(y))
	}

	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1: %d", ErrInvalidInput, k)
	}

	cfg := ApplyOptions(opts...)

	xs, ys := sample.SortPairs(x, y)
	lo, hi := xs[0], xs[len(xs)-1]
	span := hi - lo

	width := cfg.Smoothing
	if width == 0 {
		width = numeric.Clamp(float64(len(xs))/100, 1, 25)
	}

	smoothed, err := smooth.Gaussian(ys, width)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	sep := cfg.MinSeparation
	if sep == 0 {
		sep = span / float64(4*k)
	}

	picked := make([]float64, 0, k)
	for _, i := range localMaxima(smoothed) {
		if len(picked) == k {
			break
		}

		if !near(picked, xs[i], sep) {
			picked = append(picked, xs[i])
		}
	}

	picked = fill(picked, k, lo, span, sep)
	sort.Float64s(picked)

	return picked, nil
}

// localMaxima returns the indices of interior local maxima ordered by
// descending height. A plateau counts once, at its centre. Differences below
// flatTol of the highest sample are treated as equal, and maxima lower than
// minRelHeight of it are ignored.
func localMaxima(s []float64) []int {
	var idx []int

	top := floats.Max(s)
	tol := flatTol * top
	floor := minRelHeight * top

	for i := 1; i < len(s)-1; i++ {
		if s[i] <= floor || s[i]-s[i-1] <= tol {
			continue
		}

		j := i
		for j+1 < len(s) && math.Abs(s[j+1]-s[i]) <= tol {
			j++
		}

		if j+1 < len(s) && s[i]-s[j+1] > tol {
			idx = append(idx, (i+j)/2)
		}

		i = j
	}

	sort.SliceStable(idx, func(a, b int) bool { return s[idx[a]] > s[idx[b]] })

	return idx
}

// fill tops picked up to k with evenly spaced positions, preferring those
// away from already picked peaks.
func fill(picked []float64, k int, lo, span, sep float64) []float64 {
	if len(picked) == k {
		return picked
	}

	grid := make([]float64, k)
	for i := range grid {
		grid[i] = lo + span*float64(i+1)/float64(k+1)
	}

	used := make([]bool, k)
	for i, g := range grid {
		if len(picked) == k {
			return picked
		}

		if !near(picked, g, sep) {
			picked = append(picked, g)
			used[i] = true
		}
	}

	for i, g := range grid {
		if len(picked) == k {
			break
		}

		if !used[i] {
			picked = append(picked, g)
		}
	}

	return picked
}

func near(picked []float64, v, sep float64) bool {
	for _, p := range picked {
		if d := p - v; d < sep && -d < sep {
			return true
		}
	}

	return false
}

// Apply places the Gaussian signal components of m on Locate(x, y, k) with
// sigma = span/(4k), clamped to each component's bounds. Non-Gaussian
// components and the background are left alone.
func Apply(m *mixture.Model, x, y []float64, opts ...Option) error {
	k := m.Signal()

	locs, err := Locate(x, y, k, opts...)
	if err != nil {
		return err
	}

	sigma := (floats.Max(x) - floats.Min(x)) / float64(4*k)

	for i := range k {
		g, ok := m.Component(i).(*peak.Gaussian)
		if !ok {
			continue
		}

		g.SetMu(locs[i])

		if sigma > 0 {
			g.SetSigma(sigma)
		}
	}

	return nil
}
