// Package sample summarises an observed (x, intensity) sample.
package sample

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a sample, treating the intensity
// as a weight on each x.
type Summary struct {
	N        int
	Min      float64 // smallest x
	Max      float64 // largest x
	Total    float64 // sum of intensity
	Integral float64 // trapezoidal integral of intensity over x
	Mean     float64 // intensity-weighted mean of x
	Variance float64 // intensity-weighted population variance of x
	Skewness float64
	PeakX    float64 // x at the largest intensity
	PeakY    float64
}

// Span returns Max - Min.
func (s Summary) Span() float64 {
	return s.Max - s.Min
}

// Summarize computes the summary of x weighted by y. Samples with a
// non-positive weight contribute to the domain, the integral and the peak but
// not to the moments. x and y must have equal length; extra entries of the
// longer slice are ignored.
func Summarize(x, y []float64) Summary {
	n := min(len(x), len(y))
	if n == 0 {
		return Summary{}
	}

	s := Summary{
		N:     n,
		Min:   x[0],
		Max:   x[0],
		PeakX: x[0],
		PeakY: y[0],
	}

	xs := make([]float64, 0, n)
	ws := make([]float64, 0, n)

	for i := range n {
		xi, wi := x[i], y[i]

		if xi < s.Min {
			s.Min = xi
		}

		if xi > s.Max {
			s.Max = xi
		}

		if wi > s.PeakY {
			s.PeakX, s.PeakY = xi, wi
		}

		s.Total += wi

		if wi > 0 {
			xs = append(xs, xi)
			ws = append(ws, wi)
		}
	}

	if len(xs) > 0 {
		s.Mean, s.Variance = stat.PopMeanVariance(xs, ws)

		if s.Variance > 0 {
			s.Skewness = stat.Moment(3, xs, ws) / (s.Variance * math.Sqrt(s.Variance))
		}
	}

	s.Integral = Integral(x[:n], y[:n])

	return s
}

// Integral returns the trapezoidal integral of y over x. x need not be
// sorted; the pairs are ordered by x first.
func Integral(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}

	if sort.Float64sAreSorted(x) {
		return integrate.Trapezoidal(x, y)
	}

	xs, ys := SortPairs(x, y)

	return integrate.Trapezoidal(xs, ys)
}

// SortPairs returns copies of x and y ordered by ascending x.
func SortPairs(x, y []float64) (xs, ys []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	xs = make([]float64, len(x))
	ys = make([]float64, len(y))

	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}

	return xs, ys
}
