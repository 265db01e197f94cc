package sample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-peakfit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, nil))
}

func TestSummarizeGaussian(t *testing.T) {
	x := testutil.Grid(-10, 10, 20001)
	y := testutil.GaussianMixture(x, []float64{1}, []float64{1.5}, []float64{0.7}, 20)

	s := Summarize(x, y)

	assert.Equal(t, len(x), s.N)
	assert.Equal(t, -10.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, 20.0, s.Span())
	assert.InDelta(t, 20, s.Integral, 1e-6)
	assert.InDelta(t, 1.5, s.Mean, 1e-9)
	assert.InDelta(t, 0.49, s.Variance, 1e-6)
	assert.InDelta(t, 0, s.Skewness, 1e-6)
	assert.InDelta(t, 1.5, s.PeakX, 1e-3)
}

func TestSummarizeMatchesTwoPass(t *testing.T) {
	x := []float64{0.5, 1, 2, 4, 7, 7.5}
	y := []float64{1, 3, 0, 2, 5, 0.5}

	var w, sx float64
	for i := range x {
		w += y[i]
		sx += y[i] * x[i]
	}

	mean := sx / w

	var m2, m3 float64
	for i := range x {
		d := x[i] - mean
		m2 += y[i] * d * d
		m3 += y[i] * d * d * d
	}

	variance := m2 / w
	skew := (m3 / w) / math.Pow(variance, 1.5)

	s := Summarize(x, y)
	assert.InDelta(t, w, s.Total, 1e-12)
	assert.InDelta(t, mean, s.Mean, 1e-10)
	assert.InDelta(t, variance, s.Variance, 1e-10)
	assert.InDelta(t, skew, s.Skewness, 1e-10)
	assert.Equal(t, 7.0, s.PeakX)
	assert.Equal(t, 5.0, s.PeakY)
}

func TestIntegralUnsorted(t *testing.T) {
	x := []float64{2, 0, 1}
	y := []float64{2, 0, 1}

	assert.InDelta(t, 2, Integral(x, y), 1e-15)
	assert.Equal(t, 0.0, Integral([]float64{1}, []float64{1}))
}

func TestSortPairs(t *testing.T) {
	xs, ys := SortPairs([]float64{3, 1, 2}, []float64{30, 10, 20})
	require.Equal(t, []float64{1, 2, 3}, xs)
	require.Equal(t, []float64{10, 20, 30}, ys)
}

func TestSummarizeIgnoresNonPositiveWeightsInMoments(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{-2, 1, 2, 1, 0}

	s := Summarize(x, y)
	want := Summarize(x[1:4], y[1:4])

	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.0, s.Total, 1e-12)
	assert.InDelta(t, want.Mean, s.Mean, 1e-12)
	assert.InDelta(t, want.Variance, s.Variance, 1e-12)
	assert.InDelta(t, 0, s.Skewness, 1e-12)
}
