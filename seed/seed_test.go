package seed

import (
	"testing"

	"github.com/cwbudde/algo-peakfit/internal/testutil"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/peak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPeaks() (x, y []float64) {
	x = testutil.Grid(0, 10, 1001)
	y = testutil.GaussianMixture(x, []float64{0.4, 0.6}, []float64{3, 7}, []float64{0.5, 0.5}, 1000)

	return x, y
}

func TestLocateFindsPeaks(t *testing.T) {
	x, y := twoPeaks()

	locs, err := Locate(x, y, 2)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.InDelta(t, 3, locs[0], 0.05)
	assert.InDelta(t, 7, locs[1], 0.05)
}

func TestLocateKeepsHighest(t *testing.T) {
	x, y := twoPeaks()

	locs, err := Locate(x, y, 1)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.InDelta(t, 7, locs[0], 0.05)
}

func TestLocateFillsMissingPeaks(t *testing.T) {
	x, y := twoPeaks()

	locs, err := Locate(x, y, 4)
	require.NoError(t, err)
	require.Len(t, locs, 4)
	assert.InDelta(t, 2, locs[0], 1e-12)
	assert.InDelta(t, 3, locs[1], 0.05)
	assert.InDelta(t, 4, locs[2], 1e-12)
	assert.InDelta(t, 7, locs[3], 0.05)
}

func TestLocateUnsortedInput(t *testing.T) {
	x, y := twoPeaks()

	rx := make([]float64, len(x))
	ry := make([]float64, len(y))

	for i := range x {
		rx[i] = x[len(x)-1-i]
		ry[i] = y[len(y)-1-i]
	}

	want, err := Locate(x, y, 2)
	require.NoError(t, err)

	got, err := Locate(rx, ry, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocateFlatSignalSpreads(t *testing.T) {
	x := testutil.Grid(0, 4, 41)
	y := make([]float64, len(x))

	for i := range y {
		y[i] = 1
	}

	locs, err := Locate(x, y, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, locs, 1e-12)
}

func TestLocateRejectsInvalidInput(t *testing.T) {
	_, err := Locate(nil, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Locate([]float64{1, 2}, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Locate([]float64{1, 2}, []float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOptions(t *testing.T) {
	cfg := ApplyOptions(WithSmoothing(3), WithMinSeparation(0.5), WithSmoothing(-1), nil)
	assert.Equal(t, Config{Smoothing: 3, MinSeparation: 0.5}, cfg)
}

func TestApplyPlacesGaussians(t *testing.T) {
	x, y := twoPeaks()

	m, err := mixture.New(mixture.Config{
		K:          2,
		Domain:     []float64{0, 10},
		Background: &mixture.BackgroundConfig{Kind: "uniform"},
	})
	require.NoError(t, err)

	require.NoError(t, Apply(m, x, y, WithSmoothing(5)))

	for i, want := range []float64{3, 7} {
		g, ok := m.Component(i).(*peak.Gaussian)
		require.True(t, ok)
		assert.InDelta(t, want, g.Mu(), 0.05)
		assert.InDelta(t, 1.25, g.Sigma(), 1e-12)
	}
}
