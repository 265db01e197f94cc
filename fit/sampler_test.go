package fit

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-peakfit/internal/testutil"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/peak"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func samplerModel(t *testing.T) *mixture.Model {
	t.Helper()

	m, err := mixture.New(mixture.Config{
		K:          2,
		Seed:       1,
		Background: &mixture.BackgroundConfig{Kind: "uniform"},
	})
	require.NoError(t, err)

	return m
}

func TestSamplerSelectsHighestLikelihood(t *testing.T) {
	x, y := twoPeaks(1)
	m := samplerModel(t)

	s := NewSampler(SamplerConfig{Trials: 5, Seed: 100}, WithMaxIterations(400))
	res, err := s.Run(m, x, y)
	require.NoError(t, err)
	require.Len(t, res.Trials, 5)

	ids := map[uuid.UUID]bool{}

	for i, tr := range res.Trials {
		assert.Equal(t, i, tr.Index)
		assert.Equal(t, int64(100+i), tr.Params.Seed)
		assert.NotEqual(t, uuid.Nil, tr.ID)
		ids[tr.ID] = true

		assert.LessOrEqual(t, tr.Info.LogLikelihood, res.Trials[res.Best].Info.LogLikelihood)
	}

	assert.Len(t, ids, 5)

	best, ok := res.BestTrial()
	require.True(t, ok)

	got := m.Export()
	assert.Equal(t, best.Params.Mu, got.Mu)
	assert.Equal(t, best.Params.Sigma, got.Sigma)
	assert.Equal(t, best.Params.Pi, got.Pi)
	assert.Equal(t, best.Params.N, got.N)
	assert.Equal(t, int64(1), got.Seed)
	testutil.RequireDistribution(t, m.Weights(), 1e-9)
}

func TestSamplerRMSECriterion(t *testing.T) {
	x, y := twoPeaks(1)
	m := samplerModel(t)

	res, err := NewSampler(SamplerConfig{Trials: 3, Criterion: CriterionRMSE, Seed: 7}, WithMaxIterations(200)).Run(m, x, y)
	require.NoError(t, err)

	for _, tr := range res.Trials {
		assert.GreaterOrEqual(t, tr.Info.RMSE, res.Trials[res.Best].Info.RMSE)
	}
}

func TestSamplerParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	x, y := twoPeaks(1)
	cfg := SamplerConfig{Trials: 6, Seed: 42}

	seq, err := NewSampler(cfg, WithMaxIterations(150)).Run(samplerModel(t), x, y)
	require.NoError(t, err)

	cfg.Parallel = 3
	par, err := NewSampler(cfg, WithMaxIterations(150)).Run(samplerModel(t), x, y)
	require.NoError(t, err)

	assert.Equal(t, seq.Best, par.Best)

	for i := range seq.Trials {
		a, b := seq.Trials[i], par.Trials[i]
		assert.Equal(t, a.Params, b.Params, "trial %d", i)
		assert.Equal(t, a.Info.Iterations, b.Info.Iterations, "trial %d", i)
		assert.Equal(t, a.Info.LogLikelihood, b.Info.LogLikelihood, "trial %d", i)
		assert.Equal(t, a.Info.Recoveries, b.Info.Recoveries, "trial %d", i)
	}
}

func TestSamplerSeedsFirstTrial(t *testing.T) {
	x, y := twoPeaks(0)

	m, err := mixture.New(mixture.Config{K: 2, Seed: 3})
	require.NoError(t, err)

	res, err := NewSampler(SamplerConfig{Trials: 2}, WithPeakSeeding()).Run(m, x, y)
	require.NoError(t, err)

	first := res.Trials[0].Params
	assert.Equal(t, StatusConverged, res.Trials[0].Info.Status)
	assert.InDelta(t, 3, first.Mu[0], 1e-3)
	assert.InDelta(t, 7, first.Mu[1], 1e-3)
}

func TestSamplerNoValidTrial(t *testing.T) {
	m, err := mixture.NewFromComponents([]peak.Model{nanShape{}}, nil, 1)
	require.NoError(t, err)

	res, err := NewSampler(SamplerConfig{Trials: 3}, WithMaxIterations(20)).Run(m, []float64{0, 1, 2}, []float64{1, 2, 1})
	require.ErrorIs(t, err, ErrNoValidTrial)

	assert.Equal(t, -1, res.Best)
	assert.Len(t, res.Trials, 3)

	for _, tr := range res.Trials {
		assert.True(t, math.IsNaN(tr.Info.LogLikelihood))
	}

	_, ok := res.BestTrial()
	assert.False(t, ok)
}

func TestSamplerRejectsInvalidInput(t *testing.T) {
	m := samplerModel(t)
	before := m.Export()

	res, err := NewSampler(SamplerConfig{Trials: 2}).Run(m, []float64{0, 1}, []float64{1, 1})
	require.ErrorIs(t, err, ErrInsufficientData)

	assert.Equal(t, -1, res.Best)
	assert.Equal(t, before, m.Export())
}

func TestNewSamplerClampsConfig(t *testing.T) {
	cfg := NewSampler(SamplerConfig{Trials: -2, Parallel: 0}).Config()
	assert.Equal(t, 1, cfg.Trials)
	assert.Equal(t, 1, cfg.Parallel)
}

func TestSelectBest(t *testing.T) {
	trials := []Trial{
		{Info: RunInfo{LogLikelihood: -5, RMSE: 1}},
		{Info: RunInfo{LogLikelihood: math.NaN(), RMSE: math.NaN()}},
		{Info: RunInfo{LogLikelihood: -2, RMSE: 3}},
		{Info: RunInfo{LogLikelihood: -2, RMSE: 0.5}},
	}

	assert.Equal(t, 2, selectBest(trials, CriterionLikelihood))
	assert.Equal(t, 3, selectBest(trials, CriterionRMSE))
	assert.Equal(t, -1, selectBest(trials[1:2], CriterionLikelihood))
	assert.Equal(t, -1, selectBest(nil, CriterionRMSE))
}

func TestParseCriterion(t *testing.T) {
	for name, want := range map[string]Criterion{
		"likelihood": CriterionLikelihood,
		" LL ":       CriterionLikelihood,
		"RMSE":       CriterionRMSE,
	} {
		got, err := ParseCriterion(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
		assert.Equal(t, want, mustParse(t, got.String()))
	}

	_, err := ParseCriterion("chi2")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Criterion(9)", Criterion(9).String())
}

func mustParse(t *testing.T, name string) Criterion {
	t.Helper()

	c, err := ParseCriterion(name)
	require.NoError(t, err)

	return c
}
