package fit

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Criterion selects the best trial of a Sampler run.
type Criterion int

// Selection criteria.
const (
	// CriterionLikelihood keeps the trial with the highest log-likelihood.
	CriterionLikelihood Criterion = iota
	// CriterionRMSE keeps the trial with the lowest RMSE.
	CriterionRMSE
)

// String returns the canonical name of c.
func (c Criterion) String() string {
	switch c {
	case CriterionLikelihood:
		return "likelihood"
	case CriterionRMSE:
		return "rmse"
	default:
		return fmt.Sprintf("Criterion(%d)", int(c))
	}
}

// ParseCriterion resolves "likelihood" (or "ll") and "rmse".
func ParseCriterion(name string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "likelihood", "ll", "loglikelihood":
		return CriterionLikelihood, nil
	case "rmse":
		return CriterionRMSE, nil
	default:
		return 0, fmt.Errorf("%w: unknown criterion %q", ErrInvalidInput, name)
	}
}

// SamplerConfig controls a multi-trial run.
type SamplerConfig struct {
	// Trials is the number of independent fits. Values below one mean one.
	Trials int

	Criterion Criterion

	// Parallel is the number of trials run concurrently. Values below two
	// run sequentially.
	Parallel int

	// Seed is the base seed; trial i uses Seed+i.
	Seed int64
}

// Trial is one fit of a Sampler run.
type Trial struct {
	Index  int
	ID     uuid.UUID
	Info   RunInfo
	Params mixture.Config
}

// score returns the selection value of t (higher is better) and whether it
// is usable.
func (t Trial) score(c Criterion) (float64, bool) {
	switch c {
	case CriterionRMSE:
		return -t.Info.RMSE, !math.IsNaN(t.Info.RMSE)
	default:
		return t.Info.LogLikelihood, !math.IsNaN(t.Info.LogLikelihood)
	}
}

// SampleResult holds every trial and the index of the best one, or -1.
type SampleResult struct {
	Trials []Trial
	Best   int
}

// BestTrial returns the selected trial.
func (r SampleResult) BestTrial() (Trial, bool) {
	if r.Best < 0 || r.Best >= len(r.Trials) {
		return Trial{}, false
	}

	return r.Trials[r.Best], true
}

// Sampler runs several randomly initialised fits and keeps the best.
type Sampler struct {
	cfg    SamplerConfig
	fitter *Fitter
}

// NewSampler creates a Sampler. opts configure every trial's fit.
func NewSampler(cfg SamplerConfig, opts ...Option) *Sampler {
	cfg.Trials = max(cfg.Trials, 1)
	cfg.Parallel = max(cfg.Parallel, 1)

	return &Sampler{cfg: cfg, fitter: New(opts...)}
}

// Config returns the sampler configuration.
func (s *Sampler) Config() SamplerConfig {
	return s.cfg
}

// Run fits Trials clones of m, each re-initialised at random from its own
// seed; with peak seeding enabled, trial 0 is seeded from the data instead.
// The best trial's parameters are copied into m. Trials are independent, so
// the result does not depend on Parallel.
func (s *Sampler) Run(m *mixture.Model, x, y []float64) (SampleResult, error) {
	if _, err := validate(x, y, m.Len()); err != nil {
		return SampleResult{Best: -1}, err
	}

	log := s.fitter.log
	trials := make([]Trial, s.cfg.Trials)
	models := make([]*mixture.Model, s.cfg.Trials)

	seeded := s.fitter
	unseeded := s.fitter

	if s.fitter.cfg.PeakSeeding {
		cfg := s.fitter.cfg
		cfg.PeakSeeding = false
		unseeded = NewWithConfig(cfg)
	}

	runTrial := func(i int) error {
		clone := m.Clone(s.cfg.Seed + int64(i))
		clone.InitRandom()

		f := unseeded
		if i == 0 {
			f = seeded
		}

		info, err := f.Fit(clone, x, y)
		if err != nil {
			return fmt.Errorf("fit: trial %d: %w", i, err)
		}

		trials[i] = Trial{
			Index:  i,
			ID:     uuid.New(),
			Info:   info,
			Params: clone.Export(),
		}
		models[i] = clone

		log.Debug("trial finished",
			zap.Int("trial", i),
			zap.Stringer("id", trials[i].ID),
			zap.Stringer("status", info.Status),
			zap.Float64("log_likelihood", info.LogLikelihood),
			zap.Float64("rmse", info.RMSE),
		)

		return nil
	}

	if s.cfg.Parallel > 1 {
		var g errgroup.Group
		g.SetLimit(s.cfg.Parallel)

		for i := range trials {
			g.Go(func() error { return runTrial(i) })
		}

		if err := g.Wait(); err != nil {
			return SampleResult{Best: -1}, err
		}
	} else {
		for i := range trials {
			if err := runTrial(i); err != nil {
				return SampleResult{Best: -1}, err
			}
		}
	}

	res := SampleResult{Trials: trials, Best: selectBest(trials, s.cfg.Criterion)}
	if res.Best < 0 {
		log.Warn("no valid trial", zap.Int("trials", len(trials)))
		return res, ErrNoValidTrial
	}

	m.CopyFrom(models[res.Best])

	best := trials[res.Best]
	log.Info("sampling finished",
		zap.Int("trials", len(trials)),
		zap.Int("best", res.Best),
		zap.Stringer("criterion", s.cfg.Criterion),
		zap.Float64("log_likelihood", best.Info.LogLikelihood),
		zap.Float64("rmse", best.Info.RMSE),
	)

	return res, nil
}

// selectBest returns the index of the best usable trial, the lowest index on
// ties, or -1.
func selectBest(trials []Trial, c Criterion) int {
	best := -1
	bestScore := math.Inf(-1)

	for i, t := range trials {
		v, ok := t.score(c)
		if !ok {
			continue
		}

		if best < 0 || v > bestScore {
			best, bestScore = i, v
		}
	}

	return best
}
