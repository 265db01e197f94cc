package main

import (
	"math"

	"github.com/cwbudde/algo-peakfit/fit"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/stats/sample"
)

type report struct {
	Model  mixture.Config `yaml:"model"`
	Best   int            `yaml:"best"`
	Data   dataReport     `yaml:"data"`
	Trials []trialReport  `yaml:"trials"`
	Curves *curves        `yaml:"curves,omitempty"`
}

type dataReport struct {
	Samples  int     `yaml:"samples"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Total    float64 `yaml:"total"`
	Integral float64 `yaml:"integral"`
	Mean     float64 `yaml:"mean"`
	Std      float64 `yaml:"std"`
	Skewness float64 `yaml:"skewness"`
	PeakX    float64 `yaml:"peak_x"`
}

type trialReport struct {
	Index          int     `yaml:"index"`
	ID             string  `yaml:"id"`
	Status         string  `yaml:"status"`
	Iterations     int     `yaml:"iterations"`
	Recoveries     []int   `yaml:"recoveries,flow,omitempty"`
	LogLikelihood  float64 `yaml:"log_likelihood"`
	RMSE           float64 `yaml:"rmse"`
	Scale          float64 `yaml:"scale"`
	ScaleConverged bool    `yaml:"scale_converged"`
	Elapsed        string  `yaml:"elapsed"`
}

type curves struct {
	X          []float64   `yaml:"x,flow"`
	Total      []float64   `yaml:"total,flow"`
	Components [][]float64 `yaml:"components"`
}

func newReport(m *mixture.Model, res fit.SampleResult, s sample.Summary) report {
	rep := report{
		Model: m.Export(),
		Best:  res.Best,
		Data: dataReport{
			Samples:  s.N,
			Min:      s.Min,
			Max:      s.Max,
			Total:    s.Total,
			Integral: s.Integral,
			Mean:     s.Mean,
			Std:      math.Sqrt(s.Variance),
			Skewness: s.Skewness,
			PeakX:    s.PeakX,
		},
		Trials: make([]trialReport, len(res.Trials)),
	}

	for i, t := range res.Trials {
		rep.Trials[i] = trialReport{
			Index:          t.Index,
			ID:             t.ID.String(),
			Status:         t.Info.Status.String(),
			Iterations:     t.Info.Iterations,
			Recoveries:     t.Info.Recoveries,
			LogLikelihood:  t.Info.LogLikelihood,
			RMSE:           t.Info.RMSE,
			Scale:          t.Info.Scale,
			ScaleConverged: t.Info.ScaleConverged,
			Elapsed:        t.Info.Elapsed.String(),
		}
	}

	return rep
}

// newCurves evaluates the total and per-component intensity on x. Component
// indices are always valid here.
func newCurves(m *mixture.Model, x []float64) *curves {
	c := &curves{
		X:          append([]float64(nil), x...),
		Total:      m.Intensity(x),
		Components: make([][]float64, m.Len()),
	}

	for k := range m.Len() {
		c.Components[k], _ = m.ComponentPredict(k, x)
	}

	return c
}
