// Package fit estimates the parameters of a mixture.Model from observed
// (x, intensity) samples.
//
// A fit runs Expectation-Maximization over the mixing weights and the
// component shapes, treating the intensity of each sample as its weight. A
// step that lowers the log-likelihood (or produces NaN) is treated as
// numerically unstable: the model is re-initialised at random and iteration
// continues, up to a configurable recovery budget. After EM, signal
// components are sorted by location and the overall intensity scale N is
// refined by least squares so that N*Predict(x) matches the observed
// intensity.
//
// # Usage
//
// Single fit:
//
//	m, _ := mixture.New(mixture.Config{K: 2, Background: &mixture.BackgroundConfig{Kind: "uniform"}})
//	info, err := fit.EM(m, x, y, fit.WithMaxIterations(500))
//
// Reusable fitter with logging:
//
//	f := fit.New(fit.WithLogger(logger), fit.WithPeakSeeding())
//	info, err := f.Fit(m, x, y)
//
// Multi-start sampling, keeping the best trial:
//
//	s := fit.NewSampler(fit.SamplerConfig{Trials: 8, Parallel: 4}, fit.WithLogger(logger))
//	res, err := s.Run(m, x, y)
//
// # Outcomes
//
// Invalid input is rejected with [ErrInvalidInput] or [ErrInsufficientData]
// before anything is mutated. Reaching the iteration cap is not an error; it
// is reported as [StatusMaxIterExceeded] with the last iterate kept.
package fit
