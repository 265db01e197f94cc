// Package mixture holds a weighted sum of peak shapes plus an optional
// background shape over a one-dimensional domain.
//
// A [Model] is the unit of optimisation state for package fit: its mixing
// weights, component parameters and overall intensity scale are mutated in
// place by the EM loop and the scale refinement, and can be exported to and
// re-imported from a versioned [Config].
//
// # Usage
//
//	m, err := mixture.New(mixture.Config{
//		K:          2,
//		Mu:         []float64{3, 7},
//		Background: &mixture.BackgroundConfig{Kind: "uniform"},
//	})
//	y := m.Predict(x)               // sum_k pi_k * f_k(x)
//	ll := m.LogLikelihood(x, obs)   // sum obs * log(predict + 1e-200)
//
// # Invariants
//
// The weights slice always has one entry per component, every entry is
// non-negative and the entries sum to one. The background, when configured,
// is always the last component.
package mixture
