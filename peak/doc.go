// Package peak provides the one-dimensional shape models that make up a
// mixture: a Gaussian signal peak and a family of bounded background shapes.
//
// Every shape is a normalised density, so mixing weights in package mixture
// remain proportions. A shape only knows its own parameterisation; the
// mixture coordinator drives it through the [Model] interface:
//
//	g := peak.NewGaussian(3, 0.5)
//	y := g.Predict(nil, x)       // density at x
//	g.Estimate(x, weights)       // weighted maximum-likelihood update
//	g.Randomize(rng)             // random restart
//
// # Variants
//
//   - [Gaussian]: location mu, width sigma, both clamped to bounds
//   - [Uniform]: flat density over [lo, hi]
//   - [SquareRoot]: density rising as sqrt(x - lo) over [lo, hi]
//   - [Linear]: straight line over [lo, hi] with a fitted slope in [-1, 1]
//   - [Ramp]: triangle with its apex at one edge of [lo, hi]
//   - [Triangle]: triangular density over [lo, hi] with a fitted mode
//
// Bounded shapes take their support from [Model.SetDomain], which the fit loop
// calls with the observed data range before every fit.
package peak
