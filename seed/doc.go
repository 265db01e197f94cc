// Package seed places the Gaussian components of a mixture on the most
// prominent peaks of the observed intensity before EM starts.
//
// The intensity is smoothed with [smooth.Gaussian], local maxima are ranked
// by smoothed height, and the k highest that are sufficiently separated are
// returned as starting locations. When the data has fewer peaks than
// components, the remaining locations are spread evenly over the domain.
//
// # Usage
//
//	locs, err := seed.Locate(x, y, 3)
//	err = seed.Apply(model, x, y, seed.WithSmoothing(4))
//
// Smoothing operates in sample index space; x is only sorted, not
// resampled.
package seed
