// Package smooth provides Gaussian smoothing of sampled signals using
// FFT-based overlap-add convolution.
//
// The kernel is a sampled Gaussian truncated at four standard deviations and
// normalised to unit sum, so smoothing preserves the signal total away from
// the edges. The output has the same length as the input and is aligned with
// it (zero phase).
//
// # Usage
//
// One-shot smoothing:
//
//	out, err := smooth.Gaussian(signal, 3) // sigma in samples
//
// Repeated smoothing with the same width:
//
//	s, err := smooth.New(3, 0)
//	out, err := s.Process(signal)
//
// Edges are treated as zero padded; intensity near the borders is attenuated
// by up to one half.
package smooth
