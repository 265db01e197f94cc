package smooth

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by smoothing functions.
var (
	ErrEmptyInput     = errors.New("smooth: empty input")
	ErrInvalidWidth   = errors.New("smooth: invalid kernel width")
	ErrLengthMismatch = errors.New("smooth: buffer length mismatch")
)

// truncation is the kernel half-width in standard deviations.
const truncation = 4.0

const minBlockSize = 256

// Kernel returns the normalised Gaussian kernel for sigma (in samples). The
// kernel has odd length 2*ceil(4*sigma)+1 and is centred on its middle tap.
func Kernel(sigma float64) ([]float64, error) {
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWidth, sigma)
	}

	half := int(math.Ceil(truncation * sigma))
	kernel := make([]float64, 2*half+1)

	for i := range kernel {
		d := float64(i-half) / sigma
		kernel[i] = math.Exp(-0.5 * d * d)
	}

	floats.Scale(1/floats.Sum(kernel), kernel)

	return kernel, nil
}

// Smoother convolves signals with a fixed Gaussian kernel using overlap-add.
//
// The kernel is stored circularly centred so its spectrum is real; the
// per-block product then reduces to two real gain multiplications.
type Smoother struct {
	sigma     float64
	half      int
	blockSize int
	fftSize   int

	plan *algofft.Plan[complex128]
	gain []float64

	// Scratch buffers
	bins   []complex128
	re, im []float64
}

// New creates a Smoother for sigma (in samples). If blockSize is 0, a block
// size is chosen from the kernel length.
func New(sigma float64, blockSize int) (*Smoother, error) {
	kernel, err := Kernel(sigma)
	if err != nil {
		return nil, err
	}

	if blockSize < 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidWidth, blockSize)
	}

	half := len(kernel) / 2

	if blockSize == 0 {
		blockSize = max(nextPowerOf2(len(kernel)), minBlockSize)
	}

	fftSize := nextPowerOf2(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	s := &Smoother{
		sigma:     sigma,
		half:      half,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		gain:      make([]float64, fftSize),
		bins:      make([]complex128, fftSize),
		re:        make([]float64, fftSize),
		im:        make([]float64, fftSize),
	}

	// Wrap the taps left of centre to the end of the buffer.
	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[(i-half+fftSize)%fftSize] = complex(v, 0)
	}

	if err := plan.Forward(padded, padded); err != nil {
		return nil, fmt.Errorf("smooth: failed to compute kernel FFT: %w", err)
	}

	for i, c := range padded {
		s.gain[i] = real(c)
	}

	return s, nil
}

// Sigma returns the kernel standard deviation in samples.
func (s *Smoother) Sigma() float64 { return s.sigma }

// BlockSize returns the input block size.
func (s *Smoother) BlockSize() int { return s.blockSize }

// FFTSize returns the FFT size used internally.
func (s *Smoother) FFTSize() int { return s.fftSize }

// Process returns the smoothed signal, same length as input. Samples outside
// the input are taken as zero.
func (s *Smoother) Process(input []float64) ([]float64, error) {
	output := make([]float64, len(input))
	if err := s.ProcessTo(output, input); err != nil {
		return nil, err
	}

	return output, nil
}

// ProcessTo smooths input into output, which must have the same length.
// output and input must not overlap.
func (s *Smoother) ProcessTo(output, input []float64) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}

	if len(output) != len(input) {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, len(input), len(output))
	}

	clear(output)

	n := len(input)
	for start := 0; start < n; start += s.blockSize {
		end := min(start+s.blockSize, n)
		blockLen := end - start

		clear(s.bins)

		for i := range blockLen {
			s.bins[i] = complex(input[start+i], 0)
		}

		if err := s.plan.Forward(s.bins, s.bins); err != nil {
			return fmt.Errorf("smooth: forward FFT failed: %w", err)
		}

		for i, c := range s.bins {
			s.re[i], s.im[i] = real(c), imag(c)
		}

		vecmath.MulBlockInPlace(s.re, s.gain)
		vecmath.MulBlockInPlace(s.im, s.gain)

		for i := range s.bins {
			s.bins[i] = complex(s.re[i], s.im[i])
		}

		if err := s.plan.Inverse(s.bins, s.bins); err != nil {
			return fmt.Errorf("smooth: inverse FFT failed: %w", err)
		}

		// Block output spans [start-half, end+half); negative offsets wrapped.
		for j := -s.half; j < blockLen+s.half; j++ {
			pos := start + j
			if pos < 0 || pos >= n {
				continue
			}

			output[pos] += real(s.bins[(j+s.fftSize)%s.fftSize])
		}
	}

	return nil
}

// Gaussian smooths signal with a Gaussian of width sigma (in samples). A
// sigma of zero returns a copy of the signal.
//
// The signal is treated as zero outside its bounds, so within about 4*sigma
// samples of either end the output is attenuated: a constant c smooths to
// roughly c/2 at the first and last sample.
func Gaussian(signal []float64, sigma float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if sigma == 0 {
		return append([]float64(nil), signal...), nil
	}

	s, err := New(sigma, 0)
	if err != nil {
		return nil, err
	}

	return s.Process(signal)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}
