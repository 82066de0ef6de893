package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/core"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrEvenKernel     = errors.New("conv: kernel length must be odd")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Convolver convolves signals with a fixed instrument kernel in "same" mode.
// Implementations are safe for concurrent use.
type Convolver interface {
	Convolve(signal []float64) ([]float64, error)
}

// CheckKernel validates that kernel is non-empty and has odd length.
func CheckKernel(kernel []float64) error {
	if len(kernel) == 0 {
		return ErrEmptyKernel
	}
	if len(kernel)%2 != 1 {
		return fmt.Errorf("%w: got %d", ErrEvenKernel, len(kernel))
	}
	return nil
}

// Same returns the centred convolution of signal with an odd-length kernel.
// The result has len(signal) samples.
func Same(kernel, signal []float64) ([]float64, error) {
	if err := CheckKernel(kernel); err != nil {
		return nil, err
	}

	result := make([]float64, len(signal))
	sameTo(result, kernel, signal)
	return result, nil
}

// SameTo performs [Same] into a pre-allocated destination of len(signal).
func SameTo(dst, kernel, signal []float64) error {
	if err := CheckKernel(kernel); err != nil {
		return err
	}
	if len(dst) != len(signal) {
		return fmt.Errorf("%w: dst %d, signal %d", ErrLengthMismatch, len(dst), len(signal))
	}

	sameTo(dst, kernel, signal)
	return nil
}

// sameTo sums left to right over the signal indices that overlap the kernel,
// so the rounding of every output sample is fixed.
func sameTo(dst, kernel, signal []float64) {
	h := len(kernel) / 2
	m := len(signal)

	for i := range dst {
		first := max(i-h, 0)
		last := min(i+h+1, m)

		var sum float64
		for d := first; d < last; d++ {
			sum += kernel[i+h-d] * signal[d]
		}
		dst[i] = sum
	}
}

// DirectSame is a [Convolver] using [Same].
type DirectSame struct {
	kernel []float64
}

// NewDirectSame validates kernel and keeps a private copy of it.
func NewDirectSame(kernel []float64) (*DirectSame, error) {
	if err := CheckKernel(kernel); err != nil {
		return nil, err
	}
	return &DirectSame{kernel: core.Clone(kernel)}, nil
}

// Convolve returns the "same" convolution of signal with the kernel.
func (d *DirectSame) Convolve(signal []float64) ([]float64, error) {
	result := make([]float64, len(signal))
	sameTo(result, d.kernel, signal)
	return result, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
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
