package conv

import (
	"sync"

	"github.com/cwbudde/algo-deconv/dsp/core"
)

// FFTSame is a [Convolver] backed by pooled [OverlapAdd] instances.
// Results match [Same] up to floating-point rounding.
type FFTSame struct {
	kernel []float64
	pool   sync.Pool
}

// NewFFTSame validates kernel and prepares the first FFT plan.
func NewFFTSame(kernel []float64) (*FFTSame, error) {
	if err := CheckKernel(kernel); err != nil {
		return nil, err
	}

	first, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}

	f := &FFTSame{kernel: core.Clone(kernel)}
	f.pool.New = func() any {
		oa, err := NewOverlapAdd(f.kernel, 0)
		if err != nil {
			return err
		}
		return oa
	}
	f.pool.Put(first)

	return f, nil
}

// Convolve returns the "same" convolution of signal with the kernel.
func (f *FFTSame) Convolve(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return []float64{}, nil
	}

	v := f.pool.Get()
	oa, ok := v.(*OverlapAdd)
	if !ok {
		return nil, v.(error)
	}
	defer f.pool.Put(oa)

	full, err := oa.Process(signal)
	if err != nil {
		return nil, err
	}

	h := len(f.kernel) / 2
	return full[h : h+len(signal)], nil
}
