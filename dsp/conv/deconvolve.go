package conv

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/stat"
)

// Deconvolution errors.
var (
	ErrDivisionByZero = errors.New("conv: division by zero in deconvolution")
	ErrInvalidMethod  = errors.New("conv: unknown deconvolution method")
)

// DeconvMethod specifies the spectral deconvolution method.
type DeconvMethod int

const (
	// DeconvRegularized divides by |H|^2 + epsilon:
	// X = Y * conj(H) / (|H|^2 + epsilon).
	DeconvRegularized DeconvMethod = iota

	// DeconvWiener divides by |H|^2 + NSR where NSR is the noise-to-signal ratio.
	DeconvWiener

	// DeconvNaive performs plain spectral division and fails on spectral zeros.
	DeconvNaive
)

// DeconvOptions configures [DeconvolveSame].
type DeconvOptions struct {
	Method DeconvMethod

	// Epsilon is the regularisation term for DeconvRegularized.
	// Typical values: 1e-6 to 1e-3 depending on SNR.
	Epsilon float64

	// NoiseVariance and SignalVariance drive DeconvWiener. Zero values are
	// estimated from the signal (signal variance, 1% of it as noise).
	NoiseVariance  float64
	SignalVariance float64
}

// DefaultDeconvOptions returns regularised division with epsilon 1e-6.
func DefaultDeconvOptions() DeconvOptions {
	return DeconvOptions{
		Method:  DeconvRegularized,
		Epsilon: 1e-6,
	}
}

// DeconvolveSame estimates D from C = Same(kernel, D) by spectral division.
// The estimate has len(signal) samples and is aligned with signal.
func DeconvolveSame(signal, kernel []float64, opts DeconvOptions) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if err := CheckKernel(kernel); err != nil {
		return nil, err
	}

	var divide func(y, h complex128) (complex128, error)

	switch opts.Method {
	case DeconvRegularized:
		eps := opts.Epsilon
		if eps <= 0 {
			eps = 1e-6
		}
		divide = func(y, h complex128) (complex128, error) {
			return y * cmplx.Conj(h) / complex(magSq(h)+eps, 0), nil
		}
	case DeconvWiener:
		nsr := noiseToSignal(signal, opts)
		divide = func(y, h complex128) (complex128, error) {
			return y * cmplx.Conj(h) / complex(magSq(h)+nsr, 0), nil
		}
	case DeconvNaive:
		divide = func(y, h complex128) (complex128, error) {
			if cmplx.Abs(h) < 1e-15 {
				return 0, ErrDivisionByZero
			}
			return y / h, nil
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMethod, opts.Method)
	}

	return spectralDivide(signal, kernel, divide)
}

// spectralDivide places the "same"-mode signal at offset h so that sample 0 of
// the inverse transform lines up with sample 0 of the deconvolved curve.
func spectralDivide(signal, kernel []float64, divide func(y, h complex128) (complex128, error)) ([]float64, error) {
	n := len(signal)
	h := len(kernel) / 2
	fftSize := nextPowerOf2(n + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	signalPadded := make([]complex128, fftSize)
	kernelPadded := make([]complex128, fftSize)

	for i, v := range signal {
		signalPadded[i+h] = complex(v, 0)
	}
	for i, v := range kernel {
		kernelPadded[i] = complex(v, 0)
	}

	signalFreq := make([]complex128, fftSize)
	kernelFreq := make([]complex128, fftSize)

	if err := plan.Forward(signalFreq, signalPadded); err != nil {
		return nil, err
	}
	if err := plan.Forward(kernelFreq, kernelPadded); err != nil {
		return nil, err
	}

	resultFreq := make([]complex128, fftSize)
	for i := range resultFreq {
		r, err := divide(signalFreq[i], kernelFreq[i])
		if err != nil {
			return nil, fmt.Errorf("%w: at frequency bin %d", err, i)
		}
		resultFreq[i] = r
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, resultFreq); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	for i := range result {
		result[i] = real(resultTime[i])
	}

	return result, nil
}

func magSq(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}

func noiseToSignal(signal []float64, opts DeconvOptions) float64 {
	signalVar := opts.SignalVariance
	if signalVar <= 0 {
		_, signalVar = stat.MeanVariance(signal, nil)
	}

	noiseVar := opts.NoiseVariance
	if noiseVar <= 0 {
		noiseVar = signalVar * 0.01
	}

	nsr := noiseVar / signalVar
	if !(nsr > 0) {
		nsr = 1e-6
	}
	return nsr
}
