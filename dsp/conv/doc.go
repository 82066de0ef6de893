// Package conv provides the convolution operator that links a deconvolved
// curve to a measured one through an instrument kernel.
//
// The instrument kernel always has odd length 2h+1 and is centred: sample h
// is the zero-shift response. Convolution is evaluated in "same" mode, so the
// output has the length of the input signal and the signal is implicitly
// zero-padded at both ends:
//
//	C[i] = sum_j K[j] * D[i+h-j]   over all j with 0 <= i+h-j < len(D)
//
// Two strategies are available:
//
//   - [Same] / [DirectSame]: direct O(N*M) summation in a fixed order. The
//     result is bit-reproducible and is what fits use by default.
//   - [FFTSame]: FFT-based overlap-add ([OverlapAdd]) trimmed to "same" mode.
//     Faster for long kernels, equal to [Same] only up to rounding.
//
// [DeconvolveSame] inverts the operator approximately in the frequency domain
// (regularised or Wiener division). It is too noise-sensitive to be a result on
// its own and is used to seed per-point fits.
//
// # Usage
//
//	c, err := conv.Same(kernel, signal)
//
//	f, err := conv.NewFFTSame(kernel)
//	c, err := f.Convolve(signal)
package conv
