// Package spectrum provides Spectrum, a uniformly sampled 1-D curve.
//
// A Spectrum stores its samples together with the sampling step and the
// x coordinate of the first sample, so that sample i lies at
//
//	x_i = XStart + i*Step
//
// Two length conventions coexist and are kept on purpose:
//
//   - [Spectrum.XRange] is Step*(N-1), the distance between first and last sample.
//   - [Spectrum.XEnd] is XStart + Step*N, one step past the last sample.
//
// Resampling with [Spectrum.RecalculatedWithStep] uses XRange, so the new grid
// never extends past the last measured sample; a trailing partial interval is
// dropped rather than rounded up.
package spectrum
