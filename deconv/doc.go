// Package deconv ties an instrument response, a measured spectrum and a
// parametric model into a fit problem.
//
// A [Data] computes the residue of a parameter vector by sampling the model
// over the measured x range, convolving the samples with the instrument
// kernel and comparing the result with the measured points. Both spectra must
// share one step; [AlignSteps] resamples one of them when they differ.
//
// Typical use:
//
//	inst, meas, err := deconv.AlignSteps(instrument, measured, deconv.AlignSmaller)
//	data, err := deconv.NewData(inst, meas, m)
//	res, err := data.Deconvolve(fit.PatternSearch{...})
//	g, err := data.Goodness(res)
package deconv
