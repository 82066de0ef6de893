// Package interp provides the interpolation primitives used when a sampled
// spectrum is moved onto a new grid.
//
// Only 2-point linear interpolation is offered: resampling a measured curve
// must not invent curvature that was not in the data.
package interp
