// Package core holds small numeric helpers shared by the dsp and deconv packages.
//
// All computations in this module use float64. Nothing narrows to float32.
package core

import "math"

// Ramp returns max(0, x). Model curves use it to cut off negative lobes.
func Ramp(x float64) float64 {
	if x > 0 {
		return x
	}

	return 0
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
