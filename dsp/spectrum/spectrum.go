package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/interp"
)

// Errors returned by spectrum operations.
var (
	ErrInvalidStep = errors.New("spectrum: step must be finite and positive")
	ErrOutOfRange  = errors.New("spectrum: x is outside of the sampled range")
)

// Spectrum is a uniformly sampled curve.
type Spectrum struct {
	Points []float64
	Step   float64
	XStart float64
}

// New validates step and returns a Spectrum that owns a copy of points.
func New(points []float64, step, xStart float64) (Spectrum, error) {
	if !core.IsFinite(step) || step <= 0 {
		return Spectrum{}, fmt.Errorf("%w: got %v", ErrInvalidStep, step)
	}
	return Spectrum{Points: core.Clone(points), Step: step, XStart: xStart}, nil
}

// Len returns the number of samples.
func (s Spectrum) Len() int {
	return len(s.Points)
}

// Clone returns a deep copy of s.
func (s Spectrum) Clone() Spectrum {
	return Spectrum{Points: core.Clone(s.Points), Step: s.Step, XStart: s.XStart}
}

// XFromIndex returns the x coordinate of sample i.
func (s Spectrum) XFromIndex(i int) float64 {
	return s.XStart + s.Step*float64(i)
}

// XEnd returns XFromIndex(N), one step past the last sample.
func (s Spectrum) XEnd() float64 {
	return s.XFromIndex(len(s.Points))
}

// XRange returns Step*(N-1), or 0 for an empty spectrum.
func (s Spectrum) XRange() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Step * float64(len(s.Points)-1)
}

// ClosestIndices returns floor and ceil of the fractional sample index of x.
// x must lie within [XStart, XEnd()].
func (s Spectrum) ClosestIndices(x float64) (lo, hi int, err error) {
	if !(s.XStart <= x && x <= s.XEnd()) {
		return 0, 0, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, x, s.XStart, s.XEnd())
	}
	idx := (x - s.XStart) / s.Step
	return int(math.Floor(idx)), int(math.Ceil(idx)), nil
}

// PointsLenAfterRecalc returns floor(XRange/newStep) + 1.
func (s Spectrum) PointsLenAfterRecalc(newStep float64) int {
	return int(math.Floor(s.XRange()/newStep)) + 1
}

// RecalculatedWithStep resamples s onto a grid with spacing newStep by linear
// interpolation between the two closest original samples. XStart is preserved.
func (s Spectrum) RecalculatedWithStep(newStep float64) (Spectrum, error) {
	if !core.IsFinite(newStep) || newStep <= 0 {
		return Spectrum{}, fmt.Errorf("%w: got %v", ErrInvalidStep, newStep)
	}
	if len(s.Points) == 0 {
		return Spectrum{Step: newStep, XStart: s.XStart}, nil
	}

	n := s.PointsLenAfterRecalc(newStep)
	last := len(s.Points) - 1
	points := make([]float64, n)

	for i := range points {
		x := s.XStart + newStep*float64(i)

		lo, hi, err := s.ClosestIndices(x)
		if err != nil {
			return Spectrum{}, err
		}
		// x can land a rounding error past the last sample.
		lo = min(lo, last)
		hi = min(hi, last)

		if lo == hi {
			points[i] = s.Points[lo]
			continue
		}
		points[i] = interp.LinearAt(x, s.XFromIndex(lo), s.Points[lo], s.XFromIndex(hi), s.Points[hi])
	}

	return Spectrum{Points: points, Step: newStep, XStart: s.XStart}, nil
}
