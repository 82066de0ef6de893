package deconv

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/dsp/spectrum"
)

// Alignment errors.
var (
	ErrNaNStep         = errors.New("deconv: step is NaN")
	ErrStepsNotAligned = errors.New("deconv: instrument and measured steps differ")
)

// AlignDirection chooses the common step of two spectra.
type AlignDirection int

const (
	// AlignSmaller resamples onto the finer of the two steps.
	AlignSmaller AlignDirection = iota
	// AlignBigger resamples onto the coarser of the two steps.
	AlignBigger
)

// String returns the configuration name of d.
func (d AlignDirection) String() string {
	switch d {
	case AlignSmaller:
		return "smaller"
	case AlignBigger:
		return "bigger"
	default:
		return fmt.Sprintf("AlignDirection(%d)", int(d))
	}
}

// ParseAlignDirection maps "smaller" or "bigger" to an AlignDirection.
func ParseAlignDirection(s string) (AlignDirection, error) {
	switch s {
	case "smaller":
		return AlignSmaller, nil
	case "bigger":
		return AlignBigger, nil
	default:
		return 0, fmt.Errorf("deconv: unknown steps alignment %q", s)
	}
}

// AlignSteps returns instrument and measured resampled to a common step.
// Spectra that already have that step are returned unchanged.
func AlignSteps(instrument, measured spectrum.Spectrum, dir AlignDirection) (spectrum.Spectrum, spectrum.Spectrum, error) {
	if math.IsNaN(instrument.Step) || math.IsNaN(measured.Step) {
		return instrument, measured, fmt.Errorf("%w: instrument %v, measured %v", ErrNaNStep, instrument.Step, measured.Step)
	}
	if instrument.Step == measured.Step {
		return instrument, measured, nil
	}

	var target float64
	switch dir {
	case AlignSmaller:
		target = math.Min(instrument.Step, measured.Step)
	case AlignBigger:
		target = math.Max(instrument.Step, measured.Step)
	default:
		return instrument, measured, fmt.Errorf("deconv: invalid align direction %d", dir)
	}

	var err error
	if instrument.Step != target {
		if instrument, err = instrument.RecalculatedWithStep(target); err != nil {
			return instrument, measured, fmt.Errorf("deconv: resampling instrument: %w", err)
		}
	}
	if measured.Step != target {
		if measured, err = measured.RecalculatedWithStep(target); err != nil {
			return instrument, measured, fmt.Errorf("deconv: resampling measured: %w", err)
		}
	}
	return instrument, measured, nil
}
