package model

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/dsp/conv"
	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/diff"
)

// PerPoint treats every sample of the deconvolved curve as a parameter.
// It is the only variant whose arity depends on the measured data.
type PerPoint struct {
	Diff diff.Type
	// Penalty adds a roughness term to the residue when set.
	Penalty *diff.Antispikes

	// InitialValue fills every parameter unless Initial is set.
	InitialValue float64
	// Initial gives one explicit start value per measured sample.
	Initial []float64
	// InitialEstimate, when set, asks the caller to seed the fit from a
	// spectral deconvolution of the measured curve instead.
	InitialEstimate *conv.DeconvOptions
}

func (PerPoint) sealed() {}

// Name implements Model.
func (PerPoint) Name() string { return NamePerPoint }

// DiffType implements Model.
func (m PerPoint) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (m PerPoint) Antispikes() *diff.Antispikes { return m.Penalty }

// ParamNames returns p0..p{measuredLen-1}.
func (PerPoint) ParamNames(measuredLen int) []string {
	names := make([]string, measuredLen)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	return names
}

// Arity implements Model.
func (PerPoint) Arity(measuredLen int) int { return measuredLen }

// InitialValues implements Model.
func (m PerPoint) InitialValues(measuredLen int) (domain.Values, error) {
	values := m.Initial
	if len(values) == 0 {
		values = make([]float64, measuredLen)
		for i := range values {
			values[i] = m.InitialValue
		}
	}
	if len(values) != measuredLen {
		return nil, fmt.Errorf("%w: %s needs %d initial values, got %d", ErrParams, NamePerPoint, measuredLen, len(values))
	}

	return domain.FromFloats(m.ParamNames(measuredLen), values), nil
}

// ParamsToPoints returns a copy of params.
func (m PerPoint) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	sampleGrid(pointsLen, xStart, xEnd)
	checkArity(NamePerPoint, params, pointsLen)
	return core.Clone(params)
}

// IsValid requires every value to be non-negative.
func (PerPoint) IsValid(params []float64) bool {
	return allNonNegative(params...)
}

// Expression implements Model; per-point curves have no closed form.
func (PerPoint) Expression([]float64) (string, bool) {
	return "", false
}
