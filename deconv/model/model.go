// Package model defines the closed set of parametric deconvolution curves.
//
// Every variant maps a parameter vector onto a sampled curve with
// ParamsToPoints, judges raw parameter values with IsValid and names the diff
// metric used to score it. The set is sealed: [Model] has an unexported
// method, so the variants below are the only implementations and type
// switches over Model can be exhaustive.
//
// Sampling convention shared by all variants: sample i of n lies at
//
//	x = xStart + (i/(n-1)) * (xEnd-xStart)
//
// with n >= 2 and xStart < xEnd. Violating either is a programming error and
// panics.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/dsp/diff"
)

// Errors returned when building models.
var (
	ErrUnsupported = errors.New("model: variant is not supported")
	ErrUnknown     = errors.New("model: unknown variant")
	ErrParams      = errors.New("model: bad initial parameters")
)

// Variant names as used in configuration files.
const (
	NamePerPoint                          = "PerPoint"
	NameExponents                         = "Exponents"
	NameSatExpDecExp                      = "SatExp_DecExp"
	NameTwoSatExpDecExp                   = "Two_SatExp_DecExp"
	NameSatExpDecExpPlusConst             = "SatExp_DecExpPlusConst"
	NameSatExpTwoDecExp                   = "SatExp_TwoDecExp"
	NameSatExpTwoDecExpPlusConst          = "SatExp_TwoDecExpPlusConst"
	NameSatExpTwoDecExpSeparateConsts     = "SatExp_TwoDecExp_SeparateConsts"
	NameSatExpTwoDecExpConstrainedConsts  = "SatExp_TwoDecExp_ConstrainedConsts"
	NameSigmoidTwoDecExpConstrainedConsts = "Sigmoid_TwoDecExp_ConstrainedConsts"
)

// Model is one deconvolution curve family with its configured initial values.
type Model interface {
	// Name returns the configuration name of the variant.
	Name() string
	// DiffType returns the metric comparing convolved and measured curves.
	DiffType() diff.Type
	// Antispikes returns the roughness penalty, or nil.
	Antispikes() *diff.Antispikes
	// ParamNames returns the parameter names in vector order.
	ParamNames(measuredLen int) []string
	// Arity is len(ParamNames(measuredLen)).
	Arity(measuredLen int) int
	// InitialValues returns the named initial parameters for a measured
	// curve of measuredLen samples.
	InitialValues(measuredLen int) (domain.Values, error)
	// ParamsToPoints samples the curve.
	ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64
	// IsValid checks sign and ordering constraints of raw parameters.
	IsValid(params []float64) bool
	// Expression renders the curve as "y = ..." for plotting tools.
	// It returns false for variants without a closed form.
	Expression(params []float64) (string, bool)

	sealed()
}

// Variants lists every variant name, supported or not.
func Variants() []string {
	return []string{
		NamePerPoint,
		NameExponents,
		NameSatExpDecExp,
		NameTwoSatExpDecExp,
		NameSatExpDecExpPlusConst,
		NameSatExpTwoDecExp,
		NameSatExpTwoDecExpPlusConst,
		NameSatExpTwoDecExpSeparateConsts,
		NameSatExpTwoDecExpConstrainedConsts,
		NameSigmoidTwoDecExpConstrainedConsts,
	}
}

// CheckSupported returns ErrUnsupported for recognised but unimplemented
// variants and ErrUnknown for names outside [Variants].
func CheckSupported(name string) error {
	switch name {
	case NameSatExpTwoDecExpConstrainedConsts, NameSigmoidTwoDecExpConstrainedConsts:
		return fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	for _, v := range Variants() {
		if v == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknown, name)
}

// sampleGrid panics when the sampling convention is violated.
func sampleGrid(pointsLen int, xStart, xEnd float64) {
	if pointsLen < 2 {
		panic(fmt.Sprintf("model: points_len must be >= 2, got %d", pointsLen))
	}
	if !(xStart < xEnd) {
		panic(fmt.Sprintf("model: x_start must be < x_end, got %v >= %v", xStart, xEnd))
	}
}

// generate evaluates f at every sample position.
func generate(pointsLen int, xStart, xEnd float64, f func(x float64) float64) []float64 {
	sampleGrid(pointsLen, xStart, xEnd)

	points := make([]float64, pointsLen)
	last := float64(pointsLen - 1)
	for i := range points {
		x := xStart + (float64(i)/last)*(xEnd-xStart)
		points[i] = f(x)
	}
	return points
}

func checkArity(name string, params []float64, arity int) {
	if len(params) != arity {
		panic(fmt.Sprintf("model: %s expects %d params, got %d", name, arity, len(params)))
	}
}

// arrange orders initial values by names. Unnamed values are taken
// positionally; named ones may come in any order but must match exactly.
func arrange(variant string, initial domain.Values, names []string) (domain.Values, error) {
	if len(initial) != len(names) {
		return nil, fmt.Errorf("%w: %s needs %d params (%s), got %d",
			ErrParams, variant, len(names), strings.Join(names, ", "), len(initial))
	}

	unnamed := true
	for _, v := range initial {
		if v.Name != "" {
			unnamed = false
			break
		}
	}

	out := make(domain.Values, len(names))
	if unnamed {
		for i, v := range initial {
			v.Name = names[i]
			out[i] = v
		}
		return out, nil
	}

	byName := make(map[string]domain.ValueAndDomain, len(initial))
	for _, v := range initial {
		byName[v.Name] = v
	}
	for i, name := range names {
		v, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing %q", ErrParams, variant, name)
		}
		out[i] = v
	}
	return out, nil
}

func allNonNegative(xs ...float64) bool {
	for _, x := range xs {
		if !(x >= 0) {
			return false
		}
	}
	return true
}

// satExp is 1 - e^{-(x-s)/ta}.
func satExp(x, s, ta float64) float64 {
	return 1 - math.Exp(-(x-s)/ta)
}

// decExp is e^{-(x-s)/tb}.
func decExp(x, s, tb float64) float64 {
	return math.Exp(-(x - s) / tb)
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// shifted renders (x-s) with a readable sign.
func shifted(s float64) string {
	if s < 0 {
		return "(x+" + num(-s) + ")"
	}
	return "(x-" + num(s) + ")"
}
