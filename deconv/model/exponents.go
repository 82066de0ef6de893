package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/dsp/diff"
)

// Exponents is a sum of decaying exponentials, one (amplitude, shift, tau)
// triple per term. Each term is zero where its exponent would be positive.
type Exponents struct {
	Diff    diff.Type
	Initial domain.Values
}

func (Exponents) sealed() {}

// Name implements Model.
func (Exponents) Name() string { return NameExponents }

// DiffType implements Model.
func (m Exponents) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (Exponents) Antispikes() *diff.Antispikes { return nil }

// ParamNames names the configured terms; the measured length is ignored.
func (m Exponents) ParamNames(int) []string { return ExponentsParamNames(len(m.Initial) / 3) }

// Arity implements Model.
func (m Exponents) Arity(int) int { return len(m.Initial) / 3 * 3 }

// ExponentsParamNames returns the names of terms amplitude_i, shift_i, tau_i
// for i in 1..terms.
func ExponentsParamNames(terms int) []string {
	names := make([]string, 0, 3*terms)
	for i := 1; i <= terms; i++ {
		names = append(names,
			fmt.Sprintf("amplitude_%d", i),
			fmt.Sprintf("shift_%d", i),
			fmt.Sprintf("tau_%d", i))
	}
	return names
}

// InitialValues implements Model.
func (m Exponents) InitialValues(int) (domain.Values, error) {
	if len(m.Initial) == 0 || len(m.Initial)%3 != 0 {
		return nil, fmt.Errorf("%w: %s needs a multiple of 3 params, got %d", ErrParams, NameExponents, len(m.Initial))
	}
	return arrange(NameExponents, m.Initial, ExponentsParamNames(len(m.Initial)/3))
}

// evalExponent returns a*e^{in} for in = -(x-s)/tau <= 0, else 0.
func evalExponent(x, a, s, tau float64) float64 {
	in := -(x - s) / tau
	if in <= 0 {
		return a * math.Exp(in)
	}
	return 0
}

// ParamsToPoints implements Model.
func (m Exponents) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	if len(params)%3 != 0 {
		panic(fmt.Sprintf("model: %s expects a multiple of 3 params, got %d", NameExponents, len(params)))
	}
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		var y float64
		for i := 0; i < len(params); i += 3 {
			y += evalExponent(x, params[i], params[i+1], params[i+2])
		}
		return y
	})
}

// IsValid requires non-negative amplitudes.
func (Exponents) IsValid(params []float64) bool {
	if len(params)%3 != 0 {
		return false
	}
	for i := 0; i < len(params); i += 3 {
		if !allNonNegative(params[i]) {
			return false
		}
	}
	return true
}

// Expression implements Model.
func (Exponents) Expression(params []float64) (string, bool) {
	if len(params) == 0 || len(params)%3 != 0 {
		return "", false
	}
	terms := make([]string, 0, len(params)/3)
	for i := 0; i < len(params); i += 3 {
		a, s, tau := params[i], params[i+1], params[i+2]
		terms = append(terms, fmt.Sprintf("%s*exp(-%s/%s)*step%s", num(a), shifted(s), num(tau), shifted(s)))
	}
	return "y = " + strings.Join(terms, " + "), true
}
