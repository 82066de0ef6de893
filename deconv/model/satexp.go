package model

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/diff"
)

// Parameter names shared by the saturating-exponential variants.
var (
	satExpDecExpNames             = []string{"amplitude", "shift", "tau_a", "tau_b"}
	twoSatExpDecExpNames          = []string{"amplitude_1", "shift_1", "tau_a_1", "tau_b_1", "amplitude_2", "shift_2", "tau_a_2", "tau_b_2"}
	satExpDecExpPlusConstNames    = []string{"amplitude", "shift", "height", "tau_a", "tau_b"}
	satExpTwoDecExpNames          = []string{"amplitude", "shift", "tau_a", "tau_b", "tau_c"}
	satExpTwoDecExpPlusConstNames = []string{"amplitude", "shift", "height", "tau_a", "tau_b", "tau_c"}
	separateConstsNames           = []string{"amplitude_b", "amplitude_c", "shift", "tau_a", "tau_b", "tau_c"}
)

// SatExpDecExp is a·(1-e^{-(x-s)/ta})·e^{-(x-s)/tb}, clamped at zero.
type SatExpDecExp struct {
	Diff    diff.Type
	Initial domain.Values
}

func (SatExpDecExp) sealed() {}

// Name implements Model.
func (SatExpDecExp) Name() string { return NameSatExpDecExp }

// DiffType implements Model.
func (m SatExpDecExp) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (SatExpDecExp) Antispikes() *diff.Antispikes { return nil }

// ParamNames implements Model.
func (SatExpDecExp) ParamNames(int) []string { return append([]string(nil), satExpDecExpNames...) }

// Arity implements Model.
func (SatExpDecExp) Arity(int) int { return len(satExpDecExpNames) }

// InitialValues implements Model.
func (m SatExpDecExp) InitialValues(int) (domain.Values, error) {
	return arrange(NameSatExpDecExp, m.Initial, satExpDecExpNames)
}

func satExpDecExpAt(x, a, s, ta, tb float64) float64 {
	return core.Ramp(a * satExp(x, s, ta) * decExp(x, s, tb))
}

// ParamsToPoints implements Model.
func (m SatExpDecExp) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	checkArity(NameSatExpDecExp, params, 4)
	a, s, ta, tb := params[0], params[1], params[2], params[3]
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		return satExpDecExpAt(x, a, s, ta, tb)
	})
}

// IsValid requires amplitude, tau_a and tau_b to be non-negative.
func (SatExpDecExp) IsValid(params []float64) bool {
	return len(params) == 4 && allNonNegative(params[0], params[2], params[3])
}

func satExpDecExpExpr(a, s, ta, tb float64) string {
	return fmt.Sprintf("max(0, %s*(1-exp(-%s/%s))*exp(-%s/%s))", num(a), shifted(s), num(ta), shifted(s), num(tb))
}

// Expression implements Model.
func (SatExpDecExp) Expression(params []float64) (string, bool) {
	if len(params) != 4 {
		return "", false
	}
	return "y = " + satExpDecExpExpr(params[0], params[1], params[2], params[3]), true
}

// TwoSatExpDecExp is the sum of two independently clamped SatExpDecExp terms.
type TwoSatExpDecExp struct {
	Diff    diff.Type
	Initial domain.Values
}

func (TwoSatExpDecExp) sealed() {}

// Name implements Model.
func (TwoSatExpDecExp) Name() string { return NameTwoSatExpDecExp }

// DiffType implements Model.
func (m TwoSatExpDecExp) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (TwoSatExpDecExp) Antispikes() *diff.Antispikes { return nil }

// ParamNames implements Model.
func (TwoSatExpDecExp) ParamNames(int) []string { return append([]string(nil), twoSatExpDecExpNames...) }

// Arity implements Model.
func (TwoSatExpDecExp) Arity(int) int { return len(twoSatExpDecExpNames) }

// InitialValues implements Model.
func (m TwoSatExpDecExp) InitialValues(int) (domain.Values, error) {
	return arrange(NameTwoSatExpDecExp, m.Initial, twoSatExpDecExpNames)
}

// ParamsToPoints implements Model.
func (m TwoSatExpDecExp) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	checkArity(NameTwoSatExpDecExp, params, 8)
	p := params
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		return satExpDecExpAt(x, p[0], p[1], p[2], p[3]) + satExpDecExpAt(x, p[4], p[5], p[6], p[7])
	})
}

// IsValid requires both terms to be valid and shift_1 < shift_2.
func (TwoSatExpDecExp) IsValid(params []float64) bool {
	if len(params) != 8 {
		return false
	}
	return SatExpDecExp{}.IsValid(params[:4]) && SatExpDecExp{}.IsValid(params[4:]) && params[1] < params[5]
}

// Expression implements Model.
func (TwoSatExpDecExp) Expression(params []float64) (string, bool) {
	if len(params) != 8 {
		return "", false
	}
	p := params
	return "y = " + satExpDecExpExpr(p[0], p[1], p[2], p[3]) + " + " + satExpDecExpExpr(p[4], p[5], p[6], p[7]), true
}

// SatExpDecExpPlusConst is a·(1-e^{-(x-s)/ta})·(e^{-(x-s)/tb}+h), clamped at zero.
type SatExpDecExpPlusConst struct {
	Diff    diff.Type
	Initial domain.Values
	// AllowTbLessThanTa lifts the ta < tb ordering constraint.
	AllowTbLessThanTa bool
}

func (SatExpDecExpPlusConst) sealed() {}

// Name implements Model.
func (SatExpDecExpPlusConst) Name() string { return NameSatExpDecExpPlusConst }

// DiffType implements Model.
func (m SatExpDecExpPlusConst) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (SatExpDecExpPlusConst) Antispikes() *diff.Antispikes { return nil }

// ParamNames implements Model.
func (SatExpDecExpPlusConst) ParamNames(int) []string { return append([]string(nil), satExpDecExpPlusConstNames...) }

// Arity implements Model.
func (SatExpDecExpPlusConst) Arity(int) int { return len(satExpDecExpPlusConstNames) }

// InitialValues implements Model.
func (m SatExpDecExpPlusConst) InitialValues(int) (domain.Values, error) {
	return arrange(NameSatExpDecExpPlusConst, m.Initial, satExpDecExpPlusConstNames)
}

// ParamsToPoints implements Model.
func (m SatExpDecExpPlusConst) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	checkArity(NameSatExpDecExpPlusConst, params, 5)
	a, s, h, ta, tb := params[0], params[1], params[2], params[3], params[4]
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		return core.Ramp(a * satExp(x, s, ta) * (decExp(x, s, tb) + h))
	})
}

// IsValid requires non-negative a, h, ta, tb and, unless allowed, ta < tb.
func (m SatExpDecExpPlusConst) IsValid(params []float64) bool {
	if len(params) != 5 {
		return false
	}
	a, h, ta, tb := params[0], params[2], params[3], params[4]
	return allNonNegative(a, h, ta, tb) && (m.AllowTbLessThanTa || ta < tb)
}

// Expression implements Model.
func (SatExpDecExpPlusConst) Expression(params []float64) (string, bool) {
	if len(params) != 5 {
		return "", false
	}
	a, s, h, ta, tb := params[0], params[1], params[2], params[3], params[4]
	return fmt.Sprintf("y = max(0, %s*(1-exp(-%s/%s))*(exp(-%s/%s)+%s))",
		num(a), shifted(s), num(ta), shifted(s), num(tb), num(h)), true
}

// SatExpTwoDecExp is a·(1-e^{-(x-s)/ta})·(e^{-(x-s)/tb}+e^{-(x-s)/tc}), clamped at zero.
type SatExpTwoDecExp struct {
	Diff    diff.Type
	Initial domain.Values
}

func (SatExpTwoDecExp) sealed() {}

// Name implements Model.
func (SatExpTwoDecExp) Name() string { return NameSatExpTwoDecExp }

// DiffType implements Model.
func (m SatExpTwoDecExp) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (SatExpTwoDecExp) Antispikes() *diff.Antispikes { return nil }

// ParamNames implements Model.
func (SatExpTwoDecExp) ParamNames(int) []string { return append([]string(nil), satExpTwoDecExpNames...) }

// Arity implements Model.
func (SatExpTwoDecExp) Arity(int) int { return len(satExpTwoDecExpNames) }

// InitialValues implements Model.
func (m SatExpTwoDecExp) InitialValues(int) (domain.Values, error) {
	return arrange(NameSatExpTwoDecExp, m.Initial, satExpTwoDecExpNames)
}

// ParamsToPoints implements Model.
func (m SatExpTwoDecExp) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	checkArity(NameSatExpTwoDecExp, params, 5)
	a, s, ta, tb, tc := params[0], params[1], params[2], params[3], params[4]
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		return core.Ramp(a * satExp(x, s, ta) * (decExp(x, s, tb) + decExp(x, s, tc)))
	})
}

// IsValid requires non-negative a, ta, tb, tc.
func (SatExpTwoDecExp) IsValid(params []float64) bool {
	return len(params) == 5 && allNonNegative(params[0], params[2], params[3], params[4])
}

// Expression implements Model.
func (SatExpTwoDecExp) Expression(params []float64) (string, bool) {
	if len(params) != 5 {
		return "", false
	}
	a, s, ta, tb, tc := params[0], params[1], params[2], params[3], params[4]
	return fmt.Sprintf("y = max(0, %s*(1-exp(-%s/%s))*(exp(-%s/%s)+exp(-%s/%s)))",
		num(a), shifted(s), num(ta), shifted(s), num(tb), shifted(s), num(tc)), true
}

// SatExpTwoDecExpPlusConst adds a constant height h to the decay factor of
// SatExpTwoDecExp.
type SatExpTwoDecExpPlusConst struct {
	Diff    diff.Type
	Initial domain.Values
}

func (SatExpTwoDecExpPlusConst) sealed() {}

// Name implements Model.
func (SatExpTwoDecExpPlusConst) Name() string { return NameSatExpTwoDecExpPlusConst }

// DiffType implements Model.
func (m SatExpTwoDecExpPlusConst) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (SatExpTwoDecExpPlusConst) Antispikes() *diff.Antispikes { return nil }

// ParamNames implements Model.
func (SatExpTwoDecExpPlusConst) ParamNames(int) []string { return append([]string(nil), satExpTwoDecExpPlusConstNames...) }

// Arity implements Model.
func (SatExpTwoDecExpPlusConst) Arity(int) int { return len(satExpTwoDecExpPlusConstNames) }

// InitialValues implements Model.
func (m SatExpTwoDecExpPlusConst) InitialValues(int) (domain.Values, error) {
	return arrange(NameSatExpTwoDecExpPlusConst, m.Initial, satExpTwoDecExpPlusConstNames)
}

// ParamsToPoints implements Model.
func (m SatExpTwoDecExpPlusConst) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	checkArity(NameSatExpTwoDecExpPlusConst, params, 6)
	a, s, h, ta, tb, tc := params[0], params[1], params[2], params[3], params[4], params[5]
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		return core.Ramp(a * satExp(x, s, ta) * (decExp(x, s, tb) + decExp(x, s, tc) + h))
	})
}

// IsValid requires non-negative a, h, ta, tb, tc.
func (SatExpTwoDecExpPlusConst) IsValid(params []float64) bool {
	return len(params) == 6 && allNonNegative(params[0], params[2], params[3], params[4], params[5])
}

// Expression implements Model.
func (SatExpTwoDecExpPlusConst) Expression(params []float64) (string, bool) {
	if len(params) != 6 {
		return "", false
	}
	a, s, h, ta, tb, tc := params[0], params[1], params[2], params[3], params[4], params[5]
	return fmt.Sprintf("y = max(0, %s*(1-exp(-%s/%s))*(exp(-%s/%s)+exp(-%s/%s)+%s))",
		num(a), shifted(s), num(ta), shifted(s), num(tb), shifted(s), num(tc), num(h)), true
}

// SatExpTwoDecExpSeparateConsts is (1-e^{-(x-s)/ta})·(b·e^{-(x-s)/tb}+c·e^{-(x-s)/tc}),
// clamped at zero. b and c are independent amplitudes.
type SatExpTwoDecExpSeparateConsts struct {
	Diff    diff.Type
	Initial domain.Values
}

func (SatExpTwoDecExpSeparateConsts) sealed() {}

// Name implements Model.
func (SatExpTwoDecExpSeparateConsts) Name() string { return NameSatExpTwoDecExpSeparateConsts }

// DiffType implements Model.
func (m SatExpTwoDecExpSeparateConsts) DiffType() diff.Type { return m.Diff }

// Antispikes implements Model.
func (SatExpTwoDecExpSeparateConsts) Antispikes() *diff.Antispikes { return nil }

// ParamNames implements Model.
func (SatExpTwoDecExpSeparateConsts) ParamNames(int) []string { return append([]string(nil), separateConstsNames...) }

// Arity implements Model.
func (SatExpTwoDecExpSeparateConsts) Arity(int) int { return len(separateConstsNames) }

// InitialValues implements Model.
func (m SatExpTwoDecExpSeparateConsts) InitialValues(int) (domain.Values, error) {
	return arrange(NameSatExpTwoDecExpSeparateConsts, m.Initial, separateConstsNames)
}

// ParamsToPoints implements Model.
func (m SatExpTwoDecExpSeparateConsts) ParamsToPoints(params []float64, pointsLen int, xStart, xEnd float64) []float64 {
	checkArity(NameSatExpTwoDecExpSeparateConsts, params, 6)
	b, c, s, ta, tb, tc := params[0], params[1], params[2], params[3], params[4], params[5]
	return generate(pointsLen, xStart, xEnd, func(x float64) float64 {
		return core.Ramp(satExp(x, s, ta) * (b*decExp(x, s, tb) + c*decExp(x, s, tc)))
	})
}

// IsValid requires non-negative b, c, ta, tb, tc.
func (SatExpTwoDecExpSeparateConsts) IsValid(params []float64) bool {
	return len(params) == 6 && allNonNegative(params[0], params[1], params[3], params[4], params[5])
}

// Expression implements Model.
func (SatExpTwoDecExpSeparateConsts) Expression(params []float64) (string, bool) {
	if len(params) != 6 {
		return "", false
	}
	b, c, s, ta, tb, tc := params[0], params[1], params[2], params[3], params[4], params[5]
	return fmt.Sprintf("y = max(0, (1-exp(-%s/%s))*(%s*exp(-%s/%s)+%s*exp(-%s/%s)))",
		shifted(s), num(ta), num(b), shifted(s), num(tb), num(c), shifted(s), num(tc)), true
}
