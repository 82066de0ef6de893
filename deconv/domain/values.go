package domain

import (
	"math/rand"
	"strings"
)

// Values is an ordered parameter vector with domains.
type Values []ValueAndDomain

// FromFloats returns free parameters named by names. Missing names are left empty.
func FromFloats(names []string, values []float64) Values {
	vs := make(Values, len(values))
	for i, x := range values {
		vs[i].Value = x
		if i < len(names) {
			vs[i].Name = names[i]
		}
	}
	return vs
}

// Floats returns the nominal values.
func (vs Values) Floats() []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Value
	}
	return out
}

// Names returns the parameter names.
func (vs Values) Names() []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

// FreeIndices returns the indices of parameters that are not fixed.
func (vs Values) FreeIndices() []int {
	idx := make([]int, 0, len(vs))
	for i, v := range vs {
		if !v.IsFixed() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Contains reports whether params has the right length and every element
// lies in its domain.
func (vs Values) Contains(params []float64) bool {
	if len(params) != len(vs) {
		return false
	}
	for i, v := range vs {
		if !v.Contains(params[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (vs Values) Clone() Values {
	if vs == nil {
		return nil
	}
	out := make(Values, len(vs))
	copy(out, vs)
	return out
}

// WithFloats returns a copy whose nominal values are replaced by params.
// Domains and names are kept; len(params) must equal len(vs).
func (vs Values) WithFloats(params []float64) Values {
	out := vs.Clone()
	for i := range out {
		out[i].Value = params[i]
	}
	return out
}

// Randomized returns a copy with every nominal value randomised by
// [ValueAndDomain.Randomized].
func (vs Values) Randomized(rng *rand.Rand, scale float64) Values {
	out := vs.Clone()
	for i := range out {
		out[i].Value = vs[i].Randomized(rng, scale)
	}
	return out
}

// String renders vs in the syntax accepted by [Parse].
func (vs Values) String() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
