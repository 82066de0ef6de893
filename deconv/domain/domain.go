// Package domain describes the admissible values of a fit parameter.
//
// A [ValueAndDomain] couples a parameter's nominal value with its domain:
// free, fixed, bounded from one side or bounded from both sides. Bounds are
// strict, matching the "<" and ">" of the textual syntax accepted by [Parse].
package domain

import (
	"fmt"
	"math/rand"
)

// maxRandomizeTries caps the rejection loop of [ValueAndDomain.Randomized].
const maxRandomizeTries = 10000

// Kind enumerates domain shapes.
type Kind int

const (
	// Free accepts any value.
	Free Kind = iota
	// Fixed accepts only the nominal value.
	Fixed
	// RangeWithMin accepts values above Min.
	RangeWithMin
	// RangeWithMax accepts values below Max.
	RangeWithMax
	// RangeClosed accepts values between Min and Max.
	RangeClosed
)

// Domain is the admissible set of a single parameter.
type Domain struct {
	Kind Kind
	Min  float64
	Max  float64
}

// ValueAndDomain is a named nominal value with its domain.
type ValueAndDomain struct {
	Name   string
	Value  float64
	Domain Domain
}

// NewFree returns an unconstrained parameter.
func NewFree(name string, value float64) ValueAndDomain {
	return ValueAndDomain{Name: name, Value: value}
}

// NewFixed returns a parameter pinned to value.
func NewFixed(name string, value float64) ValueAndDomain {
	return ValueAndDomain{Name: name, Value: value, Domain: Domain{Kind: Fixed}}
}

// NewWithMin returns a parameter that must stay above min.
func NewWithMin(name string, value, min float64) ValueAndDomain {
	return ValueAndDomain{Name: name, Value: value, Domain: Domain{Kind: RangeWithMin, Min: min}}
}

// NewWithMax returns a parameter that must stay below max.
func NewWithMax(name string, value, max float64) ValueAndDomain {
	return ValueAndDomain{Name: name, Value: value, Domain: Domain{Kind: RangeWithMax, Max: max}}
}

// NewClosed returns a parameter that must stay between min and max.
func NewClosed(name string, value, min, max float64) ValueAndDomain {
	return ValueAndDomain{Name: name, Value: value, Domain: Domain{Kind: RangeClosed, Min: min, Max: max}}
}

// IsFixed reports whether the parameter may not move.
func (v ValueAndDomain) IsFixed() bool {
	return v.Domain.Kind == Fixed
}

// Contains reports whether x is admissible.
func (v ValueAndDomain) Contains(x float64) bool {
	switch v.Domain.Kind {
	case Free:
		return true
	case Fixed:
		return x == v.Value
	case RangeWithMin:
		return v.Domain.Min < x
	case RangeWithMax:
		return x < v.Domain.Max
	case RangeClosed:
		return v.Domain.Min < x && x < v.Domain.Max
	default:
		panic(fmt.Sprintf("domain: unknown kind %d", v.Domain.Kind))
	}
}

// Randomized multiplies the nominal value by a uniform factor in
// [1/scale, scale]. Bounded domains redraw until the result is contained,
// falling back to the nominal value after maxRandomizeTries draws. Fixed
// parameters are returned unchanged.
func (v ValueAndDomain) Randomized(rng *rand.Rand, scale float64) float64 {
	switch v.Domain.Kind {
	case Fixed:
		return v.Value
	case Free:
		return v.Value * randomFactor(rng, scale)
	default:
		for range maxRandomizeTries {
			x := v.Value * randomFactor(rng, scale)
			if v.Contains(x) {
				return x
			}
		}
		return v.Value
	}
}

// String renders v in the syntax accepted by [Parse].
func (v ValueAndDomain) String() string {
	switch v.Domain.Kind {
	case Fixed:
		return fmt.Sprintf("%s==%v", v.Name, v.Value)
	case RangeWithMin:
		return fmt.Sprintf("%s=%v>%v", v.Name, v.Value, v.Domain.Min)
	case RangeWithMax:
		return fmt.Sprintf("%s=%v<%v", v.Name, v.Value, v.Domain.Max)
	case RangeClosed:
		return fmt.Sprintf("%v<%s=%v<%v", v.Domain.Min, v.Name, v.Value, v.Domain.Max)
	default:
		return fmt.Sprintf("%s=%v", v.Name, v.Value)
	}
}

func randomFactor(rng *rand.Rand, scale float64) float64 {
	if !(scale > 0) {
		return 1
	}
	if scale < 1 {
		scale = 1 / scale
	}
	lo := 1 / scale
	return lo + rng.Float64()*(scale-lo)
}
