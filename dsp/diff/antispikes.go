package diff

import (
	"fmt"
	"math"
)

// RoughnessType selects how consecutive-sample differences are accumulated.
type RoughnessType int

const (
	// DySqr is sqrt(sum(dy^2)).
	DySqr RoughnessType = iota
	// DyAbs is sum(|dy|).
	DyAbs
)

// String returns the configuration tag of t.
func (t RoughnessType) String() string {
	switch t {
	case DySqr:
		return "DySqr"
	case DyAbs:
		return "DyAbs"
	default:
		return fmt.Sprintf("RoughnessType(%d)", int(t))
	}
}

// ParseRoughnessType maps "DySqr" or "DyAbs" to a RoughnessType.
func ParseRoughnessType(name string) (RoughnessType, error) {
	switch name {
	case "DySqr":
		return DySqr, nil
	case "DyAbs":
		return DyAbs, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

// Antispikes penalises jagged curves.
type Antispikes struct {
	Type RoughnessType
	Coef float64
}

// Roughness accumulates the differences between consecutive samples of y.
func Roughness(t RoughnessType, y []float64) float64 {
	var sum float64
	switch t {
	case DySqr:
		for i := 1; i < len(y); i++ {
			dy := y[i] - y[i-1]
			sum += dy * dy
		}
		return math.Sqrt(sum)
	default:
		for i := 1; i < len(y); i++ {
			sum += math.Abs(y[i] - y[i-1])
		}
		return sum
	}
}

// Calc returns Coef*Roughness(measured) + Coef*Roughness(model).
// Each curve is penalised on its own; their difference plays no role.
func (a Antispikes) Calc(measured, model []float64) float64 {
	return a.Coef*Roughness(a.Type, measured) + a.Coef*Roughness(a.Type, model)
}
