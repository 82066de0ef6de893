package diff

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by diff functions.
var (
	ErrLengthMismatch = errors.New("diff: length mismatch")
	ErrUnsupported    = errors.New("diff: unsupported metric")
	ErrUnknownType    = errors.New("diff: unknown metric name")
)

// Type selects a distance metric.
type Type int

const (
	// SumSquares is sqrt(sum((a-b)^2)).
	SumSquares Type = iota
	// SumAbs is sum(|a-b|).
	SumAbs
	// SumSquaresPerElement is SumSquares / N.
	SumSquaresPerElement
	// SumAbsPerElement is SumAbs / N.
	SumAbsPerElement
	// LeastDist is recognised in configuration but has no implementation.
	LeastDist
)

var typeNames = map[Type]string{
	SumSquares:           "DySqr",
	SumAbs:               "DyAbs",
	SumSquaresPerElement: "DySqrPerEl",
	SumAbsPerElement:     "DyAbsPerEl",
	LeastDist:            "LeastDist",
}

// String returns the configuration tag of t.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a configuration tag ("DySqr", "DyAbs", ...) to a Type.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Compute returns the distance between a and b under metric t.
func Compute(t Type, a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}

	switch t {
	case SumSquares:
		return sumSquares(a, b), nil
	case SumAbs:
		return sumAbs(a, b), nil
	case SumSquaresPerElement:
		return sumSquares(a, b) / float64(len(a)), nil
	case SumAbsPerElement:
		return sumAbs(a, b) / float64(len(a)), nil
	case LeastDist:
		return 0, fmt.Errorf("%w: %v", ErrUnsupported, t)
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
}

// Check reports whether t can be computed.
func Check(t Type) error {
	_, err := Compute(t, nil, nil)
	return err
}

func sumSquares(a, b []float64) float64 {
	d := make([]float64, len(a))
	for i := range d {
		d[i] = a[i] - b[i]
	}
	vecmath.MulBlockInPlace(d, d)

	var sum float64
	for _, v := range d {
		sum += v
	}
	return math.Sqrt(sum)
}

func sumAbs(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}
