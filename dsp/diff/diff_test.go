package diff

import (
	"errors"
	"math"
	"testing"
)

func TestCompute(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{1, 0, 3, 1}

	tests := []struct {
		typ  Type
		want float64
	}{
		{typ: SumSquares, want: math.Sqrt(13)},
		{typ: SumAbs, want: 5},
		{typ: SumSquaresPerElement, want: math.Sqrt(13) / 4},
		{typ: SumAbsPerElement, want: 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, err := Compute(tt.typ, a, b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Compute() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute(SumSquares, []float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := Compute(LeastDist, []float64{1}, []float64{1}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if err := Check(LeastDist); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Check(LeastDist) = %v, want ErrUnsupported", err)
	}
	if err := Check(SumAbs); err != nil {
		t.Errorf("Check(SumAbs) = %v, want nil", err)
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{SumSquares, SumAbs, SumSquaresPerElement, SumAbsPerElement, LeastDist} {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseType("Fourier"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestAntispikes(t *testing.T) {
	measured := []float64{0, 1, 0}
	model := []float64{0, 0, 2}

	sqr := Antispikes{Type: DySqr, Coef: 0.5}
	// sqrt(1+1)*0.5 + sqrt(0+4)*0.5
	if got, want := sqr.Calc(measured, model), 0.5*math.Sqrt(2)+1; math.Abs(got-want) > 1e-12 {
		t.Fatalf("DySqr Calc() = %v, want %v", got, want)
	}

	abs := Antispikes{Type: DyAbs, Coef: 2}
	if got := abs.Calc(measured, model); got != 8 {
		t.Fatalf("DyAbs Calc() = %v, want 8", got)
	}

	if r := Roughness(DySqr, []float64{3}); r != 0 {
		t.Fatalf("Roughness of a single sample = %v, want 0", r)
	}
}

func TestParseRoughnessType(t *testing.T) {
	if got, err := ParseRoughnessType("DyAbs"); err != nil || got != DyAbs {
		t.Fatalf("ParseRoughnessType(DyAbs) = %v, %v", got, err)
	}
	if _, err := ParseRoughnessType("DySqrPerEl"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
