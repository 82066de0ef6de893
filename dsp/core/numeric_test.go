package core

import (
	"math"
	"testing"
)

func TestRamp(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{in: -3, want: 0},
		{in: 0, want: 0},
		{in: 2.5, want: 2.5},
	} {
		if got := Ramp(tc.in); got != tc.want {
			t.Fatalf("Ramp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Fatal("IsFinite misclassified a value")
	}
}
