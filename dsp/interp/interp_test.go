package interp

import "testing"

func TestLinear2(t *testing.T) {
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 2.0},
		{t: 0.25, w: 2.5},
		{t: 0.5, w: 3.0},
		{t: 1.0, w: 4.0},
	} {
		got := Linear2(tc.t, 2, 4)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinearAt(t *testing.T) {
	if got := LinearAt(1.5, 1, 10, 2, 20); got != 15 {
		t.Fatalf("LinearAt midpoint got %v want 15", got)
	}
	if got := LinearAt(3, 3, 7, 3, 9); got != 7 {
		t.Fatalf("LinearAt coincident got %v want 7", got)
	}
}
