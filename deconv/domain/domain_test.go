package domain

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	got, err := Parse("a=1, s==0.5, ta=2>0, tb=3<10, -1<h=0<1, k=7")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := Values{
		NewFree("a", 1),
		NewFixed("s", 0.5),
		NewWithMin("ta", 2, 0),
		NewWithMax("tb", 3, 10),
		NewClosed("h", 0, -1, 1),
		NewFree("k", 7),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoundTripsString(t *testing.T) {
	vs, err := Parse("0<a=0.5<1, b==2, c=-3")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	again, err := Parse(vs.String())
	if err != nil {
		t.Fatalf("Parse(String()) error: %v", err)
	}
	if diff := cmp.Diff(vs, again); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{in: "a", want: ErrSyntax},
		{in: "a=x", want: ErrSyntax},
		{in: "=1", want: ErrSyntax},
		{in: "0<a=1>0", want: ErrSyntax},
		{in: "a=1=2", want: ErrSyntax},
		{in: "a=5<1", want: ErrNotContained},
		{in: "a=0>0", want: ErrNotContained},
		{in: "a=1, a=2", want: ErrDuplicate},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) err = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		v    ValueAndDomain
		x    float64
		want bool
	}{
		{name: "free", v: NewFree("a", 1), x: -1e9, want: true},
		{name: "fixed same", v: NewFixed("a", 1), x: 1, want: true},
		{name: "fixed other", v: NewFixed("a", 1), x: 1.0000001, want: false},
		{name: "min inside", v: NewWithMin("a", 1, 0), x: 0.1, want: true},
		{name: "min boundary", v: NewWithMin("a", 1, 0), x: 0, want: false},
		{name: "max inside", v: NewWithMax("a", 1, 2), x: -5, want: true},
		{name: "max outside", v: NewWithMax("a", 1, 2), x: 2.5, want: false},
		{name: "closed inside", v: NewClosed("a", 1, 0, 2), x: 1.9, want: true},
		{name: "closed outside", v: NewClosed("a", 1, 0, 2), x: -0.1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Contains(tt.x); got != tt.want {
				t.Fatalf("Contains(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestRandomizedStaysInDomain(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	vs := Values{
		NewWithMin("a", 1, 0.8),
		NewWithMax("b", 1, 1.2),
		NewClosed("c", 1, 0.9, 1.1),
		NewFixed("d", 3),
		NewFree("e", 2),
	}

	for range 2000 {
		r := vs.Randomized(rng, 2)
		if !vs.Contains(r.Floats()) {
			t.Fatalf("randomized values %v escaped their domains", r.Floats())
		}
		if r[3].Value != 3 {
			t.Fatalf("fixed value moved to %v", r[3].Value)
		}
		if e := r[4].Value; e < 1-1e-12 || e > 4+1e-12 {
			t.Fatalf("free value %v outside [nominal/scale, nominal*scale]", e)
		}
	}
}

func TestRandomizedFallsBackToNominal(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	// Scale 1 can only reproduce the nominal value.
	v := NewClosed("a", 0.5, 0, 1)
	if got := v.Randomized(rng, 1); got != 0.5 {
		t.Fatalf("Randomized with scale 1 = %v, want 0.5", got)
	}
	if got := v.Randomized(rng, math.NaN()); got != 0.5 {
		t.Fatalf("Randomized with NaN scale = %v, want 0.5", got)
	}
}

func TestValuesHelpers(t *testing.T) {
	vs := Values{NewFree("a", 1), NewFixed("b", 2), NewWithMin("c", 3, 0)}

	if diff := cmp.Diff([]int{0, 2}, vs.FreeIndices()); diff != "" {
		t.Fatalf("FreeIndices mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, vs.Names()); diff != "" {
		t.Fatalf("Names mismatch:\n%s", diff)
	}
	if vs.Contains([]float64{1, 2}) {
		t.Fatal("Contains accepted a short vector")
	}

	moved := vs.WithFloats([]float64{10, 2, 30})
	if vs[0].Value != 1 || moved[0].Value != 10 || moved[2].Domain.Kind != RangeWithMin {
		t.Fatalf("WithFloats did not copy correctly: %v / %v", vs, moved)
	}

	free := FromFloats([]string{"x"}, []float64{4, 5})
	if free[0].Name != "x" || free[1].Name != "" || free[1].Value != 5 {
		t.Fatalf("FromFloats = %v", free)
	}
}
