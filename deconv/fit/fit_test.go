package fit

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/dsp/diff"
	"github.com/cwbudde/algo-deconv/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type testProblem struct {
	init    domain.Values
	residue func([]float64) float64
	valid   func([]float64) bool
}

func (p testProblem) InitialValues() domain.Values { return p.init }

func (p testProblem) Residue(x []float64) float64 { return p.residue(x) }

func (p testProblem) IsValid(x []float64) bool {
	if !p.init.Contains(x) {
		return false
	}
	return p.valid == nil || p.valid(x)
}

// bowl is Σ(x-target)² started from start.
func bowl(start, target []float64) testProblem {
	return testProblem{
		init: domain.FromFloats(nil, start),
		residue: func(x []float64) float64 {
			var sum float64
			for i := range x {
				d := x[i] - target[i]
				sum += d * d
			}
			return sum
		},
	}
}

func constant(init domain.Values, r float64) testProblem {
	return testProblem{init: init, residue: func([]float64) float64 { return r }}
}

func engines() []Algorithm {
	return []Algorithm{
		PatternSearch{InitialStep: 1, MinStep: 1e-6, Alpha: 1.1, EvalsMax: 1e5},
		PatternSearch{InitialStep: 1, MinStep: 1e-6, Alpha: 1.1, EvalsMax: 1e5, Scaling: StepScaled},
		PatternSearch{InitialStep: 1, MinStep: 1e-6, Alpha: 1.1, EvalsMax: 1e5, Scaling: StepAdaptive},
		DownhillSimplex{InitialSimplexScale: 1, MinStep: 1e-6, ParamsDiffType: diff.SumSquares, EvalsMax: 1e5},
		DifferentialEvolution{Population: 10, Generations: 10, MutationSpeed: 0.5, CrossoverProbability: 0.5, InitialValuesRandomScale: 2, EvalsMax: 1e5, Rand: rand.New(rand.NewSource(1))},
		NelderMead{InitialSimplexScale: 1, EvalsMax: 1e5},
	}
}

func TestTooFewParams(t *testing.T) {
	fixed := domain.Values{domain.NewFixed("a", 1), domain.NewFixed("b", 2)}
	for _, alg := range engines() {
		t.Run(alg.Name(), func(t *testing.T) {
			_, err := alg.Fit(constant(fixed, 1))
			if !errors.Is(err, ErrTooFewParams) {
				t.Fatalf("err = %v, want ErrTooFewParams", err)
			}
			var f *Failure
			if !errors.As(err, &f) || f.Evals != 0 {
				t.Fatalf("failure = %#v, want zero evals", f)
			}
		})
	}
}

func TestNonFiniteStartFailsImmediately(t *testing.T) {
	init := domain.FromFloats(nil, []float64{1, 2})
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, alg := range engines() {
			t.Run(alg.Name(), func(t *testing.T) {
				_, err := alg.Fit(constant(init, r))
				if !errors.Is(err, ErrNotFinite) {
					t.Fatalf("residue %v: err = %v, want ErrNotFinite", r, err)
				}
				var f *Failure
				if !errors.As(err, &f) || f.Evals > 1 {
					t.Fatalf("residue %v: failure = %#v, want at most one eval", r, f)
				}
			})
		}
	}
}

func TestTooBigStart(t *testing.T) {
	init := domain.FromFloats(nil, []float64{1})
	alg := PatternSearch{InitialStep: 1, MinStep: 1e-3, Alpha: 2, EvalsMax: 100, ResidueMaxValue: 5}
	if _, err := alg.Fit(constant(init, 5)); !errors.Is(err, ErrTooBig) {
		t.Fatalf("err = %v, want ErrTooBig", err)
	}
	if _, err := alg.Fit(constant(init, 4.9)); err != nil {
		t.Fatalf("residue below ceiling: %v", err)
	}
}

func TestInvalidSettings(t *testing.T) {
	p := bowl([]float64{0}, []float64{1})
	tests := []Algorithm{
		PatternSearch{InitialStep: 0, MinStep: 1e-3, Alpha: 2, EvalsMax: 10},
		PatternSearch{InitialStep: 1, MinStep: 1e-3, Alpha: 1, EvalsMax: 10},
		PatternSearch{InitialStep: 1, MinStep: 1e-3, Alpha: 2, Beta: 1.5, EvalsMax: 10},
		PatternSearch{InitialStep: 1, MinStep: 1e-3, Alpha: 2},
		DownhillSimplex{InitialSimplexScale: 1, MinStep: 1e-3, ParamsDiffType: diff.LeastDist, EvalsMax: 10},
		DownhillSimplex{InitialSimplexScale: -1, MinStep: 1e-3, EvalsMax: 10},
		DifferentialEvolution{Population: 0, Generations: 1, EvalsMax: 10},
		DifferentialEvolution{Population: 4, Generations: 1, CrossoverProbability: 1.5, InitialValuesRandomScale: 2, EvalsMax: 10},
		DifferentialEvolution{Population: 4, Generations: 1, InitialValuesRandomScale: 1, EvalsMax: 10},
		DifferentialEvolution{Population: 4, Generations: 1, EvalsMax: 10},
		NelderMead{},
	}
	for _, alg := range tests {
		if _, err := alg.Fit(p); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("%s %+v: err = %v, want ErrInvalidSettings", alg.Name(), alg, err)
		}
	}
}

func TestPatternSearchConverges(t *testing.T) {
	target := []float64{1, -2, 0.5}
	for _, scaling := range []StepScaling{StepAbsolute, StepScaled, StepAdaptive} {
		t.Run(scaling.String(), func(t *testing.T) {
			alg := PatternSearch{InitialStep: 1, MinStep: 1e-9, Alpha: 1.1, EvalsMax: 1e6, Scaling: scaling}
			res, err := alg.Fit(bowl([]float64{0.1, 0.1, 0.1}, target))
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, res.Params, target, 1e-6)
			if res.Evals == 0 || res.Residue > 1e-10 {
				t.Fatalf("result = %+v", res)
			}
		})
	}
}

func TestPatternSearchHitMaxEvals(t *testing.T) {
	alg := PatternSearch{InitialStep: 1, MinStep: 1e-12, Alpha: 1.1, EvalsMax: 20}
	_, err := alg.Fit(bowl([]float64{0, 0}, []float64{3, 4}))
	if !errors.Is(err, ErrHitMaxEvals) {
		t.Fatalf("err = %v, want ErrHitMaxEvals", err)
	}
	var f *Failure
	if !errors.As(err, &f) || f.Evals < 20 {
		t.Fatalf("failure = %#v", f)
	}
}

func TestPatternSearchKeepsFixedAndValidity(t *testing.T) {
	p := bowl(nil, []float64{-1, 5, 2})
	p.init = domain.Values{
		domain.NewFree("a", 1),
		domain.NewFixed("b", 3),
		domain.NewFree("c", 0),
	}
	p.valid = func(x []float64) bool { return x[0] >= 0 }

	alg := PatternSearch{InitialStep: 0.5, MinStep: 1e-8, Alpha: 1.5, EvalsMax: 1e6}
	res, err := alg.Fit(p)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.Params[1] != 3 {
		t.Fatalf("fixed param moved to %v", res.Params[1])
	}
	if res.Params[0] < 0 || res.Params[0] > 1e-6 {
		t.Fatalf("constrained param = %v, want ~0 and >= 0", res.Params[0])
	}
	testutil.RequireNearlyEqual(t, "c", res.Params[2], 2, 1e-6)
}

func TestDownhillSimplexConverges(t *testing.T) {
	target := []float64{1, 0.5}
	alg := DownhillSimplex{InitialSimplexScale: 0.5, MinStep: 1e-10, ParamsDiffType: diff.SumSquares, EvalsMax: 1e6}
	res, err := alg.Fit(bowl([]float64{0.5, 0}, target))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Params, target, 1e-2)
	if res.Residue > 1e-4 {
		t.Fatalf("residue = %v", res.Residue)
	}
}

func TestDownhillSimplexStopRule(t *testing.T) {
	// From {0.5, 0} with scale 0.5 the first move mirrors {0.25, -0.25} to
	// {1.25, 0.75}, a DyAbs distance of exactly 2 over P = 2 parameters.
	run := func(minStep float64) Result {
		t.Helper()
		alg := DownhillSimplex{InitialSimplexScale: 0.5, MinStep: minStep, ParamsDiffType: diff.SumAbs, EvalsMax: 1e5}
		res, err := alg.Fit(bowl([]float64{0.5, 0}, []float64{1, 0.5}))
		if err != nil {
			t.Fatalf("Fit with min_step %v: %v", minStep, err)
		}
		return res
	}

	oneMove := run(4.5) // 2 < 4.5/2
	if again := run(100); again.Evals != oneMove.Evals {
		t.Fatalf("evals = %d and %d, want both runs to stop after the first move", oneMove.Evals, again.Evals)
	}
	// 2 < 3 but not < 3/2, so the move must not end the fit.
	if keepGoing := run(3); keepGoing.Evals <= oneMove.Evals {
		t.Fatalf("min_step 3 used %d evals, want more than the %d of a single move", keepGoing.Evals, oneMove.Evals)
	}

	coarse, fine := run(1e-2), run(1e-8)
	if coarse.Evals >= fine.Evals {
		t.Fatalf("evals: min_step 1e-2 = %d, 1e-8 = %d, want fewer for the coarser step", coarse.Evals, fine.Evals)
	}
}

func TestDownhillSimplexAllNotFinite(t *testing.T) {
	start := []float64{1, 1}
	p := testProblem{
		init: domain.FromFloats(nil, start),
		residue: func(x []float64) float64 {
			if x[0] == start[0] && x[1] == start[1] {
				return 1
			}
			return math.NaN()
		},
	}
	alg := DownhillSimplex{InitialSimplexScale: 1, MinStep: 1e-6, ParamsDiffType: diff.SumAbs, EvalsMax: 100}
	if _, err := alg.Fit(p); !errors.Is(err, ErrAllNotFinite) {
		t.Fatalf("err = %v, want ErrAllNotFinite", err)
	}
}

func TestWorstVertex(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		residues []float64
		want     int
	}{
		{residues: []float64{1, 3, 2}, want: 1},
		{residues: []float64{1, nan, 5, math.Inf(1)}, want: 1},
		{residues: []float64{nan, nan}, want: -1},
		{residues: []float64{2, 2}, want: 0},
	}
	for _, tt := range tests {
		if got := worstVertex(tt.residues); got != tt.want {
			t.Errorf("worstVertex(%v) = %d, want %d", tt.residues, got, tt.want)
		}
	}
}

func TestDifferentialEvolution(t *testing.T) {
	target := []float64{1, 2}
	newAlg := func() DifferentialEvolution {
		return DifferentialEvolution{
			Population:               30,
			Generations:              300,
			MutationSpeed:            0.7,
			CrossoverProbability:     0.9,
			InitialValuesRandomScale: 3,
			EvalsMax:                 1e6,
			Rand:                     rand.New(rand.NewSource(42)),
		}
	}

	res, err := newAlg().Fit(bowl([]float64{0.8, 1.5}, target))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Params, target, 1e-3)

	again, err := newAlg().Fit(bowl([]float64{0.8, 1.5}, target))
	if err != nil {
		t.Fatalf("second Fit: %v", err)
	}
	if diff := cmp.Diff(res, again); diff != "" {
		t.Fatalf("seeded runs differ (-first +second):\n%s", diff)
	}
}

func TestDifferentialEvolutionHitMaxEvals(t *testing.T) {
	alg := DifferentialEvolution{
		Population: 10, Generations: 5, MutationSpeed: 0.5, CrossoverProbability: 0.5,
		InitialValuesRandomScale: 2, EvalsMax: 5, Rand: rand.New(rand.NewSource(3)),
	}
	if _, err := alg.Fit(bowl([]float64{1, 1}, []float64{0, 0})); !errors.Is(err, ErrHitMaxEvals) {
		t.Fatalf("err = %v, want ErrHitMaxEvals", err)
	}
}

func TestNelderMeadConverges(t *testing.T) {
	target := []float64{-0.5, 1.5, 3}
	res, err := NelderMead{InitialSimplexScale: 1, EvalsMax: 1e5}.Fit(bowl([]float64{0, 0, 0}, target))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Params, target, 1e-4)
}

func TestFailureMessage(t *testing.T) {
	f := &Failure{Reason: ErrHitMaxEvals, Evals: 7}
	if got, want := f.Error(), "fit: hit max evals (after 7 evals)"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWithLogger(t *testing.T) {
	l := logrus.New()
	for _, alg := range []Algorithm{PatternSearch{}, DownhillSimplex{}, DifferentialEvolution{}, NelderMead{}} {
		got := WithLogger(alg, l)
		if got.Name() != alg.Name() {
			t.Fatalf("WithLogger changed %s into %s", alg.Name(), got.Name())
		}
		var logger logrus.FieldLogger
		switch a := got.(type) {
		case PatternSearch:
			logger = a.Logger
		case DownhillSimplex:
			logger = a.Logger
		case DifferentialEvolution:
			logger = a.Logger
		case NelderMead:
			logger = a.Logger
		}
		if logger != l {
			t.Errorf("%s: logger not set", alg.Name())
		}
	}
}
