package fit

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/sirupsen/logrus"
)

// Failure reasons. Test with errors.Is against a returned error.
var (
	ErrTooFewParams = errors.New("too few params")
	ErrNotFinite    = errors.New("residue isn't finite")
	ErrTooBig       = errors.New("residue is too big")
	ErrHitMaxEvals  = errors.New("hit max evals")
	ErrAllNotFinite = errors.New("all candidates NaN/Inf")
)

// ErrInvalidSettings reports engine knobs outside their allowed range.
var ErrInvalidSettings = errors.New("fit: invalid settings")

// Problem is the function being minimised.
//
// Residue and IsValid are called concurrently and must not mutate shared state.
type Problem interface {
	InitialValues() domain.Values
	Residue(params []float64) float64
	IsValid(params []float64) bool
}

// Algorithm is a fit engine.
type Algorithm interface {
	Name() string
	Fit(p Problem) (Result, error)
}

// Result is a successful fit.
type Result struct {
	// Params is the full parameter vector, fixed entries included.
	Params  []float64
	Residue float64
	Evals   uint64
}

// Failure is an unsuccessful fit. Reason wraps one of the Err* sentinels.
type Failure struct {
	Reason error
	Evals  uint64
}

func (f *Failure) Error() string {
	return fmt.Sprintf("fit: %v (after %d evals)", f.Reason, f.Evals)
}

func (f *Failure) Unwrap() error { return f.Reason }

var nan = math.NaN()

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func loggerOrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return discard
	}
	return l
}

// subspace maps the free coordinates of a problem onto a dense vector and
// counts residue evaluations.
type subspace struct {
	p     Problem
	init  domain.Values
	base  []float64
	free  []int
	evals atomic.Uint64
}

func newSubspace(p Problem) (*subspace, error) {
	init := p.InitialValues()
	s := &subspace{p: p, init: init, base: init.Floats(), free: init.FreeIndices()}
	if len(s.free) == 0 {
		return nil, &Failure{Reason: ErrTooFewParams}
	}
	return s, nil
}

// dim is the number of free parameters.
func (s *subspace) dim() int { return len(s.free) }

// start returns the free part of the initial values.
func (s *subspace) start() []float64 {
	x := make([]float64, len(s.free))
	for k, i := range s.free {
		x[k] = s.base[i]
	}
	return x
}

func (s *subspace) full(x []float64) []float64 {
	out := core.Clone(s.base)
	for k, i := range s.free {
		out[i] = x[k]
	}
	return out
}

// residue evaluates x without a validity check.
func (s *subspace) residue(x []float64) float64 {
	s.evals.Add(1)
	return s.p.Residue(s.full(x))
}

// score evaluates x if it is valid and returns NaN otherwise. Invalid points
// do not count as evaluations.
func (s *subspace) score(x []float64) float64 {
	full := s.full(x)
	if !s.p.IsValid(full) {
		return nan
	}
	s.evals.Add(1)
	return s.p.Residue(full)
}

func (s *subspace) fail(reason error) *Failure {
	return &Failure{Reason: reason, Evals: s.evals.Load()}
}

func (s *subspace) outOfBudget(max uint64) bool {
	return s.evals.Load() >= max
}

// checkStart evaluates the initial point once.
func (s *subspace) checkStart(x0 []float64, maxValue float64) (float64, error) {
	r := s.residue(x0)
	if err := checkResidue(r, maxValue); err != nil {
		return r, s.fail(err)
	}
	return r, nil
}

func (s *subspace) result(x []float64, residue float64) Result {
	return Result{Params: s.full(x), Residue: residue, Evals: s.evals.Load()}
}

// checkResidue rejects non-finite residues and residues at or above maxValue.
// A non-positive maxValue disables the ceiling.
func checkResidue(r, maxValue float64) error {
	if !core.IsFinite(r) {
		return fmt.Errorf("%w: %v", ErrNotFinite, r)
	}
	if maxValue > 0 && r >= maxValue {
		return fmt.Errorf("%w: %v >= %v", ErrTooBig, r, maxValue)
	}
	return nil
}

// improves reports whether candidate strictly beats current. Non-finite
// candidates never improve; any finite candidate beats a non-finite current.
func improves(candidate, current float64) bool {
	if !core.IsFinite(candidate) {
		return false
	}
	return !core.IsFinite(current) || candidate < current
}

// WithLogger returns a copy of alg that logs to l. Algorithms without a
// Logger field are returned unchanged.
func WithLogger(alg Algorithm, l logrus.FieldLogger) Algorithm {
	switch a := alg.(type) {
	case PatternSearch:
		a.Logger = l
		return a
	case DownhillSimplex:
		a.Logger = l
		return a
	case DifferentialEvolution:
		a.Logger = l
		return a
	case NelderMead:
		a.Logger = l
		return a
	}
	return alg
}
