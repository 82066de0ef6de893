package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"
)

// NelderMead runs gonum's Nelder-Mead simplex over the free parameters.
// Invalid or non-finite points score +Inf.
type NelderMead struct {
	// InitialSimplexScale is the edge length of the initial simplex; gonum's
	// default is used when zero.
	InitialSimplexScale float64
	EvalsMax            uint64
	ResidueMaxValue     float64
	Logger              logrus.FieldLogger
}

// Name implements Algorithm.
func (NelderMead) Name() string { return "nelder_mead" }

// Fit implements Algorithm.
func (nm NelderMead) Fit(p Problem) (Result, error) {
	if nm.EvalsMax == 0 {
		return Result{}, fmt.Errorf("%w: evals_max must be > 0", ErrInvalidSettings)
	}
	if nm.InitialSimplexScale < 0 {
		return Result{}, fmt.Errorf("%w: initial_simplex_scale %v must be >= 0", ErrInvalidSettings, nm.InitialSimplexScale)
	}
	s, err := newSubspace(p)
	if err != nil {
		return Result{}, err
	}
	log := loggerOrDiscard(nm.Logger).WithFields(logrus.Fields{"algorithm": nm.Name(), "params": s.dim()})

	x0 := s.start()
	r0, err := s.checkStart(x0, nm.ResidueMaxValue)
	if err != nil {
		return Result{}, err
	}
	log.WithField("residue", r0).Debug("nelder-mead started")

	if s.outOfBudget(nm.EvalsMax) {
		return Result{}, s.fail(ErrHitMaxEvals)
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			r := s.score(x)
			if !core.IsFinite(r) {
				return math.Inf(1)
			}
			return r
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: int(nm.EvalsMax - s.evals.Load()),
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 100,
		},
	}
	method := &optimize.NelderMead{SimplexSize: nm.InitialSimplexScale}

	res, err := optimize.Minimize(problem, x0, settings, method)
	if res != nil && res.Status == optimize.FunctionEvaluationLimit {
		return Result{}, s.fail(ErrHitMaxEvals)
	}
	if err != nil {
		return Result{}, fmt.Errorf("fit: nelder-mead: %w", err)
	}
	if err := checkResidue(res.F, 0); err != nil {
		return Result{}, s.fail(err)
	}

	log.WithFields(logrus.Fields{"residue": res.F, "evals": s.evals.Load()}).Debug("nelder-mead converged")
	return s.result(res.X, res.F), nil
}
