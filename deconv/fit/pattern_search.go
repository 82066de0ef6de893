package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/internal/parallel"
	"github.com/sirupsen/logrus"
)

// StepScaling selects how the pattern-search step maps onto each coordinate.
type StepScaling int

const (
	// StepAbsolute moves every coordinate by the step itself.
	StepAbsolute StepScaling = iota
	// StepScaled multiplies the step by |initial value| of the coordinate.
	StepScaled
	// StepAdaptive multiplies the step by |current value| of the coordinate.
	StepAdaptive
)

// String returns the configuration name of the flavour.
func (s StepScaling) String() string {
	switch s {
	case StepAbsolute:
		return "pattern_search"
	case StepScaled:
		return "pattern_search_scaled_step"
	case StepAdaptive:
		return "pattern_search_adaptive_step"
	default:
		return fmt.Sprintf("StepScaling(%d)", int(s))
	}
}

// PatternSearch probes ±step along every free coordinate, moves to the best
// strictly improving neighbour and grows the step by Alpha, or shrinks it by
// Beta when nothing improves. It converges once the step drops to MinStep.
type PatternSearch struct {
	InitialStep float64
	MinStep     float64
	Alpha       float64
	// Beta defaults to 1/Alpha when zero.
	Beta            float64
	EvalsMax        uint64
	ResidueMaxValue float64
	Scaling         StepScaling
	Logger          logrus.FieldLogger
}

// Name implements Algorithm.
func (ps PatternSearch) Name() string { return ps.Scaling.String() }

func (ps PatternSearch) validate() error {
	beta := ps.beta()
	switch {
	case !(ps.InitialStep > 0):
		return fmt.Errorf("%w: initial_step %v must be > 0", ErrInvalidSettings, ps.InitialStep)
	case !(ps.MinStep > 0):
		return fmt.Errorf("%w: min_step %v must be > 0", ErrInvalidSettings, ps.MinStep)
	case !(ps.Alpha > 1):
		return fmt.Errorf("%w: alpha %v must be > 1", ErrInvalidSettings, ps.Alpha)
	case !(beta > 0 && beta < 1):
		return fmt.Errorf("%w: beta %v must be in (0, 1)", ErrInvalidSettings, beta)
	case ps.EvalsMax == 0:
		return fmt.Errorf("%w: evals_max must be > 0", ErrInvalidSettings)
	}
	if ps.Scaling < StepAbsolute || ps.Scaling > StepAdaptive {
		return fmt.Errorf("%w: unknown scaling %v", ErrInvalidSettings, ps.Scaling)
	}
	return nil
}

func (ps PatternSearch) beta() float64 {
	if ps.Beta == 0 {
		return 1 / ps.Alpha
	}
	return ps.Beta
}

// Fit implements Algorithm.
func (ps PatternSearch) Fit(p Problem) (Result, error) {
	if err := ps.validate(); err != nil {
		return Result{}, err
	}
	s, err := newSubspace(p)
	if err != nil {
		return Result{}, err
	}
	log := loggerOrDiscard(ps.Logger).WithFields(logrus.Fields{"algorithm": ps.Name(), "params": s.dim()})

	x := s.start()
	initial := append([]float64(nil), x...)
	residue, err := s.checkStart(x, ps.ResidueMaxValue)
	if err != nil {
		return Result{}, err
	}
	log.WithField("residue", residue).Debug("pattern search started")

	beta := ps.beta()
	step := ps.InitialStep
	for step > ps.MinStep {
		if s.outOfBudget(ps.EvalsMax) {
			log.WithField("residue", residue).Debug("pattern search hit max evals")
			return Result{}, s.fail(ErrHitMaxEvals)
		}

		neighbours := make([][]float64, 0, 2*len(x))
		for k := range x {
			delta := step * ps.scale(initial[k], x[k])
			plus := append([]float64(nil), x...)
			plus[k] += delta
			minus := append([]float64(nil), x...)
			minus[k] -= delta
			neighbours = append(neighbours, plus, minus)
		}
		scores := parallel.Map(neighbours, s.score)

		best := -1
		bestResidue := residue
		for i, r := range scores {
			if improves(r, bestResidue) {
				best, bestResidue = i, r
			}
		}
		if best >= 0 {
			x, residue = neighbours[best], bestResidue
			step *= ps.Alpha
		} else {
			step *= beta
		}
	}

	log.WithFields(logrus.Fields{"residue": residue, "evals": s.evals.Load()}).Debug("pattern search converged")
	return s.result(x, residue), nil
}

// scale returns the per-coordinate multiplier of the step. A zero scale falls
// back to the absolute step.
func (ps PatternSearch) scale(initial, current float64) float64 {
	var m float64
	switch ps.Scaling {
	case StepScaled:
		m = math.Abs(initial)
	case StepAdaptive:
		m = math.Abs(current)
	default:
		return 1
	}
	if m == 0 {
		return 1
	}
	return m
}
