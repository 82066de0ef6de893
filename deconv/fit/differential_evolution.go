package fit

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/internal/parallel"
	"github.com/sirupsen/logrus"
)

// DifferentialEvolution evolves a population for a fixed number of
// generations. Each individual i competes only with its own trial vector
//
//	trial_k = a_k + F*(b_k - c_k)  with probability CrossoverProbability, else x_k
//
// where a, b and c are drawn uniformly from the population.
type DifferentialEvolution struct {
	Population           int
	Generations          int
	MutationSpeed        float64
	CrossoverProbability float64
	// InitialValuesRandomScale spreads the initial population around the
	// nominal values; see domain.ValueAndDomain.Randomized. It must exceed 1,
	// otherwise every individual starts at the nominal point.
	InitialValuesRandomScale float64
	EvalsMax                 uint64
	ResidueMaxValue          float64
	// Rand drives sampling. A time-seeded source is used when nil.
	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

// Name implements Algorithm.
func (DifferentialEvolution) Name() string { return "differential_evolution" }

func (de DifferentialEvolution) validate() error {
	switch {
	case de.Population < 1:
		return fmt.Errorf("%w: population %d must be >= 1", ErrInvalidSettings, de.Population)
	case de.Generations < 0:
		return fmt.Errorf("%w: generations %d must be >= 0", ErrInvalidSettings, de.Generations)
	case !(de.CrossoverProbability >= 0 && de.CrossoverProbability <= 1):
		return fmt.Errorf("%w: crossover_probability %v must be in [0, 1]", ErrInvalidSettings, de.CrossoverProbability)
	case !(de.InitialValuesRandomScale > 1):
		return fmt.Errorf("%w: initial_values_random_scale %v must be > 1", ErrInvalidSettings, de.InitialValuesRandomScale)
	case !core.IsFinite(de.MutationSpeed):
		return fmt.Errorf("%w: mutation_speed %v", ErrInvalidSettings, de.MutationSpeed)
	case de.EvalsMax == 0:
		return fmt.Errorf("%w: evals_max must be > 0", ErrInvalidSettings)
	}
	return nil
}

type individual struct {
	x       []float64
	residue float64
}

// Fit implements Algorithm.
func (de DifferentialEvolution) Fit(p Problem) (Result, error) {
	if err := de.validate(); err != nil {
		return Result{}, err
	}
	s, err := newSubspace(p)
	if err != nil {
		return Result{}, err
	}
	log := loggerOrDiscard(de.Logger).WithFields(logrus.Fields{"algorithm": de.Name(), "params": s.dim()})

	r0, err := s.checkStart(s.start(), de.ResidueMaxValue)
	if err != nil {
		return Result{}, err
	}
	log.WithField("residue", r0).Debug("differential evolution started")

	rng := de.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	candidates := make([][]float64, de.Population)
	for i := range candidates {
		full := s.init.Randomized(rng, de.InitialValuesRandomScale).Floats()
		x := make([]float64, s.dim())
		for k, j := range s.free {
			x[k] = full[j]
		}
		candidates[i] = x
	}
	pop := make([]individual, de.Population)
	for i, r := range parallel.Map(candidates, s.score) {
		pop[i] = individual{x: candidates[i], residue: r}
	}

	for gen := 0; gen < de.Generations; gen++ {
		if s.outOfBudget(de.EvalsMax) {
			log.WithField("generation", gen).Debug("differential evolution hit max evals")
			return Result{}, s.fail(ErrHitMaxEvals)
		}

		// Sampling stays on this goroutine so a seeded Rand reproduces a run.
		trials := make([][]float64, len(pop))
		for i := range pop {
			trials[i] = de.trial(rng, pop, pop[i].x)
		}
		for i, r := range parallel.Map(trials, s.score) {
			if improves(r, pop[i].residue) {
				pop[i] = individual{x: trials[i], residue: r}
			}
		}
	}

	best := -1
	for i, ind := range pop {
		if core.IsFinite(ind.residue) && (best < 0 || ind.residue < pop[best].residue) {
			best = i
		}
	}
	if best < 0 {
		return Result{}, s.fail(ErrAllNotFinite)
	}

	log.WithFields(logrus.Fields{"residue": pop[best].residue, "evals": s.evals.Load()}).Debug("differential evolution finished")
	return s.result(pop[best].x, pop[best].residue), nil
}

func (de DifferentialEvolution) trial(rng *rand.Rand, pop []individual, current []float64) []float64 {
	a := pop[rng.Intn(len(pop))].x
	b := pop[rng.Intn(len(pop))].x
	c := pop[rng.Intn(len(pop))].x

	out := make([]float64, len(current))
	for k := range out {
		if rng.Float64() < de.CrossoverProbability {
			out[k] = a[k] + de.MutationSpeed*(b[k]-c[k])
		} else {
			out[k] = current[k]
		}
	}
	return out
}
