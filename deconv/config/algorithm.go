package config

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/deconv/fit"
)

// Engine names under fit_algorithm.
const (
	PatternSearch             = "pattern_search"
	PatternSearchScaledStep   = "pattern_search_scaled_step"
	PatternSearchAdaptiveStep = "pattern_search_adaptive_step"
	DownhillSimplex           = "downhill_simplex"
	DifferentialEvolution     = "differential_evolution"
	NelderMead                = "nelder_mead"
)

func parseAlgorithm(alg *section) (fit.Algorithm, error) {
	name, s, err := alg.only()
	if err != nil {
		return nil, err
	}

	var a fit.Algorithm
	switch name {
	case PatternSearch:
		a, err = parsePatternSearch(s, fit.StepAbsolute)
	case PatternSearchScaledStep:
		a, err = parsePatternSearch(s, fit.StepScaled)
	case PatternSearchAdaptiveStep:
		a, err = parsePatternSearch(s, fit.StepAdaptive)
	case DownhillSimplex:
		a, err = parseDownhillSimplex(s)
	case DifferentialEvolution:
		a, err = parseDifferentialEvolution(s)
	case NelderMead:
		a, err = parseNelderMead(s)
	default:
		return nil, &Error{Path: s.path, Err: fmt.Errorf("%w: unknown fit algorithm", ErrUnknownKey)}
	}
	if err != nil {
		return nil, err
	}
	return a, s.done()
}

// limits reads the keys shared by every engine.
func limits(s *section) (evalsMax uint64, maxValue float64, err error) {
	if evalsMax, err = s.uint64("fit_residue_evals_max"); err != nil {
		return 0, 0, err
	}
	if maxValue, err = s.floatOr("fit_residue_max_value", 0); err != nil {
		return 0, 0, err
	}
	return evalsMax, maxValue, nil
}

func parsePatternSearch(s *section, scaling fit.StepScaling) (fit.PatternSearch, error) {
	ps := fit.PatternSearch{Scaling: scaling}
	var err error
	if ps.InitialStep, err = s.floatOr("initial_step", 1); err != nil {
		return ps, err
	}
	if ps.MinStep, err = s.float("min_step"); err != nil {
		return ps, err
	}
	if ps.Alpha, err = s.float("alpha"); err != nil {
		return ps, err
	}
	if ps.Beta, err = s.floatOr("beta", 0); err != nil {
		return ps, err
	}
	ps.EvalsMax, ps.ResidueMaxValue, err = limits(s)
	return ps, err
}

func parseDownhillSimplex(s *section) (fit.DownhillSimplex, error) {
	var ds fit.DownhillSimplex
	var err error
	if ds.InitialSimplexScale, err = s.float("initial_simplex_scale"); err != nil {
		return ds, err
	}
	if ds.MinStep, err = s.float("min_step"); err != nil {
		return ds, err
	}
	if ds.ParamsDiffType, err = parseDiffType(s, "params_diff_type"); err != nil {
		return ds, err
	}
	ds.EvalsMax, ds.ResidueMaxValue, err = limits(s)
	return ds, err
}

func parseDifferentialEvolution(s *section) (fit.DifferentialEvolution, error) {
	var de fit.DifferentialEvolution
	var err error
	if de.Population, err = s.int("population"); err != nil {
		return de, err
	}
	if de.Generations, err = s.int("generations"); err != nil {
		return de, err
	}
	if de.MutationSpeed, err = s.float("mutation_speed"); err != nil {
		return de, err
	}
	if de.CrossoverProbability, err = s.float("crossover_probability"); err != nil {
		return de, err
	}
	if de.InitialValuesRandomScale, err = s.float("initial_values_random_scale"); err != nil {
		return de, err
	}
	de.EvalsMax, de.ResidueMaxValue, err = limits(s)
	return de, err
}

func parseNelderMead(s *section) (fit.NelderMead, error) {
	var nm fit.NelderMead
	var err error
	if nm.InitialSimplexScale, err = s.floatOr("initial_simplex_scale", 0); err != nil {
		return nm, err
	}
	nm.EvalsMax, nm.ResidueMaxValue, err = limits(s)
	return nm, err
}
