// Package fit provides derivative-free minimisers for deconvolution
// residues.
//
// All engines search only the non-fixed parameters of a [Problem]. They share
// one failure contract: the starting residue is evaluated first and must be
// finite and below the configured ceiling, the evaluation budget is a hard
// cap, and every unsuccessful run returns a [*Failure] wrapping one of the
// package sentinel errors. Engines never panic on numeric trouble.
//
// Engines:
//   - [PatternSearch]: coordinate pattern search with absolute, scaled or
//     adaptive steps; neighbours are evaluated in parallel.
//   - [DownhillSimplex]: reflect-or-blend simplex with a fixed blend schedule.
//   - [DifferentialEvolution]: rand/1/bin evolution with per-individual
//     replacement; each generation is evaluated in parallel.
//   - [NelderMead]: gonum's Nelder-Mead, for comparison.
package fit
