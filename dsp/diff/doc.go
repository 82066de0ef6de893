// Package diff provides the distance metrics used as fit residues.
//
// All metrics compare two equal-length signals. SumSquares returns the square
// root of the summed squared differences (a Euclidean norm, not the raw sum of
// squares); residue ceilings elsewhere are tuned against that scale.
//
// [Antispikes] adds a roughness penalty computed on two curves independently,
// discouraging jagged per-point solutions.
package diff
