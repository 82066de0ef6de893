// Command deconvolve fits parametric models to measured spectra.
//
// Usage:
//
//	deconvolve [flags] measured-file ...
//
// The run is described by a YAML file (see package config). For every
// measured file <name>.<ext> three files are written next to it, or into
// --output-dir:
//
//	<name>_fit.dat          instrument convolved with the fitted curve
//	<name>_deconvolved.dat  the fitted curve
//	<name>_params.txt       goodness, parameters and closed form
//
// Examples:
//
//	deconvolve --config run.yaml sample1.dat sample2.dat
//	deconvolve --config run.yaml --instrument lamp.dat --seed 1 sample.dat
//	deconvolve variants
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
