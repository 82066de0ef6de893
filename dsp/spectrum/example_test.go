package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/spectrum"
)

func ExampleSpectrum_RecalculatedWithStep() {
	s := spectrum.Spectrum{Points: []float64{0, 1, 2}, Step: 1, XStart: 0}

	r, err := s.RecalculatedWithStep(0.5)
	if err != nil {
		panic(err)
	}
	fmt.Println(r.Points, r.Step)

	// Output:
	// [0 0.5 1 1.5 2] 0.5
}
