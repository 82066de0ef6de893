package deconv_test

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/deconv"
	"github.com/cwbudde/algo-deconv/deconv/fit"
	"github.com/cwbudde/algo-deconv/deconv/model"
	"github.com/cwbudde/algo-deconv/dsp/diff"
	"github.com/cwbudde/algo-deconv/dsp/spectrum"
)

func ExampleData_Deconvolve() {
	instrument, _ := spectrum.New([]float64{0, 1, 0}, 1, -1)
	measured, _ := spectrum.New([]float64{0, 0, 1, 0, 0, 2, 0}, 1, 0)

	data, err := deconv.NewData(instrument, measured, model.PerPoint{Diff: diff.SumSquares})
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := data.Deconvolve(fit.PatternSearch{InitialStep: 1, MinStep: 1e-6, Alpha: 1.1, EvalsMax: 1e6})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.3f\n", res.Params)
	// Output:
	// [0.000 0.000 1.000 0.000 0.000 2.000 0.000]
}
