package model_test

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/deconv/model"
)

func ExampleSatExpDecExp() {
	m := model.SatExpDecExp{}
	params := []float64{1, 0, 1, 2}

	points := m.ParamsToPoints(params, 3, -1, 1)
	fmt.Printf("%.4f\n", points)

	expr, _ := m.Expression(params)
	fmt.Println(expr)
	// Output:
	// [0.0000 0.0000 0.3834]
	// y = max(0, 1*(1-exp(-(x-0)/1))*exp(-(x-0)/2))
}
