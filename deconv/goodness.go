package deconv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deconv/deconv/fit"
	"gonum.org/v1/gonum/stat"
)

// ErrRSquareOutOfRange reports an R² outside [0, 1], which means the residue
// does not belong to this data.
var ErrRSquareOutOfRange = errors.New("deconv: R^2 outside [0, 1]")

// Goodness summarises how well a fit explains the measured points.
type Goodness struct {
	ReducedChiSquare float64
	RSquare          float64
	AdjustedRSquare  float64
}

// Goodness computes
//
//	reduced chi square = residue / p
//	R²                 = 1 - residue / Σ(y-ȳ)²
//	adjusted R²        = 1 - (1-R²)(n-1)/(n-p-1)
//
// with n measured points and p = len(res.Params).
func (d *Data) Goodness(res fit.Result) (Goodness, error) {
	y := d.Measured.Points
	n := float64(len(y))
	p := float64(len(res.Params))

	mean := stat.Mean(y, nil)
	var ss float64
	for _, v := range y {
		ss += (v - mean) * (v - mean)
	}

	r2 := 1 - res.Residue/ss
	if !(r2 >= 0 && r2 <= 1) {
		return Goodness{}, fmt.Errorf("%w: got %v", ErrRSquareOutOfRange, r2)
	}
	return Goodness{
		ReducedChiSquare: res.Residue / p,
		RSquare:          r2,
		AdjustedRSquare:  1 - (1-r2)*(n-1)/(n-p-1),
	}, nil
}
