package interp

// Linear2 interpolates between x0 and x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// LinearAt evaluates the straight line through (xa, ya) and (xb, yb) at x.
// When xa == xb the left value is returned unchanged.
func LinearAt(x, xa, ya, xb, yb float64) float64 {
	if xa == xb {
		return ya
	}
	return Linear2((x-xa)/(xb-xa), ya, yb)
}
