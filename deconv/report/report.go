// Package report formats fit results for people and plotting tools.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/algo-deconv/deconv"
)

// Param is one named fitted value.
type Param struct {
	Name  string
	Value float64
}

// Result is everything written for one fit.
type Result struct {
	ModelName string
	Goodness  deconv.Goodness
	Params    []Param
	// Expressions are closed forms such as "y = ..."; may be empty.
	Expressions []string
}

// Params pairs names with values. Missing names become p<i>.
func Params(names []string, values []float64) []Param {
	out := make([]Param, len(values))
	for i, v := range values {
		name := fmt.Sprintf("p%d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		out[i] = Param{Name: name, Value: v}
	}
	return out
}

// FormatFloat renders v with digits significant digits.
func FormatFloat(v float64, digits int) string {
	return strconv.FormatFloat(v, 'g', digits, 64)
}

// GoodnessMessage is a one-line summary of g.
func GoodnessMessage(g deconv.Goodness, digits int) string {
	return fmt.Sprintf("reduced chi square = %s, R^2 = %s, adjusted R^2 = %s",
		FormatFloat(g.ReducedChiSquare, digits),
		FormatFloat(g.RSquare, digits),
		FormatFloat(g.AdjustedRSquare, digits))
}

// Write renders r as
//
//	model: <name>
//	<goodness message>
//	<name> = <value>
//	...
//	<expression>
//	...
func Write(w io.Writer, r Result, digits int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "model: %s\n", r.ModelName)
	fmt.Fprintln(bw, GoodnessMessage(r.Goodness, digits))
	for _, p := range r.Params {
		fmt.Fprintf(bw, "%s = %s\n", p.Name, FormatFloat(p.Value, digits))
	}
	for _, e := range r.Expressions {
		fmt.Fprintln(bw, e)
	}
	return bw.Flush()
}
