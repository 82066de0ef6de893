// Package specio reads and writes spectra as two-column text.
//
// Each data line holds "x y" separated by whitespace, a tab or a comma.
// Blank lines and lines starting with '#' are skipped. The step is taken from
// the first two x values; every later spacing must match it within 2%.
package specio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/spectrum"
)

// stepTolerance is the allowed relative deviation of a spacing from the step.
const stepTolerance = 0.02

// Errors returned by Read.
var (
	ErrMalformedLine = errors.New("specio: malformed line")
	ErrStepMismatch  = errors.New("specio: x spacing differs from step")
	ErrNoStep        = errors.New("specio: at least two points are needed to infer the step")
)

// ReadFile reads the spectrum stored at path.
func ReadFile(path string) (spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Read parses a two-column spectrum.
func Read(r io.Reader) (spectrum.Spectrum, error) {
	var (
		xs, ys []float64
		step   float64
		lineNo int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		x, y, err := parseLine(line)
		if err != nil {
			return spectrum.Spectrum{}, fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch n := len(xs); {
		case n == 1:
			step = x - xs[0]
			if !(step > 0) {
				return spectrum.Spectrum{}, fmt.Errorf("line %d: %w: x must increase, got step %v", lineNo, spectrum.ErrInvalidStep, step)
			}
		case n > 1:
			if d := x - xs[n-1]; math.Abs(d-step) > stepTolerance*step {
				return spectrum.Spectrum{}, fmt.Errorf("line %d: %w: %v vs %v", lineNo, ErrStepMismatch, d, step)
			}
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if err := sc.Err(); err != nil {
		return spectrum.Spectrum{}, err
	}
	if len(xs) < 2 {
		return spectrum.Spectrum{}, fmt.Errorf("%w: got %d", ErrNoStep, len(xs))
	}
	return spectrum.New(ys, step, xs[0])
}

func parseLine(line string) (x, y float64, err error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: want 2 columns, got %d in %q", ErrMalformedLine, len(fields), line)
	}
	if x, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, 0, fmt.Errorf("%w: x: %w", ErrMalformedLine, err)
	}
	if y, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return 0, 0, fmt.Errorf("%w: y: %w", ErrMalformedLine, err)
	}
	if !core.IsFinite(x) || !core.IsFinite(y) {
		return 0, 0, fmt.Errorf("%w: non-finite value in %q", ErrMalformedLine, line)
	}
	return x, y, nil
}

// Write stores s as two columns with digits significant digits.
func Write(w io.Writer, s spectrum.Spectrum, digits int) error {
	bw := bufio.NewWriter(w)
	for i, y := range s.Points {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", formatFloat(s.XFromIndex(i), digits), formatFloat(y, digits)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes s to path, replacing any existing file.
func WriteFile(path string, s spectrum.Spectrum, digits int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, digits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64, digits int) string {
	return strconv.FormatFloat(v, 'g', digits, 64)
}
