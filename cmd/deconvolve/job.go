package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-deconv/deconv"
	"github.com/cwbudde/algo-deconv/deconv/config"
	"github.com/cwbudde/algo-deconv/deconv/report"
	"github.com/cwbudde/algo-deconv/deconv/specio"
	"github.com/cwbudde/algo-deconv/dsp/spectrum"
	"github.com/sirupsen/logrus"
)

// job deconvolves measured files against one configuration.
type job struct {
	cfg        config.Config
	instrument string
	outputDir  string
	log        logrus.FieldLogger
}

// outputs names the files written for one measured file.
type outputs struct {
	fit         string
	deconvolved string
	params      string
	goodness    deconv.Goodness
}

func (j job) outputPaths(measured string) outputs {
	dir := j.outputDir
	if dir == "" {
		dir = filepath.Dir(measured)
	}
	base := filepath.Base(measured)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, name)
	return outputs{
		fit:         prefix + "_fit.dat",
		deconvolved: prefix + "_deconvolved.dat",
		params:      prefix + "_params.txt",
	}
}

func (j job) process(measuredPath string) (outputs, error) {
	log := j.log.WithField("measured", measuredPath)

	instrument, err := specio.ReadFile(j.instrument)
	if err != nil {
		return outputs{}, err
	}
	measured, err := specio.ReadFile(measuredPath)
	if err != nil {
		return outputs{}, err
	}

	instrument, measured, err = deconv.AlignSteps(instrument, measured, j.cfg.StepsAlign)
	if err != nil {
		return outputs{}, err
	}
	log.WithFields(logrus.Fields{
		"step":              measured.Step,
		"instrument_points": instrument.Len(),
		"measured_points":   measured.Len(),
	}).Debug("steps aligned")

	data, err := deconv.NewData(instrument, measured, j.cfg.Model,
		deconv.WithConvolution(j.cfg.Convolution),
		deconv.WithLogger(log))
	if err != nil {
		return outputs{}, err
	}

	log.WithFields(logrus.Fields{
		"model":     j.cfg.Model.Name(),
		"algorithm": j.cfg.Algorithm.Name(),
	}).Info("fitting")
	res, err := data.DeconvolveWithRestarts(j.cfg.Algorithm, j.cfg.Restarts)
	if err != nil {
		return outputs{}, err
	}

	out := j.outputPaths(measuredPath)
	out.goodness, err = data.Goodness(res)
	if err != nil {
		if !errors.Is(err, deconv.ErrRSquareOutOfRange) {
			return outputs{}, err
		}
		log.WithError(err).Warn("goodness of fit unavailable")
		out.goodness = deconv.Goodness{ReducedChiSquare: math.NaN(), RSquare: math.NaN(), AdjustedRSquare: math.NaN()}
	}

	if err := j.write(data, res.Params, out); err != nil {
		return outputs{}, err
	}
	log.WithFields(logrus.Fields{
		"residue": res.Residue,
		"evals":   res.Evals,
	}).Info("fit written")
	return out, nil
}

func (j job) write(data *deconv.Data, params []float64, out outputs) error {
	digits := j.cfg.SignificantDigits
	measured := data.Measured

	convolved, err := data.ConvolvedPoints(params)
	if err != nil {
		return err
	}
	fitted, err := spectrum.New(convolved, measured.Step, measured.XStart)
	if err != nil {
		return err
	}
	if err := specio.WriteFile(out.fit, fitted, digits); err != nil {
		return err
	}

	curve, err := spectrum.New(data.ModelPoints(params), measured.Step, measured.XStart)
	if err != nil {
		return err
	}
	if err := specio.WriteFile(out.deconvolved, curve, digits); err != nil {
		return err
	}

	m := data.Model
	r := report.Result{
		ModelName: m.Name(),
		Goodness:  out.goodness,
		Params:    report.Params(m.ParamNames(measured.Len()), params),
	}
	if expr, ok := m.Expression(params); ok {
		r.Expressions = append(r.Expressions, expr)
	}

	f, err := os.Create(out.params)
	if err != nil {
		return err
	}
	if err := report.Write(f, r, digits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
