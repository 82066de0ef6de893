package deconv

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/deconv/fit"
	"github.com/cwbudde/algo-deconv/deconv/model"
	"github.com/cwbudde/algo-deconv/dsp/conv"
	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/diff"
	"github.com/cwbudde/algo-deconv/dsp/spectrum"
	"github.com/sirupsen/logrus"
)

// ErrTooFewPoints reports a measured spectrum with fewer than two samples.
var ErrTooFewPoints = errors.New("deconv: measured spectrum needs at least 2 points")

var _ fit.Problem = (*Data)(nil)

// Data is a deconvolution problem. It is read-only during a fit and safe for
// concurrent residue evaluation.
type Data struct {
	Instrument spectrum.Spectrum
	Measured   spectrum.Spectrum
	Model      model.Model

	initial   domain.Values
	cfg       config
	convolver conv.Convolver
	log       logrus.FieldLogger
}

// NewData validates the inputs and resolves the model's initial values.
// The instrument kernel may still have even length here; [Data.Deconvolve]
// rejects it.
func NewData(instrument, measured spectrum.Spectrum, m model.Model, opts ...Option) (*Data, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if m == nil {
		return nil, fmt.Errorf("%w: nil model", model.ErrUnknown)
	}
	if err := model.CheckSupported(m.Name()); err != nil {
		return nil, err
	}
	if err := diff.Check(m.DiffType()); err != nil {
		return nil, err
	}
	for _, sp := range []struct {
		name string
		s    spectrum.Spectrum
	}{{"instrument", instrument}, {"measured", measured}} {
		if math.IsNaN(sp.s.Step) {
			return nil, fmt.Errorf("%w: %s", ErrNaNStep, sp.name)
		}
		if !core.IsFinite(sp.s.Step) || sp.s.Step <= 0 {
			return nil, fmt.Errorf("deconv: %s: %w: got %v", sp.name, spectrum.ErrInvalidStep, sp.s.Step)
		}
	}
	if measured.Len() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, measured.Len())
	}

	d := &Data{
		Instrument: instrument,
		Measured:   measured,
		Model:      m,
		cfg:        cfg,
		log:        cfg.logger,
	}
	if d.log == nil {
		d.log = discardLogger
	}
	d.log = d.log.WithField("model", m.Name())

	if err := d.prepare(); err != nil {
		return nil, err
	}
	return d, nil
}

// prepare builds the convolver and resolves the initial values for the
// current spectra.
func (d *Data) prepare() error {
	d.convolver = nil
	if conv.CheckKernel(d.Instrument.Points) == nil {
		var err error
		switch d.cfg.convolution {
		case ConvFFT:
			d.convolver, err = conv.NewFFTSame(d.Instrument.Points)
		default:
			d.convolver, err = conv.NewDirectSame(d.Instrument.Points)
		}
		if err != nil {
			return err
		}
	}

	initial, err := d.Model.InitialValues(d.Measured.Len())
	if err != nil {
		return err
	}
	if pp, ok := d.Model.(model.PerPoint); ok && pp.InitialEstimate != nil {
		est, err := conv.DeconvolveSame(d.Measured.Points, d.Instrument.Points, *pp.InitialEstimate)
		if err != nil {
			return fmt.Errorf("deconv: initial estimate: %w", err)
		}
		for i := range initial {
			initial[i].Value = core.Ramp(est[i])
		}
	}
	d.initial = initial
	return nil
}

// AlignStepsTo resamples the spectra in place onto a common step and
// re-resolves the initial values. Equal steps leave d untouched, and so does
// any error.
func (d *Data) AlignStepsTo(dir AlignDirection) error {
	if d.Instrument.Step == d.Measured.Step {
		return nil
	}
	inst, meas, err := AlignSteps(d.Instrument, d.Measured, dir)
	if err != nil {
		return err
	}
	if meas.Len() < 2 {
		return fmt.Errorf("%w: got %d after resampling", ErrTooFewPoints, meas.Len())
	}
	aligned := *d
	aligned.Instrument, aligned.Measured = inst, meas
	if err := aligned.prepare(); err != nil {
		return err
	}
	*d = aligned
	d.log.WithFields(logrus.Fields{"step": d.Measured.Step, "direction": dir}).Info("aligned steps")
	return nil
}

// AssertStepsAligned returns ErrStepsNotAligned unless both spectra share a step.
func (d *Data) AssertStepsAligned() error {
	if d.Instrument.Step != d.Measured.Step {
		return fmt.Errorf("%w: instrument %v, measured %v", ErrStepsNotAligned, d.Instrument.Step, d.Measured.Step)
	}
	return nil
}

// InitialValues implements fit.Problem.
func (d *Data) InitialValues() domain.Values {
	return d.initial.Clone()
}

// WithInitialValues returns a copy of d that starts fits from vs.
func (d *Data) WithInitialValues(vs domain.Values) *Data {
	c := *d
	c.initial = vs.Clone()
	return &c
}

// ModelPoints samples the model over the measured x range.
func (d *Data) ModelPoints(params []float64) []float64 {
	return d.Model.ParamsToPoints(params, d.Measured.Len(), d.Measured.XStart, d.Measured.XEnd())
}

// ConvolvedPoints returns ModelPoints convolved with the instrument kernel.
func (d *Data) ConvolvedPoints(params []float64) ([]float64, error) {
	if d.convolver == nil {
		return nil, conv.CheckKernel(d.Instrument.Points)
	}
	return d.convolver.Convolve(d.ModelPoints(params))
}

// Residue implements fit.Problem. It is NaN when the points cannot be
// convolved or compared.
func (d *Data) Residue(params []float64) float64 {
	points := d.ModelPoints(params)
	if d.convolver == nil {
		return math.NaN()
	}
	convolved, err := d.convolver.Convolve(points)
	if err != nil {
		return math.NaN()
	}
	r, err := diff.Compute(d.Model.DiffType(), convolved, d.Measured.Points)
	if err != nil {
		return math.NaN()
	}
	if as := d.Model.Antispikes(); as != nil {
		r += as.Calc(d.Measured.Points, points)
	}
	return r
}

// IsValid implements fit.Problem: params must lie in their domains and
// satisfy the model's constraints.
func (d *Data) IsValid(params []float64) bool {
	return d.initial.Contains(params) && d.Model.IsValid(params)
}

// Deconvolve fits the model with alg.
func (d *Data) Deconvolve(alg fit.Algorithm) (fit.Result, error) {
	if err := d.AssertStepsAligned(); err != nil {
		return fit.Result{}, err
	}
	if err := conv.CheckKernel(d.Instrument.Points); err != nil {
		return fit.Result{}, fmt.Errorf("deconv: instrument: %w", err)
	}

	log := d.log.WithField("algorithm", alg.Name())
	log.Debug("fit started")
	res, err := alg.Fit(d)
	if err != nil {
		log.WithError(err).Debug("fit failed")
		return fit.Result{}, err
	}
	log.WithFields(logrus.Fields{"residue": res.Residue, "evals": res.Evals}).Debug("fit finished")
	return res, nil
}
