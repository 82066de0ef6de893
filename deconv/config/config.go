// Package config loads deconvolution runs from YAML.
//
// A file names exactly one model variant under "deconvolution" and exactly
// one engine under "fit_algorithm":
//
//	instrument: instrument.dat
//	steps_align: smaller          # or bigger
//	convolution: direct           # or fft
//	output:
//	  significant_digits: 6
//	restarts:
//	  attempts: 5
//	  random_scale: 2
//	  residue_goal: 0.01
//	deconvolution:
//	  SatExp_DecExp:
//	    diff_function_type: DySqr
//	    initial_values: "amplitude=1>0, shift=0, tau_a=1>0, tau_b=5>0"
//	fit_algorithm:
//	  pattern_search:
//	    initial_step: 1
//	    min_step: 1e-4
//	    alpha: 1.1
//	    fit_residue_evals_max: 1000000
//	    fit_residue_max_value: 1e6
//
// Every error is a [*Error] carrying the key path it refers to.
package config

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-deconv/deconv"
	"github.com/cwbudde/algo-deconv/deconv/domain"
	"github.com/cwbudde/algo-deconv/deconv/fit"
	"github.com/cwbudde/algo-deconv/deconv/model"
	"github.com/cwbudde/algo-deconv/dsp/conv"
	"github.com/cwbudde/algo-deconv/dsp/diff"
	"gopkg.in/yaml.v3"
)

// Defaults for optional keys.
const (
	// DefaultSignificantDigits is used when output.significant_digits is absent.
	DefaultSignificantDigits = 6
	// DefaultRandomScale is used when restarts.random_scale is absent.
	DefaultRandomScale = 2.0
)

// Config is a loaded run description.
type Config struct {
	// Instrument is the instrument file path; empty when not configured.
	Instrument        string
	StepsAlign        deconv.AlignDirection
	Convolution       deconv.ConvolutionMethod
	SignificantDigits int
	// Restarts has no Rand; the caller seeds it.
	Restarts  deconv.Restarts
	Model     model.Model
	Algorithm fit.Algorithm
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Err: err}
	}
	return Parse(b)
}

// Parse parses a YAML document.
func Parse(b []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Config{}, &Error{Err: err}
	}
	root, err := newSection(nil, &doc)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if cfg.Instrument, err = root.stringOr("instrument", ""); err != nil {
		return Config{}, err
	}

	align, err := root.stringOr("steps_align", deconv.AlignSmaller.String())
	if err != nil {
		return Config{}, err
	}
	if cfg.StepsAlign, err = deconv.ParseAlignDirection(align); err != nil {
		return Config{}, root.errorf("steps_align", err)
	}

	method, err := root.stringOr("convolution", deconv.ConvDirect.String())
	if err != nil {
		return Config{}, err
	}
	if cfg.Convolution, err = deconv.ParseConvolutionMethod(method); err != nil {
		return Config{}, root.errorf("convolution", err)
	}

	cfg.SignificantDigits = DefaultSignificantDigits
	if root.has("output") {
		out, err := root.sub("output")
		if err != nil {
			return Config{}, err
		}
		if cfg.SignificantDigits, err = out.intOr("significant_digits", DefaultSignificantDigits); err != nil {
			return Config{}, err
		}
		if cfg.SignificantDigits < 1 {
			return Config{}, out.errorf("significant_digits", fmt.Errorf("must be >= 1, got %d", cfg.SignificantDigits))
		}
		if err := out.done(); err != nil {
			return Config{}, err
		}
	}

	cfg.Restarts = deconv.Restarts{Attempts: 1, RandomScale: DefaultRandomScale}
	if root.has("restarts") {
		if cfg.Restarts, err = parseRestarts(root); err != nil {
			return Config{}, err
		}
	}

	dec, err := root.sub("deconvolution")
	if err != nil {
		return Config{}, err
	}
	if cfg.Model, err = parseModel(dec); err != nil {
		return Config{}, err
	}

	alg, err := root.sub("fit_algorithm")
	if err != nil {
		return Config{}, err
	}
	if cfg.Algorithm, err = parseAlgorithm(alg); err != nil {
		return Config{}, err
	}

	if err := root.done(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseRestarts(root *section) (deconv.Restarts, error) {
	s, err := root.sub("restarts")
	if err != nil {
		return deconv.Restarts{}, err
	}
	var r deconv.Restarts
	if r.Attempts, err = s.int("attempts"); err != nil {
		return r, err
	}
	if r.RandomScale, err = s.floatOr("random_scale", DefaultRandomScale); err != nil {
		return r, err
	}
	if !(r.RandomScale > 1) {
		return r, s.errorf("random_scale", fmt.Errorf("%w: got %v", deconv.ErrRandomScale, r.RandomScale))
	}
	if r.ResidueGoal, err = s.floatOr("residue_goal", 0); err != nil {
		return r, err
	}
	return r, s.done()
}

func parseModel(dec *section) (model.Model, error) {
	name, s, err := dec.only()
	if err != nil {
		return nil, err
	}
	if err := model.CheckSupported(name); err != nil {
		return nil, &Error{Path: s.path, Err: err}
	}

	dt, err := parseDiffType(s, "diff_function_type")
	if err != nil {
		return nil, err
	}

	var m model.Model
	switch name {
	case model.NamePerPoint:
		m, err = parsePerPoint(s, dt)
	case model.NameSatExpDecExpPlusConst:
		var initial domain.Values
		if initial, err = parseInitialValues(s); err != nil {
			return nil, err
		}
		var allow bool
		if allow, err = s.boolOr("allow_tb_less_than_ta", false); err != nil {
			return nil, err
		}
		m = model.SatExpDecExpPlusConst{Diff: dt, Initial: initial, AllowTbLessThanTa: allow}
	default:
		var initial domain.Values
		if initial, err = parseInitialValues(s); err != nil {
			return nil, err
		}
		m = closedForm(name, dt, initial)
	}
	if err != nil {
		return nil, err
	}
	return m, s.done()
}

func closedForm(name string, dt diff.Type, initial domain.Values) model.Model {
	switch name {
	case model.NameExponents:
		return model.Exponents{Diff: dt, Initial: initial}
	case model.NameSatExpDecExp:
		return model.SatExpDecExp{Diff: dt, Initial: initial}
	case model.NameTwoSatExpDecExp:
		return model.TwoSatExpDecExp{Diff: dt, Initial: initial}
	case model.NameSatExpTwoDecExp:
		return model.SatExpTwoDecExp{Diff: dt, Initial: initial}
	case model.NameSatExpTwoDecExpPlusConst:
		return model.SatExpTwoDecExpPlusConst{Diff: dt, Initial: initial}
	case model.NameSatExpTwoDecExpSeparateConsts:
		return model.SatExpTwoDecExpSeparateConsts{Diff: dt, Initial: initial}
	default:
		panic(fmt.Sprintf("config: variant %q passed CheckSupported but has no loader", name))
	}
}

func parsePerPoint(s *section, dt diff.Type) (model.Model, error) {
	m := model.PerPoint{Diff: dt}

	var err error
	if m.InitialValue, err = s.floatOr("initial_value", 0); err != nil {
		return nil, err
	}
	if n, ok := s.lookup("initial_values"); ok {
		if m.Initial, err = floatList(s, "initial_values", n); err != nil {
			return nil, err
		}
	}

	if s.has("antispikes") {
		as, err := s.sub("antispikes")
		if err != nil {
			return nil, err
		}
		name, err := as.string("type")
		if err != nil {
			return nil, err
		}
		t, err := diff.ParseRoughnessType(name)
		if err != nil {
			return nil, as.errorf("type", err)
		}
		coef, err := as.float("coef")
		if err != nil {
			return nil, err
		}
		if err := as.done(); err != nil {
			return nil, err
		}
		m.Penalty = &diff.Antispikes{Type: t, Coef: coef}
	}

	if s.has("initial_estimate") {
		est, err := parseEstimate(s)
		if err != nil {
			return nil, err
		}
		m.InitialEstimate = &est
	}
	return m, nil
}

func parseEstimate(parent *section) (conv.DeconvOptions, error) {
	s, err := parent.sub("initial_estimate")
	if err != nil {
		return conv.DeconvOptions{}, err
	}
	opts := conv.DefaultDeconvOptions()

	method, err := s.stringOr("method", "regularized")
	if err != nil {
		return opts, err
	}
	switch method {
	case "regularized":
		opts.Method = conv.DeconvRegularized
	case "wiener":
		opts.Method = conv.DeconvWiener
	case "naive":
		opts.Method = conv.DeconvNaive
	default:
		return opts, s.errorf("method", fmt.Errorf("%w: %q", conv.ErrInvalidMethod, method))
	}
	if opts.Epsilon, err = s.floatOr("epsilon", opts.Epsilon); err != nil {
		return opts, err
	}
	if opts.NoiseVariance, err = s.floatOr("noise_variance", 0); err != nil {
		return opts, err
	}
	if opts.SignalVariance, err = s.floatOr("signal_variance", 0); err != nil {
		return opts, err
	}
	return opts, s.done()
}

// parseInitialValues accepts a list of numbers or a "name=value, ..." string.
func parseInitialValues(s *section) (domain.Values, error) {
	n, err := s.require("initial_values")
	if err != nil {
		return nil, err
	}
	switch {
	case n.Kind == yaml.SequenceNode:
		xs, err := floatList(s, "initial_values", n)
		if err != nil {
			return nil, err
		}
		return domain.FromFloats(nil, xs), nil
	case n.Kind == yaml.ScalarNode && n.Tag == "!!str":
		vs, err := domain.Parse(n.Value)
		if err != nil {
			return nil, s.errorf("initial_values", err)
		}
		return vs, nil
	default:
		return nil, s.errorf("initial_values", fmt.Errorf("%w: expected a list of numbers or a string, got %s", ErrWrongType, kindName(n)))
	}
}

func floatList(s *section, key string, n *yaml.Node) ([]float64, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, s.errorf(key, fmt.Errorf("%w: expected a list of numbers, got %s", ErrWrongType, kindName(n)))
	}
	out := make([]float64, len(n.Content))
	for i, item := range n.Content {
		if item.Kind != yaml.ScalarNode || item.Decode(&out[i]) != nil {
			return nil, &Error{Path: s.at(fmt.Sprintf("%s[%d]", key, i)), Err: fmt.Errorf("%w: expected a number, got %s", ErrWrongType, kindName(item))}
		}
	}
	return out, nil
}

func parseDiffType(s *section, key string) (diff.Type, error) {
	name, err := s.string(key)
	if err != nil {
		return 0, err
	}
	t, err := diff.ParseType(name)
	if err != nil {
		return 0, s.errorf(key, err)
	}
	if err := diff.Check(t); err != nil {
		return 0, s.errorf(key, err)
	}
	return t, nil
}
