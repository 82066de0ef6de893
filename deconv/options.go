package deconv

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ConvolutionMethod selects how model points are convolved with the kernel.
type ConvolutionMethod int

const (
	// ConvDirect sums in a fixed order and is bit-reproducible.
	ConvDirect ConvolutionMethod = iota
	// ConvFFT uses overlap-add FFT convolution; faster for long kernels.
	ConvFFT
)

// String returns the configuration name of m.
func (m ConvolutionMethod) String() string {
	switch m {
	case ConvDirect:
		return "direct"
	case ConvFFT:
		return "fft"
	default:
		return fmt.Sprintf("ConvolutionMethod(%d)", int(m))
	}
}

// ParseConvolutionMethod maps "direct" or "fft" to a ConvolutionMethod.
func ParseConvolutionMethod(s string) (ConvolutionMethod, error) {
	switch s {
	case "direct", "":
		return ConvDirect, nil
	case "fft":
		return ConvFFT, nil
	default:
		return 0, fmt.Errorf("deconv: unknown convolution method %q", s)
	}
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

type config struct {
	convolution ConvolutionMethod
	logger      logrus.FieldLogger
}

func defaultConfig() config {
	return config{convolution: ConvDirect}
}

// Option configures a [Data].
type Option func(*config) error

// WithConvolution selects the convolution backend (default [ConvDirect]).
func WithConvolution(m ConvolutionMethod) Option {
	return func(cfg *config) error {
		if m != ConvDirect && m != ConvFFT {
			return fmt.Errorf("deconv: invalid convolution method: %d", m)
		}
		cfg.convolution = m
		return nil
	}
}

// WithLogger sets the logger used for fit progress. Nothing is logged by default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}
