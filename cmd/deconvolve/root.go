package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-deconv/deconv/config"
	"github.com/cwbudde/algo-deconv/deconv/fit"
	"github.com/cwbudde/algo-deconv/deconv/model"
	"github.com/cwbudde/algo-deconv/deconv/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errNoInstrument = errors.New("no instrument file: set --instrument or instrument in the config")

type options struct {
	configPath string
	instrument string
	outputDir  string
	seed       int64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "deconvolve [flags] measured-file ...",
		Short:         "Fit parametric models to measured spectra",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded := cmd.Flags().Changed("seed")
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, seeded, args)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "deconvolve.yaml", "run description")
	f.StringVarP(&opts.instrument, "instrument", "i", "", "instrument function file, overrides the config")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for results, defaults to each measured file's directory")
	f.Int64Var(&opts.seed, "seed", 0, "seed for randomised restarts and differential evolution (default: time based)")
	f.StringVar(&opts.logLevel, "log-level", logrus.InfoLevel.String(), "panic, fatal, error, warn, info, debug or trace")

	root.AddCommand(newVariantsCmd())
	return root
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List model variant names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, name := range model.Variants() {
				suffix := ""
				if err := model.CheckSupported(name); err != nil {
					suffix = " (unsupported)"
				}
				if _, err := fmt.Fprintf(w, "%s%s\n", name, suffix); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

func run(stdout, stderr io.Writer, opts options, seeded bool, measured []string) error {
	log, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.configPath, err)
	}

	instrument := cfg.Instrument
	if instrument != "" && !filepath.IsAbs(instrument) {
		instrument = filepath.Join(filepath.Dir(opts.configPath), instrument)
	}
	if opts.instrument != "" {
		instrument = opts.instrument
	}
	if instrument == "" {
		return errNoInstrument
	}

	seed := opts.seed
	if !seeded {
		seed = time.Now().UnixNano()
	}
	log.WithField("seed", seed).Debug("random source")

	alg := fit.WithLogger(cfg.Algorithm, log)
	if de, ok := alg.(fit.DifferentialEvolution); ok {
		de.Rand = rand.New(rand.NewSource(seed))
		alg = de
	}
	cfg.Algorithm = alg
	cfg.Restarts.Rand = rand.New(rand.NewSource(seed))

	j := job{cfg: cfg, instrument: instrument, outputDir: opts.outputDir, log: log}
	for _, path := range measured {
		out, err := j.process(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		msg := report.GoodnessMessage(out.goodness, cfg.SignificantDigits)
		if _, err := fmt.Fprintf(stdout, "%s: %s\n", path, msg); err != nil {
			return err
		}
	}
	return nil
}
