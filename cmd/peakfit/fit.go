package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-peakfit/fit"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/cwbudde/algo-peakfit/stats/sample"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type fitOptions struct {
	data       string
	config     string
	k          int
	background string
	seed       int64

	trials    int
	criterion string
	parallel  int

	maxIter       int
	eps           float64
	maxRecoveries int
	seedPeaks     bool

	out    string
	curves bool
}

func newFitCmd(a *app) *cobra.Command {
	o := &fitOptions{}

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a peak mixture to CSV samples",
		Long: `Fit reads two-column CSV samples, fits the model described by --config (or
by --k and --background) and writes a YAML report with the fitted
parameters and a summary of every trial.

A configuration with explicit peak locations and a single trial is fitted
from those locations; otherwise every trial starts from a random point.`,
		Example: `
# Two peaks on a linear background, best of 8 random starts
peakfit fit --data spectrum.csv --k 2 --background linear --trials 8

# Start from a saved model and include per-component curves in the report
peakfit fit --data spectrum.csv --config model.yaml --curves --out report.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if o.out != "" && o.out != "-" {
				f, err := os.Create(o.out)
				if err != nil {
					return fmt.Errorf("create report: %w", err)
				}
				defer f.Close()

				out = f
			}

			return runFit(a.log, a.verbose, o, out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.data, "data", "d", "", "two-column CSV with x and intensity (required)")
	f.StringVarP(&o.config, "config", "c", "", "YAML model configuration; overrides --k, --background and --seed")
	f.IntVar(&o.k, "k", 1, "number of Gaussian peaks")
	f.StringVar(&o.background, "background", "uniform", "background shape: uniform, sqrt, linear, ramp, triangle or none")
	f.Int64Var(&o.seed, "seed", 0, "random seed")
	f.IntVarP(&o.trials, "trials", "t", 1, "number of random starts")
	f.StringVar(&o.criterion, "criterion", "likelihood", "trial selection: likelihood or rmse")
	f.IntVarP(&o.parallel, "parallel", "p", 1, "trials run concurrently")
	f.IntVar(&o.maxIter, "max-iter", fit.DefaultConfig().MaxIterations, "EM iteration cap")
	f.Float64Var(&o.eps, "eps", fit.DefaultConfig().RelativeEpsilon, "relative log-likelihood convergence threshold")
	f.IntVar(&o.maxRecoveries, "max-recoveries", fit.DefaultConfig().MaxRecoveries, "random restarts allowed per fit on unstable steps")
	f.BoolVar(&o.seedPeaks, "seed-peaks", false, "seed the first trial from detected peaks")
	f.StringVarP(&o.out, "out", "o", "", "report file (default stdout)")
	f.BoolVar(&o.curves, "curves", false, "include per-component curves on the data grid")

	_ = cmd.MarkFlagRequired("data")

	return cmd
}

// fitOnce fits m from its configured starting point.
func fitOnce(m *mixture.Model, x, y []float64, opts []fit.Option) (fit.SampleResult, error) {
	info, err := fit.New(opts...).Fit(m, x, y)
	if err != nil {
		return fit.SampleResult{Best: -1}, err
	}

	trial := fit.Trial{Index: 0, ID: uuid.New(), Info: info, Params: m.Export()}

	return fit.SampleResult{Trials: []fit.Trial{trial}, Best: 0}, nil
}

func (o *fitOptions) modelConfig() (mixture.Config, error) {
	if o.config != "" {
		return loadParams(o.config)
	}

	cfg := mixture.Config{
		Version:    mixture.ConfigVersion,
		K:          o.k,
		Seed:       o.seed,
		Background: &mixture.BackgroundConfig{Kind: o.background},
	}

	return cfg, cfg.Validate()
}

func runFit(log *zap.Logger, verbose bool, o *fitOptions, out io.Writer) error {
	x, y, err := readSamplesFile(o.data)
	if err != nil {
		return err
	}

	criterion, err := fit.ParseCriterion(o.criterion)
	if err != nil {
		return err
	}

	cfg, err := o.modelConfig()
	if err != nil {
		return err
	}

	m, err := mixture.New(cfg)
	if err != nil {
		return err
	}

	opts := []fit.Option{
		fit.WithLogger(log),
		fit.WithVerbose(verbose),
		fit.WithMaxIterations(o.maxIter),
		fit.WithRelativeEpsilon(o.eps),
		fit.WithMaxRecoveries(o.maxRecoveries),
	}

	if o.seedPeaks {
		opts = append(opts, fit.WithPeakSeeding())
	}

	log.Info("fitting",
		zap.String("data", o.data),
		zap.Int("samples", len(x)),
		zap.Int("components", m.Len()),
		zap.Int("trials", o.trials),
	)

	var res fit.SampleResult

	if m.Initialized() && o.trials <= 1 {
		res, err = fitOnce(m, x, y, opts)
	} else {
		res, err = fit.NewSampler(fit.SamplerConfig{
			Trials:    o.trials,
			Criterion: criterion,
			Parallel:  o.parallel,
			Seed:      cfg.Seed,
		}, opts...).Run(m, x, y)
	}

	if err != nil {
		return err
	}

	rep := newReport(m, res, sample.Summarize(x, y))
	if o.curves {
		rep.Curves = newCurves(m, x)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)

	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return enc.Close()
}
