package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errNoRange = errors.New("no evaluation range: set --from and --to or a domain in the parameter file")

type evalOptions struct {
	params   string
	from, to float64
	n        int
}

func newEvalCmd(a *app) *cobra.Command {
	o := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a fitted model on a grid as CSV",
		Long: `Eval loads model parameters (a model configuration or the model section of a
fit report) and prints one CSV line per grid point with the total intensity
and the intensity of every component.`,
		Example: `
peakfit eval --params model.yaml --from 0 --to 10 --n 501
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(a.log, o, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.params, "params", "", "model parameter file (required)")
	f.Float64Var(&o.from, "from", 0, "grid start (default: model domain)")
	f.Float64Var(&o.to, "to", 0, "grid end (default: model domain)")
	f.IntVarP(&o.n, "n", "n", 201, "number of grid points")

	_ = cmd.MarkFlagRequired("params")

	return cmd
}

// modelFile accepts either a bare configuration or a fit report.
type modelFile struct {
	Model *mixture.Config `yaml:"model"`
}

// loadParams reads a model configuration, falling back to the model section
// of a fit report.
func loadParams(path string) (mixture.Config, error) {
	cfg, err := mixture.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}

	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return mixture.Config{}, err
	}

	var file modelFile
	if rerr := yaml.Unmarshal(data, &file); rerr != nil || file.Model == nil {
		return mixture.Config{}, err
	}

	if verr := file.Model.Validate(); verr != nil {
		return mixture.Config{}, verr
	}

	return *file.Model, nil
}

func runEval(log *zap.Logger, o *evalOptions, out io.Writer) error {
	cfg, err := loadParams(o.params)
	if err != nil {
		return err
	}

	m, err := mixture.New(cfg)
	if err != nil {
		return err
	}

	lo, hi := o.from, o.to
	if lo == hi {
		if len(cfg.Domain) != 2 {
			return errNoRange
		}

		lo, hi = cfg.Domain[0], cfg.Domain[1]
	}

	if o.n < 2 {
		return fmt.Errorf("--n must be >= 2: %d", o.n)
	}

	x := make([]float64, o.n)
	for i := range x {
		x[i] = lo + (hi-lo)*float64(i)/float64(o.n-1)
	}

	log.Debug("evaluating", zap.String("params", o.params), zap.Float64("from", lo), zap.Float64("to", hi), zap.Int("n", o.n))

	total := m.Intensity(x)
	comps := make([][]float64, m.Len())

	header := []string{"x", "total"}

	for k, c := range m.Components() {
		comps[k], err = m.ComponentPredict(k, x)
		if err != nil {
			return err
		}

		header = append(header, fmt.Sprintf("%s_%d", c.Kind(), k))
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	row := make([]string, len(header))
	for i, xi := range x {
		row[0] = formatFloat(xi)
		row[1] = formatFloat(total[i])

		for k := range comps {
			row[2+k] = formatFloat(comps[k][i])
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
