package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cwbudde/algo-peakfit/internal/testutil"
	"github.com/cwbudde/algo-peakfit/mixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func nopLogger(bool) (*zap.Logger, error) { return zap.NewNop(), nil }

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCmd(nopLogger)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func writeTwoPeaks(t *testing.T, dir string) string {
	t.Helper()

	x := testutil.Grid(0, 10, 501)
	y := testutil.GaussianMixture(x, []float64{0.4, 0.6}, []float64{3, 7}, []float64{0.5, 0.5}, 1000)
	y = testutil.AddFloor(y, 1)

	var b strings.Builder
	b.WriteString("# synthetic two-peak spectrum\nx,intensity\n")

	for i := range x {
		fmt.Fprintf(&b, "%g,%g\n", x[i], y[i])
	}

	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	return path
}

func TestReadSamples(t *testing.T) {
	in := "# comment\nx, y, note\n0, 1, a\n0.5,2,b\n\n1,3,c\n"

	x, y, err := readSamples(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, x)
	assert.Equal(t, []float64{1, 2, 3}, y)
}

func TestReadSamplesWithoutHeader(t *testing.T) {
	x, y, err := readSamples(strings.NewReader("1,2\n3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, x)
	assert.Equal(t, []float64{2, 4}, y)
}

func TestReadSamplesErrors(t *testing.T) {
	_, _, err := readSamples(strings.NewReader("x,y\n1,2\n3,abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, _, err = readSamples(strings.NewReader("1,2\n3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2 columns")

	_, _, err = readSamples(strings.NewReader("# only comments\n"))
	assert.ErrorIs(t, err, errNoSamples)
}

func TestFitCommand(t *testing.T) {
	dir := t.TempDir()
	data := writeTwoPeaks(t, dir)

	out, err := execute(t, "fit", "--data", data, "--k", "2", "--trials", "3", "--parallel", "2",
		"--seed-peaks", "--curves", "--seed", "5")
	require.NoError(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))

	require.Len(t, rep.Trials, 3)
	assert.GreaterOrEqual(t, rep.Best, 0)
	require.Len(t, rep.Model.Mu, 2)
	assert.InDelta(t, 3, rep.Model.Mu[0], 0.05)
	assert.InDelta(t, 7, rep.Model.Mu[1], 0.05)
	require.Len(t, rep.Model.Domain, 2)
	assert.InDelta(t, 0, rep.Model.Domain[0], 1e-12)
	assert.InDelta(t, 10, rep.Model.Domain[1], 1e-9)
	assert.Equal(t, "uniform", rep.Model.Background.Kind)

	assert.Equal(t, 501, rep.Data.Samples)
	assert.InDelta(t, 10, rep.Data.Max, 1e-12)

	require.NotNil(t, rep.Curves)
	assert.Len(t, rep.Curves.X, 501)
	assert.Len(t, rep.Curves.Total, 501)
	assert.Len(t, rep.Curves.Components, 3)

	for i, tr := range rep.Trials {
		assert.Equal(t, i, tr.Index)
		assert.NotEmpty(t, tr.ID)
		assert.NotEmpty(t, tr.Status)
	}
}

func TestFitCommandFromConfig(t *testing.T) {
	dir := t.TempDir()
	data := writeTwoPeaks(t, dir)

	cfg := mixture.Config{
		Version:    mixture.ConfigVersion,
		K:          2,
		Mu:         []float64{2.5, 7.5},
		Sigma:      []float64{1, 1},
		Background: &mixture.BackgroundConfig{Kind: "linear"},
	}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))

	cfgPath := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(cfgPath, buf.Bytes(), 0o644))

	reportPath := filepath.Join(dir, "report.yaml")
	_, err := execute(t, "fit", "--data", data, "--config", cfgPath, "--out", reportPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal(raw, &rep))

	require.Len(t, rep.Trials, 1)
	assert.Equal(t, 0, rep.Best)
	assert.Equal(t, "converged", rep.Trials[0].Status)
	assert.Equal(t, "linear", rep.Model.Background.Kind)
	assert.InDelta(t, 3, rep.Model.Mu[0], 0.05)
	assert.InDelta(t, 7, rep.Model.Mu[1], 0.05)
	assert.Nil(t, rep.Curves)
}

func TestEvalCommandOnReport(t *testing.T) {
	dir := t.TempDir()
	data := writeTwoPeaks(t, dir)
	reportPath := filepath.Join(dir, "report.yaml")

	_, err := execute(t, "fit", "--data", data, "--k", "2", "--seed-peaks", "--out", reportPath)
	require.NoError(t, err)

	out, err := execute(t, "eval", "--params", reportPath, "--n", "11")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 12)
	assert.Equal(t, []string{"x", "total", "gaussian_0", "gaussian_1", "uniform_2"}, records[0])

	for _, rec := range records[1:] {
		total, err := strconv.ParseFloat(rec[1], 64)
		require.NoError(t, err)

		var sum float64
		for _, field := range rec[2:] {
			v, err := strconv.ParseFloat(field, 64)
			require.NoError(t, err)
			sum += v
		}

		assert.InDelta(t, total, sum, 1e-6*(1+total))
	}

	assert.Equal(t, "0", records[1][0])
	assert.Equal(t, "10", records[11][0])
}

func TestEvalCommandExplicitRange(t *testing.T) {
	dir := t.TempDir()

	cfg := mixture.Config{K: 1, Mu: []float64{0}, Sigma: []float64{1}, N: 2}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))

	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := execute(t, "eval", "--params", path)
	assert.ErrorIs(t, err, errNoRange)

	out, err := execute(t, "eval", "--params", path, "--from", "-1", "--to", "1", "--n", "3")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"x", "total", "gaussian_0"}, records[0])

	peak, err := strconv.ParseFloat(records[2][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 2*0.3989422804, peak, 1e-9)
}

func TestFitCommandErrors(t *testing.T) {
	_, err := execute(t, "fit")
	require.Error(t, err)

	_, err = execute(t, "fit", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	dir := t.TempDir()
	data := writeTwoPeaks(t, dir)

	_, err = execute(t, "fit", "--data", data, "--criterion", "chi2")
	require.Error(t, err)

	_, err = execute(t, "fit", "--data", data, "--background", "gaussian")
	assert.ErrorIs(t, err, mixture.ErrUnsupportedBackground)
}
