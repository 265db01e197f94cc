// Command peakfit fits Gaussian peak mixtures with an optional background to
// two-column (x, intensity) data.
//
// Usage:
//
//	peakfit fit --data samples.csv [flags]
//	peakfit eval --params fitted.yaml --from 0 --to 10 --n 501
//
// Examples:
//
//	peakfit fit --data spectrum.csv --k 3 --background linear --trials 8 --parallel 4
//	peakfit fit --data spectrum.csv --config model.yaml --out report.yaml --curves
//	peakfit eval --params model.yaml --n 1001 > curves.csv
//
// The fit report is YAML; its model section can be fed back to fit --config
// or to eval --params.
package main

import "os"

func main() {
	if err := newRootCmd(newLogger).Execute(); err != nil {
		os.Exit(1)
	}
}
