package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerFactory builds the command logger.
type loggerFactory func(verbose bool) (*zap.Logger, error)

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

// app carries state shared by the subcommands.
type app struct {
	verbose    bool
	log        *zap.Logger
	newLoggerF loggerFactory
}

func newRootCmd(factory loggerFactory) *cobra.Command {
	a := &app{log: zap.NewNop(), newLoggerF: factory}

	root := &cobra.Command{
		Use:   "peakfit",
		Short: "Fit Gaussian peak mixtures to (x, intensity) data",
		Long: `peakfit fits a mixture of Gaussian peaks plus an optional background shape
to two-column data using Expectation-Maximization, refines the overall
intensity scale by least squares and keeps the best of several random starts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLoggerF(a.verbose)
			if err != nil {
				return err
			}

			a.log = logger

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every EM iteration")

	root.AddCommand(newFitCmd(a), newEvalCmd(a))

	return root
}
