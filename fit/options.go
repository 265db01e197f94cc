package fit

import (
	"math"

	"github.com/cwbudde/algo-peakfit/seed"
	"go.uber.org/zap"
)

// Config defines the EM fit settings.
type Config struct {
	// MaxIterations bounds the EM loop.
	MaxIterations int

	// RelativeEpsilon is the convergence threshold on the relative
	// log-likelihood change.
	RelativeEpsilon float64

	// MaxRecoveries is the number of random re-initialisations allowed per
	// fit. Once spent, unstable steps are accepted.
	MaxRecoveries int

	// Verbose enables per-iteration debug logging.
	Verbose bool

	// Logger receives fit events. Never nil after ApplyOptions.
	Logger *zap.Logger

	// PeakSeeding places Gaussian locations on detected peaks before the
	// first iteration.
	PeakSeeding bool
	SeedOptions []seed.Option

	// RefineScale enables the least-squares fit of the intensity scale.
	RefineScale bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default fit settings.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   3000,
		RelativeEpsilon: 1e-9,
		MaxRecoveries:   10,
		Logger:          zap.NewNop(),
		RefineScale:     true,
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithRelativeEpsilon sets the convergence threshold.
func WithRelativeEpsilon(eps float64) Option {
	return func(cfg *Config) {
		if eps > 0 && !math.IsInf(eps, 0) {
			cfg.RelativeEpsilon = eps
		}
	}
}

// WithMaxRecoveries sets the recovery budget. Zero disables recovery.
func WithMaxRecoveries(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.MaxRecoveries = n
		}
	}
}

// WithVerbose toggles per-iteration debug logging.
func WithVerbose(verbose bool) Option {
	return func(cfg *Config) {
		cfg.Verbose = verbose
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// WithPeakSeeding enables peak-seeded initial locations.
func WithPeakSeeding(opts ...seed.Option) Option {
	return func(cfg *Config) {
		cfg.PeakSeeding = true
		cfg.SeedOptions = opts
	}
}

// WithoutScaleRefinement skips the least-squares fit and sets the intensity
// scale to the trapezoidal integral of the observed intensity.
func WithoutScaleRefinement() Option {
	return func(cfg *Config) {
		cfg.RefineScale = false
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
