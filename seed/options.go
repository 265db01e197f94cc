package seed

// Config controls peak location.
type Config struct {
	// Smoothing is the Gaussian smoothing width in samples. Zero selects
	// len(x)/100, clamped to [1, 25].
	Smoothing float64

	// MinSeparation is the minimum distance in x between two picked peaks.
	// Zero selects span/(4k).
	MinSeparation float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns automatic smoothing and separation.
func DefaultConfig() Config {
	return Config{}
}

// WithSmoothing sets the smoothing width in samples.
func WithSmoothing(samples float64) Option {
	return func(cfg *Config) {
		if samples > 0 {
			cfg.Smoothing = samples
		}
	}
}

// WithMinSeparation sets the minimum peak distance in x units.
func WithMinSeparation(dx float64) Option {
	return func(cfg *Config) {
		if dx > 0 {
			cfg.MinSeparation = dx
		}
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
