package mixture

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/algo-peakfit/peak"
	"gopkg.in/yaml.v3"
)

// ConfigVersion is the parameter layout written by [Model.Export].
const ConfigVersion = 1

const backgroundNone = "none"

// BackgroundConfig selects and parameterises the background shape.
type BackgroundConfig struct {
	// Kind is one of uniform, sqrt, linear, ramp, triangle or none.
	Kind string `yaml:"kind" json:"kind"`

	// Lo and Hi give the initial support. Both zero means [0, 1] until the
	// first fit rebinds the background to the data range.
	Lo float64 `yaml:"lo,omitempty" json:"lo,omitempty"`
	Hi float64 `yaml:"hi,omitempty" json:"hi,omitempty"`

	// Slope of a linear background, in [-1, 1].
	Slope float64 `yaml:"slope,omitempty" json:"slope,omitempty"`

	// Mode of a triangle background. Nil centres it.
	Mode *float64 `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Falling selects a ramp whose apex sits at Lo.
	Falling bool `yaml:"falling,omitempty" json:"falling,omitempty"`
}

// Config is the explicit, versioned parameter set of a Model. It is used both
// to construct models and to export fitted parameters.
type Config struct {
	Version int `yaml:"version" json:"version"`

	// K is the number of Gaussian signal components.
	K int `yaml:"k" json:"k"`

	// Mu and Sigma give initial locations and widths, one per signal
	// component. Empty slices leave the model to a random start.
	Mu    []float64 `yaml:"mu,omitempty" json:"mu,omitempty"`
	Sigma []float64 `yaml:"sigma,omitempty" json:"sigma,omitempty"`

	// Pi gives mixing weights for every component including the background.
	// They are normalised on apply.
	Pi []float64 `yaml:"pi,omitempty" json:"pi,omitempty"`

	// N is the overall intensity scale. Zero means 1.
	N float64 `yaml:"n,omitempty" json:"n,omitempty"`

	// Seed drives the random initialisation.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Domain is the [lo, hi] data range the parameters refer to. Fitting
	// replaces it with the observed range.
	Domain []float64 `yaml:"domain,omitempty" json:"domain,omitempty"`

	// MuBounds and SigmaBounds pin the Gaussian parameter ranges as
	// [lo, hi]. Empty bounds follow the data domain.
	MuBounds    []float64 `yaml:"mu_bounds,omitempty" json:"mu_bounds,omitempty"`
	SigmaBounds []float64 `yaml:"sigma_bounds,omitempty" json:"sigma_bounds,omitempty"`

	Background *BackgroundConfig `yaml:"background,omitempty" json:"background,omitempty"`
}

// BackgroundKind resolves the configured background kind. ok is false when
// no background is configured.
func (c Config) BackgroundKind() (kind peak.Kind, ok bool, err error) {
	if c.Background == nil {
		return 0, false, nil
	}

	name := strings.TrimSpace(c.Background.Kind)
	if name == "" || strings.EqualFold(name, backgroundNone) {
		return 0, false, nil
	}

	kind, err = peak.ParseKind(name)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrUnsupportedBackground, err)
	}

	if !kind.IsBackground() {
		return 0, false, fmt.Errorf("%w: %s", ErrUnsupportedBackground, kind)
	}

	return kind, true, nil
}

// Components returns the total component count, K plus the background.
func (c Config) Components() int {
	if _, ok, err := c.BackgroundKind(); ok && err == nil {
		return c.K + 1
	}

	return c.K
}

// Validate checks the configuration without building a model.
func (c Config) Validate() error {
	if err := c.validateHeader(); err != nil {
		return err
	}

	if _, _, err := c.BackgroundKind(); err != nil {
		return err
	}

	return c.validateParams()
}

func (c Config) validateHeader() error {
	if c.Version < 0 || c.Version > ConfigVersion {
		return fmt.Errorf("%w: %d (supported: %d)", ErrUnsupportedVersion, c.Version, ConfigVersion)
	}

	if c.K < 1 {
		return fmt.Errorf("%w: k must be >= 1: %d", ErrInvalidConfig, c.K)
	}

	return nil
}

//nolint:cyclop
func (c Config) validateParams() error {
	if len(c.Mu) != 0 && len(c.Mu) != c.K {
		return fmt.Errorf("%w: mu has %d entries, want %d", ErrInvalidConfig, len(c.Mu), c.K)
	}

	for i, v := range c.Mu {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: mu[%d] is not finite", ErrInvalidConfig, i)
		}
	}

	if len(c.Sigma) != 0 && len(c.Sigma) != c.K {
		return fmt.Errorf("%w: sigma has %d entries, want %d", ErrInvalidConfig, len(c.Sigma), c.K)
	}

	for i, v := range c.Sigma {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sigma[%d] must be > 0: %v", ErrInvalidConfig, i, v)
		}
	}

	if n := c.Components(); len(c.Pi) != 0 && len(c.Pi) != n {
		return fmt.Errorf("%w: pi has %d entries, want %d", ErrInvalidConfig, len(c.Pi), n)
	}

	if len(c.Pi) != 0 {
		if err := validateWeights(c.Pi); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if c.N < 0 || math.IsNaN(c.N) || math.IsInf(c.N, 0) {
		return fmt.Errorf("%w: n must be finite and >= 0: %v", ErrInvalidConfig, c.N)
	}

	if err := validateBounds("domain", c.Domain, false); err != nil {
		return err
	}

	if err := validateBounds("mu_bounds", c.MuBounds, false); err != nil {
		return err
	}

	if err := validateBounds("sigma_bounds", c.SigmaBounds, true); err != nil {
		return err
	}

	if bg := c.Background; bg != nil {
		if bg.Lo > bg.Hi {
			return fmt.Errorf("%w: background lo > hi: %v > %v", ErrInvalidConfig, bg.Lo, bg.Hi)
		}

		if bg.Slope < -1 || bg.Slope > 1 {
			return fmt.Errorf("%w: background slope must be in [-1,1]: %v", ErrInvalidConfig, bg.Slope)
		}
	}

	return nil
}

func validateBounds(name string, b []float64, positive bool) error {
	if len(b) == 0 {
		return nil
	}

	if len(b) != 2 {
		return fmt.Errorf("%w: %s needs 2 entries, got %d", ErrInvalidConfig, name, len(b))
	}

	if math.IsNaN(b[0]) || math.IsNaN(b[1]) || b[0] >= b[1] {
		return fmt.Errorf("%w: %s must satisfy lo < hi: %v", ErrInvalidConfig, name, b)
	}

	if positive && !(b[0] > 0) {
		return fmt.Errorf("%w: %s must be positive: %v", ErrInvalidConfig, name, b)
	}

	return nil
}

func validateWeights(w []float64) error {
	var sum float64

	for i, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weight %d = %v", ErrInvalidWeights, i, v)
		}

		sum += v
	}

	if !(sum > 0) {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidWeights, sum)
	}

	return nil
}

// ParseConfig decodes a YAML (or JSON) configuration and validates it.
// Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("mixture: read config: %w", err)
	}

	return ParseConfig(data)
}

// WriteYAML encodes c as YAML.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("mixture: encode config: %w", err)
	}

	return enc.Close()
}
