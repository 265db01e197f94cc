package mixture

import "errors"

// Errors returned by model construction and configuration.
var (
	ErrInvalidConfig         = errors.New("mixture: invalid configuration")
	ErrUnsupportedVersion    = errors.New("mixture: unsupported configuration version")
	ErrUnsupportedBackground = errors.New("mixture: unsupported background kind")
	ErrInvalidWeights        = errors.New("mixture: invalid mixing weights")
	ErrComponentIndex        = errors.New("mixture: component index out of range")
)
