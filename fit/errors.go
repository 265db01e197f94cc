package fit

import "errors"

// Errors returned by fitting functions.
var (
	ErrInvalidInput     = errors.New("fit: invalid input")
	ErrInsufficientData = errors.New("fit: insufficient data")
	ErrNoValidTrial     = errors.New("fit: no valid trial")
)
