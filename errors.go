package stne

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .stne.yaml or .stne.toml is found.
	ErrConfigNotFound = errors.New("stne: no .stne.yaml found")

	// ErrInvalidConfig is returned when a config file holds unusable settings.
	ErrInvalidConfig = errors.New("stne: invalid config")

	// ErrBeautify wraps failures reported by the beautifier.
	ErrBeautify = errors.New("stne: beautify failed")
)
