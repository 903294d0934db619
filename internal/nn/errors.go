package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrConfiguration  = errors.New("incompatible network configuration")
	ErrDegenerateData = errors.New("every target column is missing")
	ErrInvalidState   = errors.New("invalid layer state")

	// ErrNoOptimizer is returned by Network.Optimize when no optimizer is set.
	ErrNoOptimizer = fmt.Errorf("%w: no optimizer set", ErrInvalidState)
)

// ConfigError reports adjacent layers whose sizes do not chain.
type ConfigError struct {
	Index      int // Position of the downstream layer (0-based)
	OutputSize int // Output size of layer Index-1
	InputSize  int // Input size of layer Index
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: layer #%d output %d != layer #%d input %d",
		ErrConfiguration, e.Index, e.OutputSize, e.Index+1, e.InputSize)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
