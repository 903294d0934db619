package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic string")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrMalformed          = errors.New("malformed checkpoint")
	ErrParameterMismatch  = errors.New("checkpoint does not match parameters")
)

// MismatchError describes a tensor that cannot be restored into its parameter.
type MismatchError struct {
	Index   int    // Position of the parameter
	Name    string // Name of the parameter
	Details string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("parameter #%d %q: %s", e.Index, e.Name, e.Details)
}

// Unwrap returns ErrParameterMismatch.
func (e *MismatchError) Unwrap() error { return ErrParameterMismatch }
