package matrix

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrOutOfRange    = errors.New("index out of range")
	ErrAliased       = errors.New("output aliases an input")
)

// ShapeError describes operand dimensions that do not agree.
type ShapeError struct {
	Op   string // Operation that failed (e.g., "add", "accumulate")
	Want [2]int // Expected rows, cols
	Got  [2]int // Actual rows, cols
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: want [%d,%d], got [%d,%d]",
		e.Op, ErrShapeMismatch, e.Want[0], e.Want[1], e.Got[0], e.Got[1])
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeError(op string, wantRows, wantCols, gotRows, gotCols int) error {
	return &ShapeError{Op: op, Want: [2]int{wantRows, wantCols}, Got: [2]int{gotRows, gotCols}}
}
