// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package matrix

import (
	"math/rand"

	"github.com/born-ml/dense/internal/matrix"
)

// Matrix is a dense column-major float32 matrix.
type Matrix = matrix.Matrix

// Backend performs the BLAS-style primitives used by matrix products.
type Backend = matrix.Backend

// Transpose selects whether an operand is used as stored or transposed.
type Transpose = matrix.Transpose

// Transpose flags.
const (
	NoTrans = matrix.NoTrans
	Trans   = matrix.Trans
)

// ShapeError reports operands whose dimensions disagree.
type ShapeError = matrix.ShapeError

// Errors.
var (
	ErrShapeMismatch = matrix.ErrShapeMismatch
	ErrOutOfRange    = matrix.ErrOutOfRange
	ErrAliased       = matrix.ErrAliased
)

// New creates a zero-filled rows×cols matrix.
func New(rows, cols int, backend Backend) *Matrix {
	return matrix.New(rows, cols, backend)
}

// Full creates a rows×cols matrix with every element set to value.
func Full(rows, cols int, value float32, backend Backend) *Matrix {
	return matrix.Full(rows, cols, value, backend)
}

// Random creates a rows×cols matrix drawn uniformly from [lo, hi).
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	w := matrix.Random(128, 784, -0.05, 0.05, rng, backend)
func Random(rows, cols int, lo, hi float32, rng *rand.Rand, backend Backend) *Matrix {
	return matrix.Random(rows, cols, lo, hi, rng, backend)
}

// FromColumns assembles a matrix from equal-length column vectors.
func FromColumns(columns [][]float32, backend Backend) (*Matrix, error) {
	return matrix.FromColumns(columns, backend)
}

// FromSlice creates a rows×cols matrix from column-major data.
func FromSlice(rows, cols int, data []float32, backend Backend) (*Matrix, error) {
	return matrix.FromSlice(rows, cols, data, backend)
}

// Mul returns the product a·b.
func Mul(a, b *Matrix) (*Matrix, error) {
	return matrix.Mul(a, b)
}
