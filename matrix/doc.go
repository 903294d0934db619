// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides the dense float32 matrix used throughout dense.
//
// # Overview
//
// A Matrix has fixed dimensions and mutable content, stored column-major:
// element (r, c) sits at offset c*rows + r. Batches are laid out with one
// example per column.
//
// Products are delegated to a Backend, a small BLAS-style interface (gemm,
// gemv, ger, axpy). Two implementations ship with the module:
//   - backend/cpu: gonum's pure Go BLAS kernels
//   - backend/naive: plain loops, used as a reference in tests
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/dense/backend/cpu"
//	    "github.com/born-ml/dense/matrix"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    a := matrix.Full(3, 2, 1, backend)
//	    b := matrix.Full(2, 4, 0.5, backend)
//	    c, err := matrix.Mul(a, b) // 3×4
//
//	    // In-place accumulation: c = 0.5*c + 2*a·b
//	    err = c.Accumulate(a, b, 0.5, 2, matrix.NoTrans, matrix.NoTrans)
//	}
//
// # Errors
//
// Shape disagreements return a *ShapeError matching ErrShapeMismatch.
// Constructors panic on non-positive dimensions, which are programming
// errors rather than data errors.
package matrix
