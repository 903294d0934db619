// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for matrix products.
//
// # Overview
//
// This package implements the matrix.Backend interface on top of gonum's
// native BLAS:
//   - Pure Go implementation (no CGO)
//   - Column-major operands mapped onto row-major kernels without copying
//   - Arbitrary leading dimensions and vector strides
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/dense/backend/cpu"
//	    "github.com/born-ml/dense/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    layer := nn.NewLinear(784, 10, backend)
//	}
//
// # Thread Safety
//
// The backend holds no mutable state and is safe for concurrent use.
package cpu
