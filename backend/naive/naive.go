// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package naive provides a loop-based backend for matrix products.
//
// It is slow and meant for checking other backends and for debugging
// numerical issues.
package naive

import (
	internalnaive "github.com/born-ml/dense/internal/backend/naive"
	"github.com/born-ml/dense/matrix"
)

// Backend represents the loop-based backend.
type Backend = internalnaive.Backend

// Compile-time check that Backend implements matrix.Backend.
var _ matrix.Backend = (*Backend)(nil)

// New creates a new loop-based backend.
func New() *Backend {
	return internalnaive.New()
}
