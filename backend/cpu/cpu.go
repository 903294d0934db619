// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/dense/internal/backend/cpu"
	"github.com/born-ml/dense/matrix"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements matrix.Backend.
var _ matrix.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := matrix.Full(3, 4, 1, backend)
func New() *Backend {
	return internalcpu.New()
}
