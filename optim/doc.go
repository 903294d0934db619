// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers hold hyperparameters only. Moment estimates and step counters
// live in each nn.Parameter, so one optimizer serves a whole network.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/dense/nn"
//	    "github.com/born-ml/dense/optim"
//	)
//
//	func main() {
//	    net.SetOptimizer(optim.NewAdam(optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float32{0.9, 0.999},
//	    }))
//
//	    // Training loop
//	    for epoch := range 10 {
//	        loss, err := net.Train(x, y)
//	        // handle err
//	        net.Optimize()
//	    }
//	}
package optim
