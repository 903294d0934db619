// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers, loss functions and the
// network orchestrator.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Sigmoid, Softmax, Affine (Linear + activation)
//   - Loss functions: CrossEntropy, MeanSquaredError
//   - Network: ordered layer chain with Train, Test and Optimize
//   - Parameter: weights with gradient and optimizer state
//   - Initialization: RandomInitializer, ConstantInitializer
//
// Gradients are computed by hand-written backward passes; there is no
// autodiff tape. Each layer remembers the activations of its last training
// Step and consumes them in BackPropagate.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/dense/backend/cpu"
//	    "github.com/born-ml/dense/nn"
//	    "github.com/born-ml/dense/optim"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    net, err := nn.NewNetwork(32,
//	        nn.NewAffine(784, 128, nn.AffineSigmoid, backend),
//	        nn.NewLinear(128, 10, backend),
//	        nn.NewSoftmax(10),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    net.SetOptimizer(optim.NewAdam(optim.AdamConfig{LR: 1e-3}))
//
//	    loss, err := net.Train(input, target) // input [784, 32], target [10, 32]
//	    err = net.Optimize()
//	}
//
// # Loss Functions
//
// Softmax binds CrossEntropy on construction. Other layers need SetLoss
// before they can terminate a Network:
//
//	out := nn.NewSigmoid(1)
//	out.SetLoss(nn.NewMeanSquaredError())
//
// CrossEntropy can treat NaN targets as missing labels:
//
//	nn.NewCrossEntropy(nn.CrossEntropyConfig{MaskMissing: true})
//
// # Gradient Accumulation
//
// Train replaces the gradients; TrainAccumulate adds to them. Several
// micro-batches can be accumulated before one Optimize call.
package nn
