// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers are immutable rule objects. All per-parameter state (moment
// caches, timestep) lives in nn.Parameter, so a single optimizer is shared by
// every layer of a network without locking, provided no two calls target the
// same parameter concurrently.
//
// Example usage:
//
//	net.SetOptimizer(optim.NewAdam(optim.AdamConfig{LR: 1e-3}))
//
//	for _, batch := range batches {
//	    if _, err := net.Train(batch.Input, batch.Target); err != nil {
//	        return err
//	    }
//	    net.Optimize()
//	}
package optim

import (
	"github.com/born-ml/dense/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Optimize updates p.Value() in place from p.Grad(), reading and writing
	// the optimizer state stored in p.
	Optimize(p *nn.Parameter)

	// LR returns the learning rate.
	LR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}
