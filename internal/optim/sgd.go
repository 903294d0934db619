package optim

import (
	"github.com/born-ml/dense/internal/nn"
	"github.com/born-ml/dense/internal/parallel"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// The velocity is kept in the parameter's first-moment cache.
//
// Example:
//
//	net.SetOptimizer(optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	}))
type SGD struct {
	lr       float32
	momentum float32
	parallel parallel.Config
}

// Compile-time checks.
var (
	_ Optimizer    = (*SGD)(nil)
	_ nn.Optimizer = (*SGD)(nil)
)

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
		parallel: parallel.DefaultConfig(),
	}
}

// Optimize performs one SGD update of p.
func (s *SGD) Optimize(p *nn.Parameter) {
	p.Tick()

	w := p.Value().Data()
	g := p.Grad().Data()
	vel := p.Moment1().Data()

	parallel.ForRange(len(w), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			d := g[i]
			if s.momentum != 0 {
				vel[i] = s.momentum*vel[i] + d
				d = vel[i]
			}
			w[i] -= s.lr * d
		}
	}, s.parallel)
}

// LR returns the learning rate.
func (s *SGD) LR() float32 {
	return s.lr
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float32 {
	return s.momentum
}
