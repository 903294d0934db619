package optim

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/dense/internal/nn"
	"github.com/born-ml/dense/internal/parallel"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule for a parameter at timestep t:
//
//	m = beta1 * m + (1-beta1) * gradient                  // First moment
//	v = beta2 * v + (1-beta2) * gradient²                 // Second moment
//	a = lr * sqrt(1 - beta2^t) / (1 - beta1^t)            // Bias-corrected step
//	param = param - a * m / (sqrt(v) + eps)
//
// m, v and t are stored in the nn.Parameter; Adam itself only holds
// hyperparameters. Elements are independent, so the update is split across
// goroutines for large parameters.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	lr       float32
	beta1    float32
	beta2    float32
	eps      float32
	parallel parallel.Config
}

// Compile-time checks.
var (
	_ Optimizer    = (*Adam)(nil)
	_ nn.Optimizer = (*Adam)(nil)
)

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer, filling zero fields with defaults:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		lr:       config.LR,
		beta1:    config.Betas[0],
		beta2:    config.Betas[1],
		eps:      config.Eps,
		parallel: parallel.DefaultConfig(),
	}
}

// Optimize performs one Adam update of p.
func (a *Adam) Optimize(p *nn.Parameter) {
	t := float32(p.Tick())
	step := a.lr * math32.Sqrt(1-math32.Pow(a.beta2, t)) / (1 - math32.Pow(a.beta1, t))

	w := p.Value().Data()
	g := p.Grad().Data()
	m := p.Moment1().Data()
	v := p.Moment2().Data()

	parallel.ForRange(len(w), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			gi := g[i]
			m[i] = a.beta1*m[i] + (1-a.beta1)*gi
			v[i] = a.beta2*v[i] + (1-a.beta2)*gi*gi
			w[i] -= step * m[i] / (math32.Sqrt(v[i]) + a.eps)
		}
	}, a.parallel)
}

// LR returns the learning rate.
func (a *Adam) LR() float32 {
	return a.lr
}

// Betas returns the moment decay rates.
func (a *Adam) Betas() [2]float32 {
	return [2]float32{a.beta1, a.beta2}
}

// Eps returns the numerical floor.
func (a *Adam) Eps() float32 {
	return a.eps
}

// WithLR returns a copy of a using learning rate lr, for schedules.
func (a *Adam) WithLR(lr float32) *Adam {
	c := *a
	c.lr = lr
	return &c
}
