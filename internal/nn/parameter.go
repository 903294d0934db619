package nn

import (
	"github.com/born-ml/dense/internal/matrix"
)

// Parameter is a trainable weight cell.
//
// It owns the current value, a gradient accumulator and the optimizer state
// (two moment caches and a step counter). All four matrices share the
// value's shape. The optimizer itself is stateless: everything that evolves
// across updates lives here.
//
// Example:
//
//	w := nn.NewParameter("weight", init.Matrix(10, 784, backend))
//	// ... backward pass accumulates into w.Grad()
//	optimizer.Optimize(w)
type Parameter struct {
	name     string
	value    *matrix.Matrix
	grad     *matrix.Matrix
	moment1  *matrix.Matrix // First raw-moment estimate
	moment2  *matrix.Matrix // Second raw-moment estimate
	timestep int            // Optimizer applications so far
}

// NewParameter creates a parameter holding a copy of value.
func NewParameter(name string, value *matrix.Matrix) *Parameter {
	b := value.Backend()
	return &Parameter{
		name:    name,
		value:   value.Clone(),
		grad:    matrix.New(value.Rows(), value.Cols(), b),
		moment1: matrix.New(value.Rows(), value.Cols(), b),
		moment2: matrix.New(value.Rows(), value.Cols(), b),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Value returns the current weights.
func (p *Parameter) Value() *matrix.Matrix { return p.value }

// Grad returns the gradient accumulator.
func (p *Parameter) Grad() *matrix.Matrix { return p.grad }

// Moment1 returns the first-moment cache.
func (p *Parameter) Moment1() *matrix.Matrix { return p.moment1 }

// Moment2 returns the second-moment cache.
func (p *Parameter) Moment2() *matrix.Matrix { return p.moment2 }

// Timestep returns how many times an optimizer has been applied.
func (p *Parameter) Timestep() int { return p.timestep }

// Tick advances the timestep and returns the new value.
func (p *Parameter) Tick() int {
	p.timestep++
	return p.timestep
}

// SetTimestep overwrites the timestep when optimizer state is restored.
func (p *Parameter) SetTimestep(t int) { p.timestep = t }

// Len returns the number of scalar weights.
func (p *Parameter) Len() int { return p.value.Len() }

// ZeroGrad clears the gradient accumulator.
//
// Must be called before each fresh backward accumulation pass.
func (p *Parameter) ZeroGrad() {
	p.grad.Clear()
}

// ClampGrad limits every gradient entry to [-limit, limit].
func (p *Parameter) ClampGrad(limit float32) {
	p.grad.Clamp(-limit, limit)
}

// ResetState clears both moment caches and the timestep together.
func (p *Parameter) ResetState() {
	p.moment1.Clear()
	p.moment2.Clear()
	p.timestep = 0
}

// Clone returns a deep copy including gradient and optimizer state.
func (p *Parameter) Clone() *Parameter {
	return &Parameter{
		name:     p.name,
		value:    p.value.Clone(),
		grad:     p.grad.Clone(),
		moment1:  p.moment1.Clone(),
		moment2:  p.moment2.Clone(),
		timestep: p.timestep,
	}
}
