package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/matrix"
)

// AffineActivation selects the activation that follows the linear transform
// of an Affine layer.
type AffineActivation int

const (
	// AffineNone applies no activation.
	AffineNone AffineActivation = iota
	// AffineSigmoid applies a Sigmoid.
	AffineSigmoid
)

// String returns the activation name.
func (a AffineActivation) String() string {
	switch a {
	case AffineNone:
		return "none"
	case AffineSigmoid:
		return "sigmoid"
	default:
		return fmt.Sprintf("AffineActivation(%d)", int(a))
	}
}

// Affine composes a Linear layer with an activation: y = act(W·x + b).
//
// Every layer call is forwarded to both parts in order (reverse order for the
// backward pass). Only the Linear parameters are exposed.
//
// Example:
//
//	hidden := nn.NewAffine(784, 128, nn.AffineSigmoid, backend)
type Affine struct {
	base
	activationType AffineActivation
	linear         *Linear
	activation     Layer
}

// Compile-time check that Affine implements Layer.
var _ Layer = (*Affine)(nil)

// NewAffine creates an Affine layer with the default initializer.
//
// Panics on an unknown activation.
func NewAffine(inFeatures, outFeatures int, activation AffineActivation, backend matrix.Backend) *Affine {
	return NewAffineWithInit(inFeatures, outFeatures, activation, &RandomInitializer{}, backend)
}

// NewAffineWithInit creates an Affine layer whose Linear part draws from init.
func NewAffineWithInit(inFeatures, outFeatures int, activation AffineActivation, init Initializer, backend matrix.Backend) *Affine {
	return &Affine{
		activationType: activation,
		linear:         NewLinearWithInit(inFeatures, outFeatures, init, backend),
		activation:     newAffineActivation(activation, outFeatures),
	}
}

func newAffineActivation(activation AffineActivation, size int) Layer {
	switch activation {
	case AffineNone:
		return &identity{size: size}
	case AffineSigmoid:
		return NewSigmoid(size)
	default:
		panic(fmt.Sprintf("nn.NewAffine: unknown activation %v", activation))
	}
}

// InputSize returns the Linear input size.
func (a *Affine) InputSize() int { return a.linear.InputSize() }

// OutputSize returns the activation output size.
func (a *Affine) OutputSize() int { return a.activation.OutputSize() }

// TotalParamCount returns the Linear parameter count.
func (a *Affine) TotalParamCount() int {
	return a.linear.TotalParamCount() + a.activation.TotalParamCount()
}

// Activation returns the activation kind.
func (a *Affine) Activation() AffineActivation { return a.activationType }

// Linear returns the wrapped Linear layer.
func (a *Affine) Linear() *Linear { return a.linear }

// Parameters returns the Linear parameters.
func (a *Affine) Parameters() []*Parameter { return a.linear.Parameters() }

// Initialize propagates the batch size to both parts.
func (a *Affine) Initialize(batchSize int) {
	a.base.Initialize(batchSize)
	a.linear.Initialize(batchSize)
	a.activation.Initialize(batchSize)
}

// Step runs the Linear part, then the activation.
func (a *Affine) Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error) {
	hidden, err := a.linear.Step(input, inTraining)
	if err != nil {
		return nil, fmt.Errorf("affine: %w", err)
	}
	output, err := a.activation.Step(hidden, inTraining)
	if err != nil {
		return nil, fmt.Errorf("affine: %w", err)
	}
	if inTraining {
		a.record(input, output)
	}
	return output, nil
}

// BackPropagate runs the activation backward, then the Linear part.
func (a *Affine) BackPropagate(outSens *matrix.Matrix, needInputSens, clearGrad bool) (*matrix.Matrix, error) {
	if err := checkRecorded("affine", a.output); err != nil {
		return nil, err
	}
	sens, err := a.activation.BackPropagate(outSens, true, clearGrad)
	if err != nil {
		return nil, fmt.Errorf("affine: %w", err)
	}
	inputSens, err := a.linear.BackPropagate(sens, needInputSens, clearGrad)
	if err != nil {
		return nil, fmt.Errorf("affine: %w", err)
	}
	return inputSens, nil
}

// ErrorPropagate back-propagates the bound loss gradient.
func (a *Affine) ErrorPropagate(target *matrix.Matrix) (*matrix.Matrix, error) {
	sens, err := a.lossGradient(target)
	if err != nil {
		return nil, err
	}
	return a.BackPropagate(sens, true, true)
}

// Optimize forwards to both parts.
func (a *Affine) Optimize(optimizer Optimizer) {
	a.linear.Optimize(optimizer)
	a.activation.Optimize(optimizer)
}

// ClampGradients forwards to both parts.
func (a *Affine) ClampGradients(limit float32) {
	a.linear.ClampGradients(limit)
	a.activation.ClampGradients(limit)
}

// ClearGradients forwards to both parts.
func (a *Affine) ClearGradients() {
	a.linear.ClearGradients()
	a.activation.ClearGradients()
}

// ResetMemory forwards to both parts.
func (a *Affine) ResetMemory() {
	a.linear.ResetMemory()
	a.activation.ResetMemory()
}

// ResetOptimizer forwards to both parts.
func (a *Affine) ResetOptimizer() {
	a.linear.ResetOptimizer()
	a.activation.ResetOptimizer()
}

// Clone returns a deep copy.
func (a *Affine) Clone() Layer {
	return &Affine{
		base:           a.base.clone(),
		activationType: a.activationType,
		linear:         a.linear.Clone().(*Linear),
		activation:     a.activation.Clone(),
	}
}
