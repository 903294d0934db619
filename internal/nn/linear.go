package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/matrix"
)

// Linear implements a fully connected layer.
//
// Performs the transformation: y = W·x + b
// where:
//   - x is the input with shape [in_features, batch_size]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1], tiled over the batch
//   - y is the output with shape [out_features, batch_size]
//
// Weights and biases are drawn from a small symmetric range.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, backend)
//	layer.Initialize(32)
//	output, err := layer.Step(input, true) // input [784, 32] -> output [128, 32]
type Linear struct {
	base
	weight *Parameter // [out_features, in_features]
	bias   *Parameter // [out_features, 1]
	ones   *matrix.Matrix
}

// Compile-time check that Linear implements Layer.
var _ Layer = (*Linear)(nil)

// NewLinear creates a Linear layer initialized with the default RandomInitializer.
func NewLinear(inFeatures, outFeatures int, backend matrix.Backend) *Linear {
	return NewLinearWithInit(inFeatures, outFeatures, &RandomInitializer{}, backend)
}

// NewLinearWithInit creates a Linear layer whose weight and bias come from init.
func NewLinearWithInit(inFeatures, outFeatures int, init Initializer, backend matrix.Backend) *Linear {
	return &Linear{
		weight: NewParameter("weight", init.Matrix(outFeatures, inFeatures, backend)),
		bias:   NewParameter("bias", init.Matrix(outFeatures, 1, backend)),
	}
}

// InputSize returns the number of input features.
func (l *Linear) InputSize() int { return l.weight.Value().Cols() }

// OutputSize returns the number of output features.
func (l *Linear) OutputSize() int { return l.weight.Value().Rows() }

// TotalParamCount returns the number of weights and biases.
func (l *Linear) TotalParamCount() int { return l.weight.Len() + l.bias.Len() }

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter { return l.bias }

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Initialize sets the batch size and drops cached activations.
func (l *Linear) Initialize(batchSize int) {
	l.base.Initialize(batchSize)
	l.ones = nil
	if batchSize > 1 {
		l.ones = matrix.Full(batchSize, 1, 1, l.weight.Value().Backend())
	}
}

// Step computes bias (tiled across the batch) + W·input.
func (l *Linear) Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error) {
	w := l.weight.Value()
	if input.Rows() != w.Cols() {
		return nil, fmt.Errorf("linear: wrong input size: %w",
			&matrix.ShapeError{Op: "linear", Want: [2]int{w.Cols(), l.batchSize}, Got: [2]int{input.Rows(), input.Cols()}})
	}
	if input.Cols() != l.batchSize {
		return nil, fmt.Errorf("linear: wrong batch size: %w",
			&matrix.ShapeError{Op: "linear", Want: [2]int{w.Cols(), l.batchSize}, Got: [2]int{input.Rows(), input.Cols()}})
	}

	output, err := l.bias.Value().Tile(input.Cols())
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	if err := output.Accumulate(w, input, 1, 1, matrix.NoTrans, matrix.NoTrans); err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}

	if inTraining {
		l.record(input, output)
	}
	return output, nil
}

// BackPropagate accumulates
//
//	dW += outSens·inputᵗ
//	db += Σ_batch outSens
//
// and returns Wᵗ·outSens when needInputSens is set.
func (l *Linear) BackPropagate(outSens *matrix.Matrix, needInputSens, clearGrad bool) (*matrix.Matrix, error) {
	if err := checkRecorded("linear", l.input); err != nil {
		return nil, err
	}
	if err := checkSens("linear", outSens, l.output); err != nil {
		return nil, err
	}
	if clearGrad {
		l.ClearGradients()
	}

	if err := l.weight.Grad().Accumulate(outSens, l.input, 1, 1, matrix.NoTrans, matrix.Trans); err != nil {
		return nil, fmt.Errorf("linear backward: weight gradient: %w", err)
	}
	if l.ones != nil {
		if err := l.bias.Grad().Accumulate(outSens, l.ones, 1, 1, matrix.NoTrans, matrix.NoTrans); err != nil {
			return nil, fmt.Errorf("linear backward: bias gradient: %w", err)
		}
	} else if err := l.bias.Grad().AddScaled(outSens, 1); err != nil {
		return nil, fmt.Errorf("linear backward: bias gradient: %w", err)
	}

	if !needInputSens {
		return nil, nil
	}
	inputSens := matrix.New(l.InputSize(), outSens.Cols(), outSens.Backend())
	if err := inputSens.Accumulate(l.weight.Value(), outSens, 0, 1, matrix.Trans, matrix.NoTrans); err != nil {
		return nil, fmt.Errorf("linear backward: input sensitivity: %w", err)
	}
	return inputSens, nil
}

// ErrorPropagate back-propagates the bound loss gradient.
func (l *Linear) ErrorPropagate(target *matrix.Matrix) (*matrix.Matrix, error) {
	sens, err := l.lossGradient(target)
	if err != nil {
		return nil, err
	}
	return l.BackPropagate(sens, true, true)
}

// Optimize applies optimizer to weight and bias.
func (l *Linear) Optimize(optimizer Optimizer) {
	optimizer.Optimize(l.weight)
	optimizer.Optimize(l.bias)
}

// ClampGradients limits gradients to [-limit, limit].
func (l *Linear) ClampGradients(limit float32) {
	l.weight.ClampGrad(limit)
	l.bias.ClampGrad(limit)
}

// ClearGradients zeroes both gradient accumulators.
func (l *Linear) ClearGradients() {
	l.weight.ZeroGrad()
	l.bias.ZeroGrad()
}

// ResetMemory is a no-op: Linear keeps no recurrent state.
func (l *Linear) ResetMemory() {}

// ResetOptimizer clears optimizer state of weight and bias.
func (l *Linear) ResetOptimizer() {
	l.weight.ResetState()
	l.bias.ResetState()
}

// Clone returns a deep copy.
func (l *Linear) Clone() Layer {
	c := &Linear{
		base:   l.base.clone(),
		weight: l.weight.Clone(),
		bias:   l.bias.Clone(),
	}
	if l.ones != nil {
		c.ones = l.ones.Clone()
	}
	return c
}
