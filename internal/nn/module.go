// Package nn implements the layers, loss functions and network orchestrator
// of the training engine.
//
// This package provides:
//   - Parameter: weight cell with gradient and optimizer state
//   - Layer: forward/backward contract implemented by Linear, Sigmoid,
//     Softmax and Affine
//   - Loss functions: CrossEntropy, MeanSquaredError
//   - Network: ordered layer pipeline driving training steps
//
// Matrices hold one batch example per column.
package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/matrix"
)

// Optimizer updates a single parameter cell from its accumulated gradient.
//
// Implementations hold hyperparameters only; all mutable state lives in the
// Parameter, so one optimizer may be shared by every layer of a network.
type Optimizer interface {
	Optimize(p *Parameter)
}

// Layer is a forward/backward unit of a Network.
//
// A layer holds at most one in-flight activation: a training-mode Step
// records its input and output, replacing whatever the previous Step left.
// BackPropagate consumes that record.
type Layer interface {
	// InputSize returns the number of input rows.
	InputSize() int
	// OutputSize returns the number of output rows.
	OutputSize() int
	// TotalParamCount returns the number of scalar weights owned.
	TotalParamCount() int

	// Initialize prepares the layer for batches of batchSize columns and
	// drops any cached activation.
	Initialize(batchSize int)
	// BatchSize returns the configured batch size.
	BatchSize() int

	// Step computes the output for input. With inTraining set the layer
	// keeps input and output for the next BackPropagate.
	Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error)

	// BackPropagate takes the sensitivity of the loss to this layer's output,
	// accumulates parameter gradients (clearing them first if clearGrad) and
	// returns the sensitivity to its input when needInputSens is set,
	// nil otherwise.
	BackPropagate(outSens *matrix.Matrix, needInputSens, clearGrad bool) (*matrix.Matrix, error)

	// ErrorPropagate back-propagates the bound loss gradient of the last
	// output against target. Used on the terminal layer only.
	ErrorPropagate(target *matrix.Matrix) (*matrix.Matrix, error)

	// Error evaluates the bound loss for output against target.
	Error(output, target *matrix.Matrix) (float64, error)

	// Optimize applies optimizer to every owned parameter.
	Optimize(optimizer Optimizer)

	// Parameters returns the owned parameter cells.
	Parameters() []*Parameter

	ClampGradients(limit float32)
	ClearGradients()
	// ResetMemory clears recurrent state; none of the layers here keep any.
	ResetMemory()
	// ResetOptimizer clears moment caches and timesteps of owned parameters.
	ResetOptimizer()

	// Input and Output return the recorded activation, nil if none.
	Input() *matrix.Matrix
	Output() *matrix.Matrix

	// Loss returns the bound loss function, nil if none.
	Loss() Loss
	SetLoss(loss Loss)

	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Layer
}

// base holds the state common to every layer.
type base struct {
	batchSize int
	input     *matrix.Matrix
	output    *matrix.Matrix
	loss      Loss
}

func (b *base) BatchSize() int         { return b.batchSize }
func (b *base) Input() *matrix.Matrix  { return b.input }
func (b *base) Output() *matrix.Matrix { return b.output }
func (b *base) Loss() Loss             { return b.loss }
func (b *base) SetLoss(loss Loss)      { b.loss = loss }

func (b *base) Initialize(batchSize int) {
	b.batchSize = batchSize
	b.input = nil
	b.output = nil
}

func (b *base) Error(output, target *matrix.Matrix) (float64, error) {
	if b.loss == nil {
		return 0, fmt.Errorf("layer error: %w: no loss function bound", ErrInvalidState)
	}
	return b.loss.Error(output, target)
}

// record keeps the activation pair for the next backward pass.
func (b *base) record(input, output *matrix.Matrix) {
	b.input = input
	b.output = output
}

// lossGradient returns the bound loss gradient of the recorded output.
func (b *base) lossGradient(target *matrix.Matrix) (*matrix.Matrix, error) {
	if b.loss == nil {
		return nil, fmt.Errorf("error propagate: %w: no loss function bound", ErrInvalidState)
	}
	if b.output == nil {
		return nil, fmt.Errorf("error propagate: %w: no forward pass recorded", ErrInvalidState)
	}
	return b.loss.Backward(b.output, target)
}

// clone copies the activation record and loss.
func (b *base) clone() base {
	c := base{batchSize: b.batchSize}
	if b.input != nil {
		c.input = b.input.Clone()
	}
	if b.output != nil {
		c.output = b.output.Clone()
	}
	if b.loss != nil {
		c.loss = b.loss.Clone()
	}
	return c
}

func checkRecorded(name string, m *matrix.Matrix) error {
	if m == nil {
		return fmt.Errorf("%s backward: %w: no forward pass recorded", name, ErrInvalidState)
	}
	return nil
}

func checkSens(name string, outSens, output *matrix.Matrix) error {
	if !outSens.SameShape(output) {
		return fmt.Errorf("%s backward: %w", name, &matrix.ShapeError{
			Op:   name + " backward",
			Want: [2]int{output.Rows(), output.Cols()},
			Got:  [2]int{outSens.Rows(), outSens.Cols()},
		})
	}
	return nil
}
