package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/matrix"
)

// Network chains layers into a trainable pipeline.
//
// Each layer's output becomes the next layer's input. Adjacent sizes are
// validated once at construction. The last layer must have a Loss bound
// (Softmax binds CrossEntropy by default) for Train, Test and Error.
//
// Example:
//
//	net, err := nn.NewNetwork(16,
//	    nn.NewLinear(2, 3, backend),
//	    nn.NewSigmoid(3),
//	    nn.NewLinear(3, 2, backend),
//	    nn.NewSoftmax(2),
//	)
//	net.SetOptimizer(optim.NewAdam(optim.AdamConfig{LR: 1e-2}))
//
//	for _, batch := range batches {
//	    loss, err := net.Train(batch.Input, batch.Target)
//	    // handle err
//	    net.Optimize()
//	}
type Network struct {
	layers    []Layer
	batchSize int
	optimizer Optimizer
}

// NewNetwork validates the layer chain and initializes every layer for
// batchSize columns.
//
// Fails with a *ConfigError (matching ErrConfiguration) naming the first
// pair of adjacent layers whose sizes disagree.
func NewNetwork(batchSize int, layers ...Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("new network: %w: no layers", ErrConfiguration)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("new network: %w: batch size %d", ErrConfiguration, batchSize)
	}
	for i := 1; i < len(layers); i++ {
		if layers[i-1].OutputSize() != layers[i].InputSize() {
			return nil, &ConfigError{
				Index:      i,
				OutputSize: layers[i-1].OutputSize(),
				InputSize:  layers[i].InputSize(),
			}
		}
	}

	n := &Network{layers: layers}
	n.initialize(batchSize)
	return n, nil
}

func (n *Network) initialize(batchSize int) {
	n.batchSize = batchSize
	for _, layer := range n.layers {
		layer.Initialize(batchSize)
	}
}

// BatchSize returns the number of columns every batch must have.
func (n *Network) BatchSize() int {
	return n.batchSize
}

// SetBatchSize re-initializes every layer for a new batch shape. Cached
// activations are dropped.
func (n *Network) SetBatchSize(batchSize int) error {
	if batchSize <= 0 {
		return fmt.Errorf("set batch size: %w: batch size %d", ErrConfiguration, batchSize)
	}
	n.initialize(batchSize)
	return nil
}

// Optimizer returns the shared optimizer, nil if none.
func (n *Network) Optimizer() Optimizer {
	return n.optimizer
}

// SetOptimizer sets the optimizer used by Optimize.
func (n *Network) SetOptimizer(optimizer Optimizer) {
	n.optimizer = optimizer
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (n *Network) Layer(index int) Layer {
	if index < 0 || index >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return n.layers[index]
}

// InputSize returns the first layer's input size.
func (n *Network) InputSize() int { return n.inLayer().InputSize() }

// OutputSize returns the last layer's output size.
func (n *Network) OutputSize() int { return n.outLayer().OutputSize() }

// TotalParamCount returns the number of scalar weights in all layers.
func (n *Network) TotalParamCount() int {
	total := 0
	for _, layer := range n.layers {
		total += layer.TotalParamCount()
	}
	return total
}

// Parameters returns all trainable parameters from all layers.
func (n *Network) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range n.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

func (n *Network) inLayer() Layer  { return n.layers[0] }
func (n *Network) outLayer() Layer { return n.layers[len(n.layers)-1] }

// Step threads input forward through every layer.
func (n *Network) Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error) {
	prop := input
	for i, layer := range n.layers {
		var err error
		if prop, err = layer.Step(prop, inTraining); err != nil {
			return nil, fmt.Errorf("step: layer #%d: %w", i+1, err)
		}
	}
	return prop, nil
}

// Error evaluates the terminal layer's loss for output against target.
func (n *Network) Error(output, target *matrix.Matrix) (float64, error) {
	return n.outLayer().Error(output, target)
}

// BackPropagate runs the backward pass for target against the last training
// Step, clearing gradients first. The terminal layer starts from its loss
// gradient; the first layer is called last and returns its input sensitivity
// only when needInputSens is set.
func (n *Network) BackPropagate(target *matrix.Matrix, needInputSens bool) (*matrix.Matrix, error) {
	return n.backPropagate(target, needInputSens, true)
}

func (n *Network) backPropagate(target *matrix.Matrix, needInputSens, clearGrad bool) (*matrix.Matrix, error) {
	last := len(n.layers) - 1
	out := n.outLayer()

	var (
		prop *matrix.Matrix
		err  error
	)
	if clearGrad {
		prop, err = out.ErrorPropagate(target)
	} else {
		var sens *matrix.Matrix
		if out.Output() == nil {
			return nil, fmt.Errorf("back propagate: layer #%d: %w: no forward pass recorded", last+1, ErrInvalidState)
		}
		if out.Loss() == nil {
			return nil, fmt.Errorf("back propagate: layer #%d: %w: no loss function bound", last+1, ErrInvalidState)
		}
		if sens, err = out.Loss().Backward(out.Output(), target); err == nil {
			prop, err = out.BackPropagate(sens, last > 0 || needInputSens, false)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("back propagate: layer #%d: %w", last+1, err)
	}
	if last == 0 {
		return prop, nil
	}

	for i := last - 1; i > 0; i-- {
		if prop, err = n.layers[i].BackPropagate(prop, true, clearGrad); err != nil {
			return nil, fmt.Errorf("back propagate: layer #%d: %w", i+1, err)
		}
	}
	if prop, err = n.inLayer().BackPropagate(prop, needInputSens, clearGrad); err != nil {
		return nil, fmt.Errorf("back propagate: layer #1: %w", err)
	}
	return prop, nil
}

// Train runs a training-mode forward pass, evaluates the loss and
// back-propagates it, replacing previously accumulated gradients.
//
// Parameters are not updated; call Optimize afterwards.
func (n *Network) Train(input, target *matrix.Matrix) (float64, error) {
	return n.train(input, target, true)
}

// TrainAccumulate is Train without clearing gradients first, so several
// micro-batches can be summed before a single Optimize.
func (n *Network) TrainAccumulate(input, target *matrix.Matrix) (float64, error) {
	return n.train(input, target, false)
}

func (n *Network) train(input, target *matrix.Matrix, clearGrad bool) (float64, error) {
	output, err := n.Step(input, true)
	if err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}
	loss, err := n.Error(output, target)
	if err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}
	if _, err := n.backPropagate(target, false, clearGrad); err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}
	return loss, nil
}

// Test runs an inference forward pass and evaluates the loss. Gradients and
// recorded activations are left untouched.
func (n *Network) Test(input, target *matrix.Matrix) (*matrix.Matrix, float64, error) {
	output, err := n.Step(input, false)
	if err != nil {
		return nil, 0, fmt.Errorf("test: %w", err)
	}
	loss, err := n.Error(output, target)
	if err != nil {
		return nil, 0, fmt.Errorf("test: %w", err)
	}
	return output, loss, nil
}

// Optimize applies the shared optimizer to every layer's parameters.
func (n *Network) Optimize() error {
	if n.optimizer == nil {
		return ErrNoOptimizer
	}
	for _, layer := range n.layers {
		layer.Optimize(n.optimizer)
	}
	return nil
}

// ClampGradients limits every gradient entry to [-limit, limit].
func (n *Network) ClampGradients(limit float32) {
	for _, layer := range n.layers {
		layer.ClampGradients(limit)
	}
}

// ClearGradients zeroes every gradient accumulator.
func (n *Network) ClearGradients() {
	for _, layer := range n.layers {
		layer.ClearGradients()
	}
}

// ResetMemory clears recurrent state in every layer.
func (n *Network) ResetMemory() {
	for _, layer := range n.layers {
		layer.ResetMemory()
	}
}

// ResetOptimizer clears moment caches and timesteps of every parameter,
// e.g. before restarting optimization on a fresh run.
func (n *Network) ResetOptimizer() {
	for _, layer := range n.layers {
		layer.ResetOptimizer()
	}
}

// Clone returns a deep copy of the network. The optimizer, which holds no
// mutable state, is shared.
func (n *Network) Clone() *Network {
	layers := make([]Layer, len(n.layers))
	for i, layer := range n.layers {
		layers[i] = layer.Clone()
	}
	return &Network{layers: layers, batchSize: n.batchSize, optimizer: n.optimizer}
}
