// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/born-ml/dense/internal/nn"
	"github.com/born-ml/dense/internal/serialization"
	"github.com/born-ml/dense/matrix"
)

// Layer is the forward/backward contract implemented by every layer.
type Layer = nn.Layer

// Loss computes a scalar error and its gradient.
type Loss = nn.Loss

// Optimizer updates a parameter from its accumulated gradient.
type Optimizer = nn.Optimizer

// Parameter represents a trainable weight cell.
type Parameter = nn.Parameter

// NewParameter creates a new parameter holding a copy of value.
func NewParameter(name string, value *matrix.Matrix) *Parameter {
	return nn.NewParameter(name, value)
}

// Network

// Network chains layers into a trainable pipeline.
type Network = nn.Network

// NewNetwork validates the layer chain and initializes it for batchSize.
//
// Example:
//
//	net, err := nn.NewNetwork(16,
//	    nn.NewLinear(2, 3, backend),
//	    nn.NewSigmoid(3),
//	    nn.NewLinear(3, 2, backend),
//	    nn.NewSoftmax(2),
//	)
func NewNetwork(batchSize int, layers ...Layer) (*Network, error) {
	return nn.NewNetwork(batchSize, layers...)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with small random weights.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, backend)
func NewLinear(inFeatures, outFeatures int, backend matrix.Backend) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearWithInit creates a new linear layer drawing weights from init.
func NewLinearWithInit(inFeatures, outFeatures int, init Initializer, backend matrix.Backend) *Linear {
	return nn.NewLinearWithInit(inFeatures, outFeatures, init, backend)
}

// Affine represents a linear layer followed by an activation.
type Affine = nn.Affine

// AffineActivation selects the activation of an Affine layer.
type AffineActivation = nn.AffineActivation

// Affine activations.
const (
	AffineNone    = nn.AffineNone
	AffineSigmoid = nn.AffineSigmoid
)

// NewAffine creates a new affine layer.
//
// Example:
//
//	hidden := nn.NewAffine(784, 128, nn.AffineSigmoid, backend)
func NewAffine(inFeatures, outFeatures int, activation AffineActivation, backend matrix.Backend) *Affine {
	return nn.NewAffine(inFeatures, outFeatures, activation, backend)
}

// NewAffineWithInit creates a new affine layer drawing weights from init.
func NewAffineWithInit(inFeatures, outFeatures int, activation AffineActivation, init Initializer, backend matrix.Backend) *Affine {
	return nn.NewAffineWithInit(inFeatures, outFeatures, activation, init, backend)
}

// Activations

// Sigmoid represents the logistic activation function.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new sigmoid activation layer.
func NewSigmoid(size int) *Sigmoid {
	return nn.NewSigmoid(size)
}

// Softmax represents the column-wise softmax with a bound cross-entropy loss.
type Softmax = nn.Softmax

// NewSoftmax creates a new softmax layer with temperature 1.
func NewSoftmax(size int) *Softmax {
	return nn.NewSoftmax(size)
}

// NewSoftmaxWithTemperature creates a new softmax layer with temperature T.
func NewSoftmaxWithTemperature(size int, temperature float32) *Softmax {
	return nn.NewSoftmaxWithTemperature(size, temperature)
}

// Sample draws one category per column of a probability matrix.
func Sample(probs *matrix.Matrix, rng *rand.Rand) []int {
	return nn.Sample(probs, rng)
}

// Loss functions

// CrossEntropy represents the cross-entropy loss over probability outputs.
type CrossEntropy = nn.CrossEntropy

// CrossEntropyConfig holds configuration for CrossEntropy.
type CrossEntropyConfig = nn.CrossEntropyConfig

// NewCrossEntropy creates a new cross-entropy loss.
func NewCrossEntropy(config CrossEntropyConfig) *CrossEntropy {
	return nn.NewCrossEntropy(config)
}

// MeanSquaredError represents the mean squared error loss.
type MeanSquaredError = nn.MeanSquaredError

// NewMeanSquaredError creates a new MSE loss.
func NewMeanSquaredError() *MeanSquaredError {
	return nn.NewMeanSquaredError()
}

// Initialization

// DefaultDispersion is the half-width of the default weight range.
const DefaultDispersion = nn.DefaultDispersion

// Initializer creates initial parameter matrices.
type Initializer = nn.Initializer

// RandomInitializer draws weights uniformly from [-Dispersion, Dispersion).
type RandomInitializer = nn.RandomInitializer

// ConstantInitializer fills weights with a single value.
type ConstantInitializer = nn.ConstantInitializer

// Errors

// ConfigError reports adjacent layers whose sizes do not chain.
type ConfigError = nn.ConfigError

// Errors.
var (
	ErrConfiguration  = nn.ErrConfiguration
	ErrDegenerateData = nn.ErrDegenerateData
	ErrInvalidState   = nn.ErrInvalidState
	ErrNoOptimizer    = nn.ErrNoOptimizer
)

// Checkpoints

// Header summarizes a loaded checkpoint.
type Header = serialization.Header

// Save writes the parameters of net to a checkpoint file.
//
// With withOptimizer the moment caches and timesteps are stored as well, so
// training can resume where it stopped.
//
// Example:
//
//	err := nn.Save(net, "model.dense", true)
func Save(net *Network, path string, withOptimizer bool) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	opts := serialization.Options{IncludeOptimizer: withOptimizer}
	if err := serialization.Write(file, net.Parameters(), opts); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Load restores the parameters of net from a checkpoint file written by Save.
//
// net must have the same layer structure as the saved network.
func Load(path string, net *Network) (Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return serialization.Read(file, net.Parameters())
}
