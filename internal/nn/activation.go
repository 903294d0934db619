package nn

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/dense/internal/matrix"
	"github.com/born-ml/dense/internal/parallel"
)

// Sigmoid applies σ(x) = 1/(1+e^(-x)) to every element.
//
// Backward uses the closed form σ' = σ(1-σ) on the recorded output.
//
// Example:
//
//	sigmoid := nn.NewSigmoid(128)
//	output, err := sigmoid.Step(input, true)
type Sigmoid struct {
	base
	size     int
	parallel parallel.Config
}

// Compile-time check that Sigmoid implements Layer.
var _ Layer = (*Sigmoid)(nil)

// NewSigmoid creates a sigmoid layer of the given width.
func NewSigmoid(size int) *Sigmoid {
	return &Sigmoid{size: size, parallel: parallel.DefaultConfig()}
}

// InputSize returns the layer width.
func (s *Sigmoid) InputSize() int { return s.size }

// OutputSize returns the layer width.
func (s *Sigmoid) OutputSize() int { return s.size }

// TotalParamCount returns 0.
func (s *Sigmoid) TotalParamCount() int { return 0 }

// Parameters returns nil (sigmoid has no trainable parameters).
func (s *Sigmoid) Parameters() []*Parameter { return nil }

// Step applies the sigmoid elementwise. Elements are independent, so the
// kernel is spread over goroutines for large batches.
func (s *Sigmoid) Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error) {
	if input.Rows() != s.size {
		return nil, fmt.Errorf("sigmoid: %w", &matrix.ShapeError{
			Op: "sigmoid", Want: [2]int{s.size, input.Cols()}, Got: [2]int{input.Rows(), input.Cols()},
		})
	}

	output := input.Clone()
	data := output.Data()
	parallel.ForRange(len(data), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			data[i] = 1 / (1 + math32.Exp(-data[i]))
		}
	}, s.parallel)

	if inTraining {
		s.record(input, output)
	}
	return output, nil
}

// BackPropagate returns outSens ∘ output ∘ (1 - output).
func (s *Sigmoid) BackPropagate(outSens *matrix.Matrix, _, _ bool) (*matrix.Matrix, error) {
	if err := checkRecorded("sigmoid", s.output); err != nil {
		return nil, err
	}
	if err := checkSens("sigmoid", outSens, s.output); err != nil {
		return nil, err
	}

	inputSens := matrix.New(outSens.Rows(), outSens.Cols(), outSens.Backend())
	is, os, y := inputSens.Data(), outSens.Data(), s.output.Data()
	for i := range is {
		is[i] = os[i] * y[i] * (1 - y[i])
	}
	return inputSens, nil
}

// ErrorPropagate back-propagates the bound loss gradient.
func (s *Sigmoid) ErrorPropagate(target *matrix.Matrix) (*matrix.Matrix, error) {
	sens, err := s.lossGradient(target)
	if err != nil {
		return nil, err
	}
	return s.BackPropagate(sens, true, true)
}

func (s *Sigmoid) Optimize(Optimizer)     {}
func (s *Sigmoid) ClampGradients(float32) {}
func (s *Sigmoid) ClearGradients()        {}
func (s *Sigmoid) ResetMemory()           {}
func (s *Sigmoid) ResetOptimizer()        {}

// Clone returns a deep copy.
func (s *Sigmoid) Clone() Layer {
	return &Sigmoid{base: s.base.clone(), size: s.size, parallel: s.parallel}
}

// identity passes activations through unchanged. It is the "no activation"
// half of an Affine layer.
type identity struct {
	base
	size int
}

var _ Layer = (*identity)(nil)

func (d *identity) InputSize() int           { return d.size }
func (d *identity) OutputSize() int          { return d.size }
func (d *identity) TotalParamCount() int     { return 0 }
func (d *identity) Parameters() []*Parameter { return nil }
func (d *identity) Optimize(Optimizer)       {}
func (d *identity) ClampGradients(float32)   {}
func (d *identity) ClearGradients()          {}
func (d *identity) ResetMemory()             {}
func (d *identity) ResetOptimizer()          {}
func (d *identity) Clone() Layer             { return &identity{base: d.base.clone(), size: d.size} }

func (d *identity) Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error) {
	if input.Rows() != d.size {
		return nil, fmt.Errorf("identity: %w", &matrix.ShapeError{
			Op: "identity", Want: [2]int{d.size, input.Cols()}, Got: [2]int{input.Rows(), input.Cols()},
		})
	}
	if inTraining {
		d.record(input, input)
	}
	return input, nil
}

func (d *identity) BackPropagate(outSens *matrix.Matrix, _, _ bool) (*matrix.Matrix, error) {
	if err := checkRecorded("identity", d.output); err != nil {
		return nil, err
	}
	if err := checkSens("identity", outSens, d.output); err != nil {
		return nil, err
	}
	return outSens, nil
}

func (d *identity) ErrorPropagate(target *matrix.Matrix) (*matrix.Matrix, error) {
	sens, err := d.lossGradient(target)
	if err != nil {
		return nil, err
	}
	return d.BackPropagate(sens, true, true)
}
