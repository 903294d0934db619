package nn

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/born-ml/dense/internal/matrix"
)

// Softmax normalizes every batch column into a probability distribution:
//
//	output[i,j] = exp(input[i,j]/T) / Σ_k exp(input[k,j]/T)
//
// The exponentials are taken on the raw inputs without subtracting the column
// maximum, so inputs beyond roughly ±88·T overflow float32 and produce NaN.
// Keep pre-softmax activations bounded (small initial weights, clamped
// gradients).
//
// A CrossEntropy loss is bound at construction so Softmax can terminate a
// Network directly.
//
// Example:
//
//	softmax := nn.NewSoftmax(10)
//	probs, err := softmax.Step(logits, false)
type Softmax struct {
	base
	size        int
	temperature float32
}

// Compile-time check that Softmax implements Layer.
var _ Layer = (*Softmax)(nil)

// NewSoftmax creates a softmax layer with temperature 1.
func NewSoftmax(size int) *Softmax {
	return NewSoftmaxWithTemperature(size, 1)
}

// NewSoftmaxWithTemperature creates a softmax layer with temperature T.
//
// Panics if temperature is not positive.
func NewSoftmaxWithTemperature(size int, temperature float32) *Softmax {
	if temperature <= 0 {
		panic(fmt.Sprintf("nn.NewSoftmax: temperature must be positive, got %v", temperature))
	}
	s := &Softmax{size: size, temperature: temperature}
	s.loss = NewCrossEntropy(CrossEntropyConfig{})
	return s
}

// InputSize returns the number of categories.
func (s *Softmax) InputSize() int { return s.size }

// OutputSize returns the number of categories.
func (s *Softmax) OutputSize() int { return s.size }

// Temperature returns T.
func (s *Softmax) Temperature() float32 { return s.temperature }

// TotalParamCount returns 0.
func (s *Softmax) TotalParamCount() int { return 0 }

// Parameters returns nil (softmax has no trainable parameters).
func (s *Softmax) Parameters() []*Parameter { return nil }

// Step normalizes each column of input.
func (s *Softmax) Step(input *matrix.Matrix, inTraining bool) (*matrix.Matrix, error) {
	if input.Rows() != s.size {
		return nil, fmt.Errorf("softmax: %w", &matrix.ShapeError{
			Op: "softmax", Want: [2]int{s.size, input.Cols()}, Got: [2]int{input.Rows(), input.Cols()},
		})
	}

	output := input.Clone()
	data := output.Data()
	rows := output.Rows()
	for c := 0; c < output.Cols(); c++ {
		col := data[c*rows : (c+1)*rows]
		var sum float32
		for i, v := range col {
			col[i] = math32.Exp(v / s.temperature)
			sum += col[i]
		}
		for i := range col {
			col[i] /= sum
		}
	}

	if inTraining {
		s.record(input, output)
	}
	return output, nil
}

// BackPropagate contracts the full softmax Jacobian with outSens, column by
// column:
//
//	inSens[:,j] = J_j · outSens[:,j],   J_j[i,o] = y_i(δ_io - y_o) / T
//
// No shortcut is taken for a cross-entropy upstream, so any loss works.
func (s *Softmax) BackPropagate(outSens *matrix.Matrix, _, _ bool) (*matrix.Matrix, error) {
	if err := checkRecorded("softmax", s.output); err != nil {
		return nil, err
	}
	if err := checkSens("softmax", outSens, s.output); err != nil {
		return nil, err
	}

	b := outSens.Backend()
	n := s.size
	jacobian := matrix.New(n, n, b)
	sensCol := matrix.New(n, 1, b)
	inCol := matrix.New(n, 1, b)
	inputSens := matrix.New(n, outSens.Cols(), b)

	for c := 0; c < outSens.Cols(); c++ {
		y, _ := s.output.Column(c)
		s.fillJacobian(jacobian, y)

		os, _ := outSens.Column(c)
		copy(sensCol.Data(), os)
		if err := inCol.Accumulate(jacobian, sensCol, 0, 1, matrix.NoTrans, matrix.NoTrans); err != nil {
			return nil, fmt.Errorf("softmax backward: %w", err)
		}
		is, _ := inputSens.Column(c)
		copy(is, inCol.Data())
	}
	return inputSens, nil
}

// fillJacobian writes ∂y_i/∂x_o for one column into jacobian.
func (s *Softmax) fillJacobian(jacobian *matrix.Matrix, y []float32) {
	j := jacobian.Data()
	n := len(y)
	for o := 0; o < n; o++ {
		for i := 0; i < n; i++ {
			d := -y[i] * y[o]
			if i == o {
				d = y[i] * (1 - y[o])
			}
			j[o*n+i] = d / s.temperature
		}
	}
}

// ErrorPropagate back-propagates the bound loss gradient.
func (s *Softmax) ErrorPropagate(target *matrix.Matrix) (*matrix.Matrix, error) {
	sens, err := s.lossGradient(target)
	if err != nil {
		return nil, err
	}
	return s.BackPropagate(sens, true, true)
}

func (s *Softmax) Optimize(Optimizer)     {}
func (s *Softmax) ClampGradients(float32) {}
func (s *Softmax) ClearGradients()        {}
func (s *Softmax) ResetMemory()           {}
func (s *Softmax) ResetOptimizer()        {}

// Clone returns a deep copy.
func (s *Softmax) Clone() Layer {
	return &Softmax{base: s.base.clone(), size: s.size, temperature: s.temperature}
}

// Sample draws one category per column of a probability matrix.
//
// For each column a uniform number r in [0, 1) is drawn and the first index
// whose cumulative probability exceeds r is chosen. Rounding slack falls to
// the last category.
func Sample(probs *matrix.Matrix, rng *rand.Rand) []int {
	rows := probs.Rows()
	data := probs.Data()
	choices := make([]int, probs.Cols())
	for c := range choices {
		r := float32(rng.Float64())
		choice := rows - 1
		var cum float32
		for i, p := range data[c*rows : (c+1)*rows] {
			cum += p
			if r < cum {
				choice = i
				break
			}
		}
		choices[c] = choice
	}
	return choices
}
