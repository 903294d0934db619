package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/dense/internal/matrix"
)

// Loss is a stateless error function over (output, target) pairs of
// identical shape, one batch example per column.
type Loss interface {
	// Error returns the scalar loss.
	Error(output, target *matrix.Matrix) (float64, error)

	// Backward returns the gradient of the loss with respect to output.
	Backward(output, target *matrix.Matrix) (*matrix.Matrix, error)

	// Clone returns an independent copy.
	Clone() Loss
}

func checkLossShapes(name string, output, target *matrix.Matrix) error {
	if !output.SameShape(target) {
		return fmt.Errorf("%s: %w", name, &matrix.ShapeError{
			Op:   name,
			Want: [2]int{output.Rows(), output.Cols()},
			Got:  [2]int{target.Rows(), target.Cols()},
		})
	}
	return nil
}

// MeanSquaredError computes 0.5*Σ(output-target)² / batch.
//
// Example:
//
//	mse := nn.NewMeanSquaredError()
//	loss, err := mse.Error(output, target)
type MeanSquaredError struct{}

// NewMeanSquaredError creates a new MSE loss function.
func NewMeanSquaredError() *MeanSquaredError {
	return &MeanSquaredError{}
}

// Error computes the loss.
func (*MeanSquaredError) Error(output, target *matrix.Matrix) (float64, error) {
	if err := checkLossShapes("mse", output, target); err != nil {
		return 0, err
	}
	o, t := output.Data(), target.Data()
	var sum float64
	for i := range o {
		d := float64(o[i] - t[i])
		sum += d * d
	}
	return 0.5 * sum / float64(output.Cols()), nil
}

// Backward computes (output - target) / batch.
func (*MeanSquaredError) Backward(output, target *matrix.Matrix) (*matrix.Matrix, error) {
	if err := checkLossShapes("mse", output, target); err != nil {
		return nil, err
	}
	grad := matrix.New(output.Rows(), output.Cols(), output.Backend())
	g, o, t := grad.Data(), output.Data(), target.Data()
	n := float32(output.Cols())
	for i := range g {
		g[i] = (o[i] - t[i]) / n
	}
	return grad, nil
}

// Clone returns a new MeanSquaredError.
func (*MeanSquaredError) Clone() Loss {
	return &MeanSquaredError{}
}

// isMissing reports whether a target entry is marked as missing.
func isMissing(v float32) bool {
	return math.IsNaN(float64(v))
}
