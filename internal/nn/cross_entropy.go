package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/dense/internal/matrix"
)

// CrossEntropyConfig holds configuration for CrossEntropy.
type CrossEntropyConfig struct {
	// MaskMissing treats NaN target entries as missing labels: they are left
	// out of the loss sum and their gradient is zero, and a batch column with
	// no valid entry does not count towards the normalizer. When false every
	// target entry is used as is.
	MaskMissing bool
}

// CrossEntropy computes -Σ target·log(output) / columns over probability
// outputs (typically produced by Softmax).
//
// Its gradient is the plain difference (output - target) / columns, which is
// what the Softmax layer expects as upstream sensitivity.
//
// Example:
//
//	ce := nn.NewCrossEntropy(nn.CrossEntropyConfig{MaskMissing: true})
//	loss, err := ce.Error(probs, onehot)
type CrossEntropy struct {
	maskMissing bool
}

// NewCrossEntropy creates a cross-entropy loss function.
func NewCrossEntropy(config CrossEntropyConfig) *CrossEntropy {
	return &CrossEntropy{maskMissing: config.MaskMissing}
}

// MaskMissing reports whether NaN targets are treated as missing labels.
func (c *CrossEntropy) MaskMissing() bool {
	return c.maskMissing
}

// Error computes the loss.
//
// Fails with ErrDegenerateData when masking is enabled and every column is
// entirely missing.
func (c *CrossEntropy) Error(output, target *matrix.Matrix) (float64, error) {
	if err := checkLossShapes("cross entropy", output, target); err != nil {
		return 0, err
	}
	cols, err := c.effectiveCols(target)
	if err != nil {
		return 0, err
	}

	o, t := output.Data(), target.Data()
	var sum float64
	for i := range o {
		if c.maskMissing && isMissing(t[i]) {
			continue
		}
		sum += float64(t[i]) * math.Log(float64(o[i]))
	}
	return -sum / float64(cols), nil
}

// Backward computes (output - target) / columns, zero at missing positions.
func (c *CrossEntropy) Backward(output, target *matrix.Matrix) (*matrix.Matrix, error) {
	if err := checkLossShapes("cross entropy", output, target); err != nil {
		return nil, err
	}
	cols, err := c.effectiveCols(target)
	if err != nil {
		return nil, err
	}

	grad := matrix.New(output.Rows(), output.Cols(), output.Backend())
	g, o, t := grad.Data(), output.Data(), target.Data()
	n := float32(cols)
	for i := range g {
		if c.maskMissing && isMissing(t[i]) {
			continue
		}
		g[i] = (o[i] - t[i]) / n
	}
	return grad, nil
}

// Clone returns a copy with the same configuration.
func (c *CrossEntropy) Clone() Loss {
	return &CrossEntropy{maskMissing: c.maskMissing}
}

// effectiveCols counts the batch columns holding at least one valid target.
func (c *CrossEntropy) effectiveCols(target *matrix.Matrix) (int, error) {
	if !c.maskMissing {
		return target.Cols(), nil
	}

	rows := target.Rows()
	t := target.Data()
	cols := 0
	for col := 0; col < target.Cols(); col++ {
		for _, v := range t[col*rows : (col+1)*rows] {
			if !isMissing(v) {
				cols++
				break
			}
		}
	}
	if cols == 0 {
		return 0, fmt.Errorf("cross entropy: %w (%d columns)", ErrDegenerateData, target.Cols())
	}
	return cols, nil
}
