// Package dataset builds training batches for a Network.
//
// A batch is a pair of matrices with one example per column: the input is
// InputSize×BatchSize and the target OutputSize×BatchSize. Loading and
// decoding of real datasets happens outside this package; it only assembles
// in-memory examples into batches.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/dense/internal/matrix"
)

// Sample is one training batch.
type Sample struct {
	Input  *matrix.Matrix
	Target *matrix.Matrix
}

// Example is a single input vector with its target vector.
type Example struct {
	Input  []float32
	Target []float32
}

// Batch assembles examples into a Sample, one column per example.
func Batch(examples []Example, backend matrix.Backend) (*Sample, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("batch: no examples")
	}
	inputs := make([][]float32, len(examples))
	targets := make([][]float32, len(examples))
	for i, ex := range examples {
		inputs[i] = ex.Input
		targets[i] = ex.Target
	}

	input, err := matrix.FromColumns(inputs, backend)
	if err != nil {
		return nil, fmt.Errorf("batch inputs: %w", err)
	}
	target, err := matrix.FromColumns(targets, backend)
	if err != nil {
		return nil, fmt.Errorf("batch targets: %w", err)
	}
	return &Sample{Input: input, Target: target}, nil
}

// Batcher cycles through a fixed example set in batches of equal size,
// wrapping around at the end.
type Batcher struct {
	examples  []Example
	batchSize int
	pos       int
	backend   matrix.Backend
}

// NewBatcher creates a Batcher over examples.
func NewBatcher(examples []Example, batchSize int, backend matrix.Backend) (*Batcher, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("new batcher: invalid batch size %d", batchSize)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("new batcher: no examples")
	}
	return &Batcher{examples: examples, batchSize: batchSize, backend: backend}, nil
}

// BatchSize returns the number of examples per batch.
func (b *Batcher) BatchSize() int { return b.batchSize }

// Len returns the number of examples.
func (b *Batcher) Len() int { return len(b.examples) }

// Next returns the next batch.
func (b *Batcher) Next() (*Sample, error) {
	batch := make([]Example, b.batchSize)
	for i := range batch {
		batch[i] = b.examples[b.pos]
		b.pos = (b.pos + 1) % len(b.examples)
	}
	return Batch(batch, b.backend)
}

// Sample returns a batch of examples drawn uniformly with replacement.
// It does not move the Next cursor.
func (b *Batcher) Sample(rng *rand.Rand) (*Sample, error) {
	batch := make([]Example, b.batchSize)
	for i := range batch {
		batch[i] = b.examples[rng.Intn(len(b.examples))]
	}
	return Batch(batch, b.backend)
}

// Shuffle permutes the examples using rng and restarts from the beginning.
func (b *Batcher) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(b.examples), func(i, j int) {
		b.examples[i], b.examples[j] = b.examples[j], b.examples[i]
	})
	b.pos = 0
}

// TwoClass generates n linearly separable 2-D points with one-hot targets.
//
// Points are drawn uniformly from [-1, 1]²; the class is 0 when x+y < 0 and
// 1 otherwise. Points within margin of the boundary are pushed away from it
// so the two classes stay separable.
func TwoClass(n int, margin float32, rng *rand.Rand) []Example {
	examples := make([]Example, n)
	for i := range examples {
		x := float32(rng.Float64()*2 - 1)
		y := float32(rng.Float64()*2 - 1)
		class := 0
		if x+y >= 0 {
			class = 1
		}
		if d := x + y; d > -margin && d < margin {
			shift := margin
			if class == 0 {
				shift = -margin
			}
			x += shift
			y += shift
		}
		target := []float32{0, 0}
		target[class] = 1
		examples[i] = Example{Input: []float32{x, y}, Target: target}
	}
	return examples
}

// Accuracy returns the fraction of columns whose largest output entry is at
// the same row as the largest target entry.
func Accuracy(output, target *matrix.Matrix) (float64, error) {
	if !output.SameShape(target) {
		return 0, &matrix.ShapeError{
			Op:   "accuracy",
			Want: [2]int{output.Rows(), output.Cols()},
			Got:  [2]int{target.Rows(), target.Cols()},
		}
	}
	correct := 0
	for c := 0; c < output.Cols(); c++ {
		o, _ := output.Column(c)
		t, _ := target.Column(c)
		if argmax(o) == argmax(t) {
			correct++
		}
	}
	return float64(correct) / float64(output.Cols()), nil
}

func argmax(v []float32) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}
