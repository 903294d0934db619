// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset assembles in-memory examples into training batches.
//
// # Basic Usage
//
//	rng := rand.New(rand.NewSource(1))
//	batcher, err := dataset.NewBatcher(dataset.TwoClass(1000, 0.1, rng), 32, backend)
//
//	for step := 0; step < 500; step++ {
//	    batch, err := batcher.Next()
//	    loss, err := net.Train(batch.Input, batch.Target)
//	    net.Optimize()
//	}
package dataset

import (
	"io"
	"math/rand"

	"github.com/born-ml/dense/internal/dataset"
	"github.com/born-ml/dense/matrix"
)

// Sample is one training batch with one example per column.
type Sample = dataset.Sample

// Example is a single input vector with its target vector.
type Example = dataset.Example

// Batcher cycles through examples in fixed-size batches.
type Batcher = dataset.Batcher

// Batch assembles examples into a Sample.
func Batch(examples []Example, backend matrix.Backend) (*Sample, error) {
	return dataset.Batch(examples, backend)
}

// NewBatcher creates a Batcher over examples.
func NewBatcher(examples []Example, batchSize int, backend matrix.Backend) (*Batcher, error) {
	return dataset.NewBatcher(examples, batchSize, backend)
}

// TwoClass generates n linearly separable 2-D points with one-hot targets.
func TwoClass(n int, margin float32, rng *rand.Rand) []Example {
	return dataset.TwoClass(n, margin, rng)
}

// Accuracy returns the fraction of columns whose argmax matches the target.
func Accuracy(output, target *matrix.Matrix) (float64, error) {
	return dataset.Accuracy(output, target)
}

// ErrFormat is returned for malformed dataset files.
var ErrFormat = dataset.ErrFormat

// LoadIDX loads an IDX image file and its label file as one-hot examples.
//
// Example:
//
//	train, err := dataset.LoadIDX(
//	    filepath.Join(dir, "train-images-idx3-ubyte"),
//	    filepath.Join(dir, "train-labels-idx1-ubyte"),
//	    10, 0,
//	)
func LoadIDX(imagesPath, labelsPath string, classes, maxSamples int) ([]Example, error) {
	return dataset.LoadIDX(imagesPath, labelsPath, classes, maxSamples)
}

// ReadCSV reads label-first CSV rows with a header line as one-hot examples.
func ReadCSV(r io.Reader, classes, maxSamples int) ([]Example, error) {
	return dataset.ReadCSV(r, classes, maxSamples)
}

// OneHot returns a vector of length classes with a 1 at label.
func OneHot(label, classes int) []float32 {
	return dataset.OneHot(label, classes)
}

// Split divides examples into training and validation parts.
func Split(examples []Example, validationRatio float32) (train, validation []Example) {
	return dataset.Split(examples, validationRatio)
}
