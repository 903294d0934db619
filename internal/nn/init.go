package nn

import (
	"math/rand"

	"github.com/born-ml/dense/internal/matrix"
)

// DefaultDispersion is the half-width of the default weight initialization range.
const DefaultDispersion = 5e-2

// Initializer creates initial parameter matrices.
type Initializer interface {
	Matrix(rows, cols int, backend matrix.Backend) *matrix.Matrix
}

// RandomInitializer draws weights uniformly from [-Dispersion, Dispersion).
//
// A zero Dispersion means DefaultDispersion. A nil Rand uses a generator
// seeded from the global source, so pass one explicitly for reproducible runs.
type RandomInitializer struct {
	Dispersion float32
	Rand       *rand.Rand
}

// Matrix creates a rows×cols random matrix.
func (r *RandomInitializer) Matrix(rows, cols int, backend matrix.Backend) *matrix.Matrix {
	d := r.Dispersion
	if d == 0 {
		d = DefaultDispersion
	}
	rng := r.Rand
	if rng == nil {
		//nolint:gosec // Weight initialization is not security-critical.
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return matrix.Random(rows, cols, -d, d, rng, backend)
}

// ConstantInitializer fills every weight with Value.
type ConstantInitializer struct {
	Value float32
}

// Matrix creates a rows×cols constant matrix.
func (c ConstantInitializer) Matrix(rows, cols int, backend matrix.Backend) *matrix.Matrix {
	return matrix.Full(rows, cols, c.Value, backend)
}
