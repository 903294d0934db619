package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/backend/naive"
	"github.com/born-ml/dense/internal/matrix"
)

var testBackend = naive.New()

// mat builds a column-major test matrix.
func mat(t *testing.T, rows, cols int, data ...float32) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromSlice(rows, cols, data, testBackend)
	require.NoError(t, err)
	return m
}

// newTestLinear returns a 2→2 layer with W = [[1 2] [3 4]] and b = [0.5 -1].
func newTestLinear(t *testing.T, batchSize int) *Linear {
	t.Helper()
	l := NewLinear(2, 2, testBackend)
	copy(l.Weight().Value().Data(), []float32{1, 3, 2, 4})
	copy(l.Bias().Value().Data(), []float32{0.5, -1})
	l.Initialize(batchSize)
	return l
}

func TestLinear_Shape(t *testing.T) {
	l := NewLinear(784, 128, testBackend)
	assert.Equal(t, 784, l.InputSize())
	assert.Equal(t, 128, l.OutputSize())
	assert.Equal(t, 784*128+128, l.TotalParamCount())
	assert.Len(t, l.Parameters(), 2)

	for _, v := range l.Weight().Value().Data() {
		assert.LessOrEqual(t, v, float32(DefaultDispersion))
		assert.GreaterOrEqual(t, v, float32(-DefaultDispersion))
	}
}

func TestLinear_Step(t *testing.T) {
	l := newTestLinear(t, 2)

	out, err := l.Step(mat(t, 2, 2, 1, 1, 2, 0), true)
	require.NoError(t, err)
	assert.Equal(t, []float32{3.5, 6, 2.5, 5}, out.Data())
	assert.Same(t, out, l.Output())
}

func TestLinear_StepErrors(t *testing.T) {
	l := newTestLinear(t, 2)

	_, err := l.Step(mat(t, 3, 2, 1, 2, 3, 4, 5, 6), true)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch, "wrong input size")

	_, err = l.Step(mat(t, 2, 1, 1, 2), true)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch, "wrong batch size")
}

func TestLinear_BackPropagate(t *testing.T) {
	l := newTestLinear(t, 2)
	_, err := l.Step(mat(t, 2, 2, 1, 1, 2, 0), true)
	require.NoError(t, err)

	sens, err := l.BackPropagate(matrix.Full(2, 2, 1, testBackend), true, true)
	require.NoError(t, err)

	assert.Equal(t, []float32{3, 3, 1, 1}, l.Weight().Grad().Data())
	assert.Equal(t, []float32{2, 2}, l.Bias().Grad().Data())
	assert.Equal(t, []float32{4, 6, 4, 6}, sens.Data())

	// A second pass without clearing accumulates.
	_, err = l.BackPropagate(matrix.Full(2, 2, 1, testBackend), false, false)
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 6, 2, 2}, l.Weight().Grad().Data())
	assert.Equal(t, []float32{4, 4}, l.Bias().Grad().Data())

	// Clearing restarts accumulation.
	_, err = l.BackPropagate(matrix.Full(2, 2, 1, testBackend), false, true)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2}, l.Bias().Grad().Data())
}

func TestLinear_BackPropagateSingleColumn(t *testing.T) {
	l := newTestLinear(t, 1)
	_, err := l.Step(mat(t, 2, 1, 1, 2), true)
	require.NoError(t, err)

	sens, err := l.BackPropagate(mat(t, 2, 1, 1, -1), false, true)
	require.NoError(t, err)
	assert.Nil(t, sens)
	assert.Equal(t, []float32{1, -1, 2, -2}, l.Weight().Grad().Data())
	assert.Equal(t, []float32{1, -1}, l.Bias().Grad().Data())
}

func TestLinear_BackPropagateBeforeStep(t *testing.T) {
	l := newTestLinear(t, 2)
	_, err := l.BackPropagate(matrix.Full(2, 2, 1, testBackend), true, true)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLinear_InitializeDropsActivations(t *testing.T) {
	l := newTestLinear(t, 2)
	_, err := l.Step(mat(t, 2, 2, 1, 1, 2, 0), true)
	require.NoError(t, err)

	l.Initialize(4)
	assert.Nil(t, l.Input())
	assert.Nil(t, l.Output())
	assert.Equal(t, 4, l.BatchSize())
}

func TestLinear_InferenceDoesNotRecord(t *testing.T) {
	l := newTestLinear(t, 2)
	_, err := l.Step(mat(t, 2, 2, 1, 1, 2, 0), false)
	require.NoError(t, err)
	assert.Nil(t, l.Output())
}

func TestLinear_Clone(t *testing.T) {
	l := newTestLinear(t, 2)
	c := l.Clone().(*Linear)

	c.Weight().Value().Data()[0] = 100
	assert.Equal(t, float32(1), l.Weight().Value().Data()[0])
	assert.Equal(t, l.BatchSize(), c.BatchSize())
}

func TestLinear_ClampAndReset(t *testing.T) {
	l := newTestLinear(t, 2)
	_, err := l.Step(mat(t, 2, 2, 1, 1, 2, 0), true)
	require.NoError(t, err)
	_, err = l.BackPropagate(matrix.Full(2, 2, 1, testBackend), false, true)
	require.NoError(t, err)

	l.ClampGradients(1.5)
	assert.Equal(t, []float32{1.5, 1.5, 1, 1}, l.Weight().Grad().Data())

	l.Weight().Moment1().Fill(1)
	l.Weight().Tick()
	l.ResetOptimizer()
	assert.Equal(t, 0, l.Weight().Timestep())
	assert.Equal(t, []float32{0, 0, 0, 0}, l.Weight().Moment1().Data())

	l.ClearGradients()
	assert.Equal(t, []float32{0, 0, 0, 0}, l.Weight().Grad().Data())
}
