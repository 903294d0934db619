package nn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/dense/internal/matrix"
)

// newTestNetwork builds Linear(in→hidden) → Sigmoid → Linear(hidden→out) → Softmax.
func newTestNetwork(t *testing.T, batchSize int, seed int64) *Network {
	t.Helper()
	init := &RandomInitializer{Dispersion: 0.5, Rand: rand.New(rand.NewSource(seed))}
	net, err := NewNetwork(batchSize,
		NewLinearWithInit(3, 4, init, testBackend),
		NewSigmoid(4),
		NewLinearWithInit(4, 2, init, testBackend),
		NewSoftmax(2),
	)
	require.NoError(t, err)
	return net
}

func testBatch(t *testing.T) (input, target *matrix.Matrix) {
	t.Helper()
	input = mat(t, 3, 2, 0.5, -1, 2, 1, 0, -0.5)
	target = mat(t, 2, 2, 1, 0, 0, 1)
	return input, target
}

func gradients(net *Network) [][]float32 {
	var out [][]float32
	for _, p := range net.Parameters() {
		out = append(out, append([]float32(nil), p.Grad().Data()...))
	}
	return out
}

func TestNewNetwork_ConfigError(t *testing.T) {
	_, err := NewNetwork(1,
		NewLinear(4, 3, testBackend),
		NewLinear(5, 2, testBackend),
	)
	require.ErrorIs(t, err, ErrConfiguration)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Index)
	assert.Equal(t, 3, ce.OutputSize)
	assert.Equal(t, 5, ce.InputSize)
	assert.Equal(t, "incompatible network configuration: layer #1 output 3 != layer #2 input 5", err.Error())

	_, err = NewNetwork(1)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewNetwork(0, NewSigmoid(2))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNetwork_Shape(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	assert.Equal(t, 4, net.Len())
	assert.Equal(t, 3, net.InputSize())
	assert.Equal(t, 2, net.OutputSize())
	assert.Equal(t, 3*4+4+4*2+2, net.TotalParamCount())
	assert.Len(t, net.Parameters(), 4)
	assert.IsType(t, &Sigmoid{}, net.Layer(1))
	assert.Panics(t, func() { net.Layer(4) })
}

func TestNetwork_StepProducesDistributions(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	input, _ := testBatch(t)

	out, err := net.Step(input, false)
	require.NoError(t, err)
	for c := 0; c < out.Cols(); c++ {
		col, _ := out.Column(c)
		assert.InDelta(t, 1, col[0]+col[1], 1e-6)
	}
}

func TestNetwork_BackPropagateBeforeStep(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	_, target := testBatch(t)

	_, err := net.BackPropagate(target, false)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestNetwork_TestLeavesGradients(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	input, target := testBatch(t)

	trainLoss, err := net.Train(input, target)
	require.NoError(t, err)
	before := gradients(net)
	recorded := net.Layer(0).Input()

	_, testLoss, err := net.Test(input, target)
	require.NoError(t, err)
	assert.Equal(t, before, gradients(net))
	assert.Same(t, recorded, net.Layer(0).Input())
	assert.InDelta(t, trainLoss, testLoss, 1e-9)
}

func TestNetwork_TrainAccumulate(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	input, target := testBatch(t)

	_, err := net.Train(input, target)
	require.NoError(t, err)
	once := gradients(net)

	_, err = net.TrainAccumulate(input, target)
	require.NoError(t, err)
	twice := gradients(net)

	for i := range once {
		for j := range once[i] {
			assert.InDelta(t, 2*once[i][j], twice[i][j], 1e-6)
		}
	}

	// Train starts over.
	_, err = net.Train(input, target)
	require.NoError(t, err)
	assert.Equal(t, once, gradients(net))
}

func TestNetwork_SetBatchSize(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	input, target := testBatch(t)

	_, err := net.Train(input, target)
	require.NoError(t, err)

	require.NoError(t, net.SetBatchSize(4))
	assert.Equal(t, 4, net.BatchSize())
	for i := 0; i < net.Len(); i++ {
		assert.Nil(t, net.Layer(i).Output(), "layer %d", i)
		assert.Equal(t, 4, net.Layer(i).BatchSize())
	}

	_, err = net.BackPropagate(target, false)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = net.Step(input, false)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)

	assert.ErrorIs(t, net.SetBatchSize(0), ErrConfiguration)
}

func TestNetwork_BackPropagateInputSensitivity(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	input, target := testBatch(t)

	_, err := net.Step(input, true)
	require.NoError(t, err)

	sens, err := net.BackPropagate(target, true)
	require.NoError(t, err)
	require.NotNil(t, sens)
	assert.Equal(t, 3, sens.Rows())
	assert.Equal(t, 2, sens.Cols())

	sens, err = net.BackPropagate(target, false)
	require.NoError(t, err)
	assert.Nil(t, sens)
}

func TestNetwork_OptimizeWithoutOptimizer(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	err := net.Optimize()
	assert.ErrorIs(t, err, ErrNoOptimizer)
	assert.ErrorIs(t, err, ErrInvalidState)
}

// stepOptimizer is plain gradient descent, enough to observe Optimize.
type stepOptimizer struct{ lr float32 }

func (o stepOptimizer) Optimize(p *Parameter) {
	p.Tick()
	_ = p.Value().AddScaled(p.Grad(), -o.lr)
}

func TestNetwork_Optimize(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	net.Layer(3).SetLoss(NewMeanSquaredError())
	net.SetOptimizer(stepOptimizer{lr: 0.5})
	input, target := testBatch(t)

	first, err := net.Train(input, target)
	require.NoError(t, err)
	require.NoError(t, net.Optimize())
	for _, p := range net.Parameters() {
		assert.Equal(t, 1, p.Timestep())
	}

	_, second, err := net.Test(input, target)
	require.NoError(t, err)
	assert.Less(t, second, first)

	net.ResetOptimizer()
	for _, p := range net.Parameters() {
		assert.Equal(t, 0, p.Timestep())
	}
}

func TestNetwork_ClampAndClear(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	input, target := testBatch(t)
	_, err := net.Train(input, target)
	require.NoError(t, err)

	net.ClampGradients(1e-3)
	for _, g := range gradients(net) {
		for _, v := range g {
			assert.LessOrEqual(t, float32(math.Abs(float64(v))), float32(1e-3))
		}
	}

	net.ClearGradients()
	for _, g := range gradients(net) {
		for _, v := range g {
			assert.Zero(t, v)
		}
	}
}

func TestNetwork_Clone(t *testing.T) {
	net := newTestNetwork(t, 2, 1)
	net.SetOptimizer(stepOptimizer{lr: 0.1})
	input, target := testBatch(t)

	c := net.Clone()
	assert.Equal(t, net.BatchSize(), c.BatchSize())
	assert.Equal(t, net.Optimizer(), c.Optimizer())

	_, err := c.Train(input, target)
	require.NoError(t, err)
	require.NoError(t, c.Optimize())

	for _, p := range net.Parameters() {
		assert.Zero(t, p.Timestep())
		for _, v := range p.Grad().Data() {
			assert.Zero(t, v)
		}
	}
}

// TestNetwork_GradientCheck compares BackPropagate against a central
// difference of the loss for every weight and bias entry.
//
// The softmax is paired with mean squared error here: its gradient
// (output - target)/batch is the exact derivative of the bound loss, so the
// check isolates the layer Jacobians.
func TestNetwork_GradientCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	init := &RandomInitializer{Dispersion: 1, Rand: rng}
	softmax := NewSoftmax(3)
	softmax.SetLoss(NewMeanSquaredError())

	net, err := NewNetwork(4,
		NewLinearWithInit(3, 3, init, testBackend),
		NewSigmoid(3),
		softmax,
	)
	require.NoError(t, err)

	input := matrix.Random(3, 4, -1, 1, rng, testBackend)
	target := mat(t, 3, 4,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 0, 0,
	)

	_, err = net.Train(input, target)
	require.NoError(t, err)

	for _, p := range net.Parameters() {
		value := p.Value().Data()
		x := make([]float64, len(value))
		for i, v := range value {
			x[i] = float64(v)
		}

		loss := func(x []float64) float64 {
			for i, v := range x {
				value[i] = float32(v)
			}
			_, l, err := net.Test(input, target)
			require.NoError(t, err)
			return l
		}
		numeric := fd.Gradient(nil, loss, x, &fd.Settings{Formula: fd.Central, Step: 1e-4})
		loss(x)

		for i, n := range numeric {
			a := float64(p.Grad().Data()[i])
			tol := 1e-2*math.Max(math.Abs(a), math.Abs(n)) + 1e-3
			assert.InDelta(t, n, a, tol, "%s[%d]", p.Name(), i)
		}
	}
}
