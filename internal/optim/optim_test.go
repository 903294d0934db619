package optim_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/backend/naive"
	"github.com/born-ml/dense/internal/matrix"
	"github.com/born-ml/dense/internal/nn"
	"github.com/born-ml/dense/internal/optim"
)

// newParam creates a parameter with the given values and gradient.
func newParam(t *testing.T, value, grad []float32) *nn.Parameter {
	t.Helper()
	b := naive.New()
	v, err := matrix.FromSlice(len(value), 1, value, b)
	require.NoError(t, err)
	p := nn.NewParameter("x", v)
	copy(p.Grad().Data(), grad)
	return p
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	p := newParam(t, []float32{2.0}, []float32{1.0})
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	opt.Optimize(p)

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, p.Value().Data()[0], 1e-6)
	assert.Equal(t, 1, p.Timestep())
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	p := newParam(t, []float32{2.0}, []float32{1.0})
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1, x = 2 - 0.1
	opt.Optimize(p)
	assert.InDelta(t, 1.9, p.Value().Data()[0], 1e-6)

	// Step 2: v = 0.9 + 1, x = 1.9 - 0.19
	opt.Optimize(p)
	assert.InDelta(t, 1.71, p.Value().Data()[0], 1e-6)
	assert.InDelta(t, 1.9, p.Moment1().Data()[0], 1e-6)
}

// TestSGD_Defaults tests default hyperparameters.
func TestSGD_Defaults(t *testing.T) {
	opt := optim.NewSGD(optim.SGDConfig{})
	assert.InDelta(t, 0.01, opt.LR(), 1e-7)
	assert.Zero(t, opt.Momentum())
}

// TestAdam_FirstStep tests that the first update moves each weight by about
// lr against the sign of its gradient.
func TestAdam_FirstStep(t *testing.T) {
	p := newParam(t, []float32{1, 1, 1}, []float32{0.5, -3, 1e-3})
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})

	opt.Optimize(p)

	assert.InDeltaSlice(t, []float32{0.99, 1.01, 0.99}, p.Value().Data(), 1e-4)
	assert.Equal(t, 1, p.Timestep())
}

// TestAdam_ZeroGradient tests that a zero gradient leaves the value unchanged.
func TestAdam_ZeroGradient(t *testing.T) {
	p := newParam(t, []float32{0.3, -0.7}, []float32{0, 0})
	opt := optim.NewAdam(optim.AdamConfig{})

	for i := 0; i < 5; i++ {
		opt.Optimize(p)
	}

	assert.Equal(t, []float32{0.3, -0.7}, p.Value().Data())
	assert.Equal(t, 5, p.Timestep())
}

// TestAdam_MomentsStayValid tests that every non-zero gradient moves the
// value and the second moment never goes negative.
func TestAdam_MomentsStayValid(t *testing.T) {
	const n = 4096 // large enough for the parallel path
	rng := rand.New(rand.NewSource(9))

	value := make([]float32, n)
	p := newParam(t, value, nil)
	opt := optim.NewAdam(optim.AdamConfig{LR: 1e-3})

	for step := 0; step < 20; step++ {
		g := p.Grad().Data()
		for i := range g {
			g[i] = float32(rng.NormFloat64())
			if g[i] == 0 {
				g[i] = 1
			}
		}
		before := append([]float32(nil), p.Value().Data()...)

		opt.Optimize(p)

		for i, v := range p.Value().Data() {
			require.NotEqual(t, before[i], v, "step %d index %d", step, i)
		}
		for _, v := range p.Moment2().Data() {
			require.GreaterOrEqual(t, v, float32(0))
		}
	}
}

// TestAdam_Defaults tests default hyperparameters.
func TestAdam_Defaults(t *testing.T) {
	opt := optim.NewAdam(optim.AdamConfig{})
	assert.InDelta(t, 1e-3, opt.LR(), 1e-7)
	betas := opt.Betas()
	assert.InDeltaSlice(t, []float32{0.9, 0.999}, betas[:], 1e-7)
	assert.InDelta(t, 1e-8, opt.Eps(), 1e-12)

	faster := opt.WithLR(0.1)
	assert.InDelta(t, 0.1, faster.LR(), 1e-7)
	assert.InDelta(t, 1e-3, opt.LR(), 1e-7)
}

// TestAdam_ResetState tests that clearing parameter state restarts the
// bias correction.
func TestAdam_ResetState(t *testing.T) {
	p := newParam(t, []float32{0}, []float32{1})
	q := newParam(t, []float32{0}, []float32{1})
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.1})

	opt.Optimize(p)
	opt.Optimize(q)
	p.ResetState()
	opt.Optimize(p)
	assert.Equal(t, 1, p.Timestep())

	// Both have now taken a fresh first step from state zero.
	q.ResetState()
	q.Value().Data()[0] = p.Value().Data()[0] + 0.1
	opt.Optimize(q)
	assert.InDelta(t, p.Value().Data()[0], q.Value().Data()[0], 1e-5)
}

// TestOptimizer_Interface tests that both optimizers satisfy the network contract.
func TestOptimizer_Interface(t *testing.T) {
	for _, opt := range []optim.Optimizer{
		optim.NewSGD(optim.SGDConfig{}),
		optim.NewAdam(optim.AdamConfig{}),
	} {
		_, ok := opt.(nn.Optimizer)
		assert.True(t, ok)
	}
}
