package matrix

import "fmt"

// opShape returns the dimensions of op(x).
func opShape(x *Matrix, t Transpose) (rows, cols int) {
	if t == Trans {
		return x.cols, x.rows
	}
	return x.rows, x.cols
}

// Accumulate computes m = beta*m + alpha*op(a)*op(b).
//
// With op(a) of shape rows×k and op(b) of shape k×n, the call is routed to
// the cheapest backend primitive:
//
//	n > 1, k > 1   Gemm (matrix-matrix)
//	n = 1, k > 1   Gemv (matrix-vector)
//	k = 1          Ger  (rank-1 update, m pre-scaled by beta)
//
// The vector operands of Gemv and Ger are always contiguous because a single
// effective row or column of a column-major matrix is stored densely.
//
// m must not share its buffer with a or b.
func (m *Matrix) Accumulate(a, b *Matrix, beta, alpha float32, tA, tB Transpose) error {
	rowsA, k := opShape(a, tA)
	rowsB, n := opShape(b, tB)
	if k != rowsB {
		return fmt.Errorf("accumulate %s%s: inner dimensions: %w",
			tA, tB, shapeError("accumulate", k, n, rowsB, n))
	}
	if m.rows != rowsA || m.cols != n {
		return fmt.Errorf("accumulate %s%s: result: %w",
			tA, tB, shapeError("accumulate", rowsA, n, m.rows, m.cols))
	}
	if m.aliases(a) || m.aliases(b) {
		return fmt.Errorf("accumulate: %w", ErrAliased)
	}

	switch {
	case k == 1:
		m.scaleInPlace(beta)
		m.backend.Ger(rowsA, n, alpha, a.data, 1, b.data, 1, m.data, m.rows)
	case n == 1:
		m.backend.Gemv(tA, a.rows, a.cols, alpha, a.data, a.rows, b.data, 1, beta, m.data, 1)
	default:
		m.backend.Gemm(tA, tB, rowsA, n, k, alpha, a.data, a.rows, b.data, b.rows, beta, m.data, m.rows)
	}
	return nil
}

// AddScaled computes m += alpha*a.
//
// A single-column operand goes through the backend's Axpy; wider operands are
// added elementwise. a may be m itself.
func (m *Matrix) AddScaled(a *Matrix, alpha float32) error {
	if !m.SameShape(a) {
		return shapeError("add scaled", m.rows, m.cols, a.rows, a.cols)
	}
	if a.cols == 1 {
		m.backend.Axpy(len(a.data), alpha, a.data, 1, m.data, 1)
		return nil
	}
	for i, v := range a.data {
		m.data[i] += alpha * v
	}
	return nil
}

// Mul returns the product a*b as a new matrix using a's backend.
func Mul(a, b *Matrix) (*Matrix, error) {
	out := New(a.rows, b.cols, a.backend)
	if err := out.Accumulate(a, b, 0, 1, NoTrans, NoTrans); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Matrix) scaleInPlace(beta float32) {
	switch beta {
	case 1:
	case 0:
		clear(m.data)
	default:
		for i := range m.data {
			m.data[i] *= beta
		}
	}
}

func (m *Matrix) aliases(o *Matrix) bool {
	return &m.data[0] == &o.data[0]
}
