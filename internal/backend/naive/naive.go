// Package naive implements the matrix backend with plain loops.
//
// It is the portable reference for the column-major BLAS contract: slow, but
// short enough to audit by eye, which is why tests compare every other
// backend against it.
package naive

import "github.com/born-ml/dense/internal/matrix"

// Backend performs every primitive with straightforward loops.
type Backend struct{}

// Compile-time check that Backend implements matrix.Backend.
var _ matrix.Backend = (*Backend)(nil)

// New creates a loop-based backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (*Backend) Name() string {
	return "naive"
}

// start returns the offset of the first logical element of a strided vector.
func start(n, inc int) int {
	if inc < 0 {
		return (1 - n) * inc
	}
	return 0
}

// Gemv computes y := alpha*op(A)*x + beta*y with A stored m×n column-major.
func (*Backend) Gemv(tA matrix.Transpose, m, n int, alpha float32, a []float32, lda int, x []float32, incX int, beta float32, y []float32, incY int) {
	lenX, lenY := n, m
	if tA == matrix.Trans {
		lenX, lenY = m, n
	}

	ky := start(lenY, incY)
	for i := 0; i < lenY; i++ {
		iy := ky + i*incY
		if beta == 0 {
			y[iy] = 0
		} else {
			y[iy] *= beta
		}
	}
	if alpha == 0 {
		return
	}

	kx := start(lenX, incX)
	for i := 0; i < lenY; i++ {
		var sum float32
		for j := 0; j < lenX; j++ {
			var aij float32
			if tA == matrix.Trans {
				aij = a[i*lda+j] // A[j, i]
			} else {
				aij = a[j*lda+i] // A[i, j]
			}
			sum += aij * x[kx+j*incX]
		}
		y[ky+i*incY] += alpha * sum
	}
}

// Ger computes A := alpha*x*yᵗ + A with A stored m×n column-major.
func (*Backend) Ger(m, n int, alpha float32, x []float32, incX int, y []float32, incY int, a []float32, lda int) {
	if alpha == 0 {
		return
	}
	kx, ky := start(m, incX), start(n, incY)
	for j := 0; j < n; j++ {
		yj := alpha * y[ky+j*incY]
		for i := 0; i < m; i++ {
			a[j*lda+i] += x[kx+i*incX] * yj
		}
	}
}

// Axpy computes y := alpha*x + y.
func (*Backend) Axpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) {
	kx, ky := start(n, incX), start(n, incY)
	for i := 0; i < n; i++ {
		y[ky+i*incY] += alpha * x[kx+i*incX]
	}
}

// Gemm computes C := alpha*op(A)*op(B) + beta*C with every operand column-major.
func (*Backend) Gemm(tA, tB matrix.Transpose, m, n, k int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	at := func(i, l int) float32 { // op(A)[i, l]
		if tA == matrix.Trans {
			return a[i*lda+l]
		}
		return a[l*lda+i]
	}
	bt := func(l, j int) float32 { // op(B)[l, j]
		if tB == matrix.Trans {
			return b[l*ldb+j]
		}
		return b[j*ldb+l]
	}

	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			var sum float32
			for l := 0; l < k; l++ {
				sum += at(i, l) * bt(l, j)
			}
			idx := j*ldc + i
			if beta == 0 {
				c[idx] = alpha * sum
			} else {
				c[idx] = alpha*sum + beta*c[idx]
			}
		}
	}
}
