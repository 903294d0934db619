package cpu

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"

	"github.com/born-ml/dense/internal/matrix"
)

// Backend runs the matrix primitives on gonum's native Go BLAS.
//
// gonum's kernels are row-major while matrices here are column-major. A
// column-major m×n buffer with leading dimension ld is exactly a row-major
// n×m buffer holding the transpose, so every call is rewritten in terms of
// transposes instead of copying data:
//
//	Gemm  C = op(A)op(B)  ->  Cᵗ = op(B)ᵗop(A)ᵗ   (swap operands, keep flags)
//	Gemv  y = op(A)x      ->  flip the flag, swap m and n
//	Ger   A += x yᵗ       ->  Aᵗ += y xᵗ          (swap x/y, swap m and n)
type Backend struct {
	impl gonum.Implementation
}

// Compile-time check that Backend implements matrix.Backend.
var _ matrix.Backend = (*Backend)(nil)

// New creates a CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (*Backend) Name() string {
	return "CPU"
}

func toBLAS(t matrix.Transpose) blas.Transpose {
	if t == matrix.Trans {
		return blas.Trans
	}
	return blas.NoTrans
}

func flip(t matrix.Transpose) blas.Transpose {
	if t == matrix.Trans {
		return blas.NoTrans
	}
	return blas.Trans
}

// Gemv computes y := alpha*op(A)*x + beta*y with A stored m×n column-major.
func (b *Backend) Gemv(tA matrix.Transpose, m, n int, alpha float32, a []float32, lda int, x []float32, incX int, beta float32, y []float32, incY int) {
	b.impl.Sgemv(flip(tA), n, m, alpha, a, lda, x, incX, beta, y, incY)
}

// Ger computes A := alpha*x*yᵗ + A with A stored m×n column-major.
func (b *Backend) Ger(m, n int, alpha float32, x []float32, incX int, y []float32, incY int, a []float32, lda int) {
	b.impl.Sger(n, m, alpha, y, incY, x, incX, a, lda)
}

// Axpy computes y := alpha*x + y.
func (b *Backend) Axpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) {
	b.impl.Saxpy(n, alpha, x, incX, y, incY)
}

// Gemm computes C := alpha*op(A)*op(B) + beta*C with every operand column-major.
func (b *Backend) Gemm(tA, tB matrix.Transpose, m, n, k int, alpha float32, a []float32, lda int, bm []float32, ldb int, beta float32, c []float32, ldc int) {
	b.impl.Sgemm(toBLAS(tB), toBLAS(tA), n, m, k, alpha, bm, ldb, a, lda, beta, c, ldc)
}
