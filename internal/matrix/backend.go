package matrix

// Transpose selects op(X) for the BLAS-style primitives: X or Xᵗ.
type Transpose int

const (
	// NoTrans uses the operand as stored.
	NoTrans Transpose = iota
	// Trans uses the transpose of the operand.
	Trans
)

// String returns the BLAS flag letter ("N" or "T").
func (t Transpose) String() string {
	if t == Trans {
		return "T"
	}
	return "N"
}

// Backend defines the linear-algebra primitives every matrix relies on.
//
// All buffers are column-major: element (r, c) of a matrix with leading
// dimension ld lives at offset c*ld + r. Argument meaning matches the
// reference BLAS routines sgemv, sger, saxpy and sgemm exactly, so layers
// produce identical results regardless of which implementation is injected.
//
// Implementations:
//   - backend/cpu: gonum's native Go BLAS kernels
//   - backend/naive: portable loop-based reference
type Backend interface {
	// Gemv computes y := alpha*op(A)*x + beta*y, where A is m×n.
	Gemv(tA Transpose, m, n int, alpha float32, a []float32, lda int, x []float32, incX int, beta float32, y []float32, incY int)

	// Ger computes A := alpha*x*yᵗ + A, where A is m×n.
	Ger(m, n int, alpha float32, x []float32, incX int, y []float32, incY int, a []float32, lda int)

	// Axpy computes y := alpha*x + y over n elements.
	Axpy(n int, alpha float32, x []float32, incX int, y []float32, incY int)

	// Gemm computes C := alpha*op(A)*op(B) + beta*C, where op(A) is m×k,
	// op(B) is k×n and C is m×n.
	Gemm(tA, tB Transpose, m, n, k int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int)

	// Name identifies the implementation.
	Name() string
}
