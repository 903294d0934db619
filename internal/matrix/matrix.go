// Package matrix implements a fixed-shape dense float32 matrix stored in
// column-major order, with products dispatched to an injected Backend.
package matrix

import (
	"fmt"
	"math/rand"
)

// Matrix is a dense rows×cols matrix of float32 values.
//
// Storage is column-major: element (r, c) lives at offset c*rows + r of the
// backing buffer. Dimensions are fixed at construction while the content is
// mutable in place, which is what gradient accumulation relies on.
//
// Every matrix carries the Backend used by its products. Matrices derived
// from a receiver (clones, sums, tiles) inherit the receiver's backend.
type Matrix struct {
	rows    int
	cols    int
	data    []float32
	backend Backend
}

// New creates a zero-filled rows×cols matrix.
//
// Panics if a dimension is not positive or backend is nil.
func New(rows, cols int, backend Backend) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("matrix.New: invalid dimensions [%d,%d]", rows, cols))
	}
	if backend == nil {
		panic("matrix.New: nil backend")
	}
	return &Matrix{
		rows:    rows,
		cols:    cols,
		data:    make([]float32, rows*cols),
		backend: backend,
	}
}

// Full creates a rows×cols matrix with every element set to value.
func Full(rows, cols int, value float32, backend Backend) *Matrix {
	m := New(rows, cols, backend)
	m.Fill(value)
	return m
}

// Random creates a rows×cols matrix with elements drawn uniformly from [lo, hi).
//
// rng supplies the randomness so callers control reproducibility.
func Random(rows, cols int, lo, hi float32, rng *rand.Rand, backend Backend) *Matrix {
	m := New(rows, cols, backend)
	span := float64(hi - lo)
	for i := range m.data {
		m.data[i] = lo + float32(rng.Float64()*span)
	}
	return m
}

// FromColumns assembles a matrix from equal-length column vectors.
//
// Column j of the result is a copy of columns[j]; this is how a batch is
// built from one vector per example.
func FromColumns(columns [][]float32, backend Backend) (*Matrix, error) {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, fmt.Errorf("from columns: %w: empty input", ErrShapeMismatch)
	}
	rows := len(columns[0])
	m := New(rows, len(columns), backend)
	for c, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("from columns: column %d: %w",
				c, shapeError("from columns", rows, 1, len(col), 1))
		}
		copy(m.data[c*rows:(c+1)*rows], col)
	}
	return m, nil
}

// FromSlice creates a rows×cols matrix from a column-major buffer.
//
// The buffer is copied.
func FromSlice(rows, cols int, data []float32, backend Backend) (*Matrix, error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("from slice: %w: %d elements for [%d,%d]",
			ErrShapeMismatch, len(data), rows, cols)
	}
	m := New(rows, cols, backend)
	copy(m.data, data)
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Len returns rows*cols.
func (m *Matrix) Len() int { return len(m.data) }

// Backend returns the backend used for products.
func (m *Matrix) Backend() Backend { return m.backend }

// Data borrows the column-major backing buffer.
//
// The slice is capped at Len so appends never write past the matrix. It
// aliases the matrix: writes are visible to it and it is only valid while the
// matrix is in use.
func (m *Matrix) Data() []float32 {
	return m.data[:len(m.data):len(m.data)]
}

// At returns element (r, c).
func (m *Matrix) At(r, c int) (float32, error) {
	if err := m.checkBounds(r, c); err != nil {
		return 0, err
	}
	return m.data[c*m.rows+r], nil
}

// Set stores v at element (r, c).
func (m *Matrix) Set(r, c int, v float32) error {
	if err := m.checkBounds(r, c); err != nil {
		return err
	}
	m.data[c*m.rows+r] = v
	return nil
}

// Column borrows column c of the backing buffer.
func (m *Matrix) Column(c int) ([]float32, error) {
	if c < 0 || c >= m.cols {
		return nil, fmt.Errorf("column %d of %d: %w", c, m.cols, ErrOutOfRange)
	}
	return m.data[c*m.rows : (c+1)*m.rows : (c+1)*m.rows], nil
}

// Columns copies the matrix out as one slice per column.
func (m *Matrix) Columns() [][]float32 {
	out := make([][]float32, m.cols)
	for c := range out {
		out[c] = make([]float32, m.rows)
		copy(out[c], m.data[c*m.rows:(c+1)*m.rows])
	}
	return out
}

// SameShape reports whether o has the same dimensions as m.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// String returns a short description such as "Matrix[3x4]".
func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix[%dx%d]", m.rows, m.cols)
}

func (m *Matrix) checkBounds(r, c int) error {
	if r < 0 || r >= m.rows {
		return fmt.Errorf("row %d of %d: %w", r, m.rows, ErrOutOfRange)
	}
	if c < 0 || c >= m.cols {
		return fmt.Errorf("column %d of %d: %w", c, m.cols, ErrOutOfRange)
	}
	return nil
}
