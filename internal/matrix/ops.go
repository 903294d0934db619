package matrix

// Clone returns a deep copy of m sharing only the backend.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{
		rows:    m.rows,
		cols:    m.cols,
		data:    make([]float32, len(m.data)),
		backend: m.backend,
	}
	copy(out.data, m.data)
	return out
}

// Clear sets every element to zero.
func (m *Matrix) Clear() {
	clear(m.data)
}

// Fill sets every element to v.
func (m *Matrix) Fill(v float32) {
	for i := range m.data {
		m.data[i] = v
	}
}

// CopyFrom overwrites m with the content of src.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if !m.SameShape(src) {
		return shapeError("copy", m.rows, m.cols, src.rows, src.cols)
	}
	copy(m.data, src.data)
	return nil
}

// Scale returns alpha*m as a new matrix.
func (m *Matrix) Scale(alpha float32) *Matrix {
	out := New(m.rows, m.cols, m.backend)
	for i, v := range m.data {
		out.data[i] = v * alpha
	}
	return out
}

// Negate returns -m as a new matrix.
func (m *Matrix) Negate() *Matrix {
	return m.Scale(-1)
}

// Add returns m + o as a new matrix.
func (m *Matrix) Add(o *Matrix) (*Matrix, error) {
	if !m.SameShape(o) {
		return nil, shapeError("add", m.rows, m.cols, o.rows, o.cols)
	}
	out := New(m.rows, m.cols, m.backend)
	for i := range m.data {
		out.data[i] = m.data[i] + o.data[i]
	}
	return out, nil
}

// Sub returns m - o as a new matrix.
func (m *Matrix) Sub(o *Matrix) (*Matrix, error) {
	if !m.SameShape(o) {
		return nil, shapeError("sub", m.rows, m.cols, o.rows, o.cols)
	}
	out := New(m.rows, m.cols, m.backend)
	for i := range m.data {
		out.data[i] = m.data[i] - o.data[i]
	}
	return out, nil
}

// Hadamard returns the elementwise product m ∘ o as a new matrix.
func (m *Matrix) Hadamard(o *Matrix) (*Matrix, error) {
	if !m.SameShape(o) {
		return nil, shapeError("hadamard", m.rows, m.cols, o.rows, o.cols)
	}
	out := New(m.rows, m.cols, m.backend)
	for i := range m.data {
		out.data[i] = m.data[i] * o.data[i]
	}
	return out, nil
}

// Tile repeats a column vector into a rows×cols matrix of identical columns.
//
// Fails unless m has exactly one column.
func (m *Matrix) Tile(cols int) (*Matrix, error) {
	if m.cols != 1 {
		return nil, shapeError("tile", m.rows, 1, m.rows, m.cols)
	}
	out := New(m.rows, cols, m.backend)
	for c := 0; c < cols; c++ {
		copy(out.data[c*m.rows:(c+1)*m.rows], m.data)
	}
	return out, nil
}

// Clamp limits every element to [lo, hi] in place.
func (m *Matrix) Clamp(lo, hi float32) {
	for i, v := range m.data {
		m.data[i] = min(max(v, lo), hi)
	}
}

// Sum returns the sum of all elements, accumulated in float64.
func (m *Matrix) Sum() float64 {
	var s float64
	for _, v := range m.data {
		s += float64(v)
	}
	return s
}
