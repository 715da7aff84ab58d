package sparse

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSC is an immutable compressed-sparse-column matrix.
// Column j stores rows ind[indptr[j]:indptr[j+1]] in ascending order.
type CSC struct {
	rows, cols int
	indptr     []int
	ind        []int
	data       []float64
}

var _ mat.Matrix = (*CSC)(nil)

// Dims returns the matrix shape.
func (m *CSC) Dims() (r, c int) { return m.rows, m.cols }

// At returns element (i, j). It panics with mat.ErrIndexOutOfRange outside
// the matrix, as gonum matrices do.
func (m *CSC) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[j], m.indptr[j+1]
	k := lo + sort.SearchInts(m.ind[lo:hi], i)
	if k < hi && m.ind[k] == i {
		return m.data[k]
	}
	return 0
}

// T returns the implicit transpose.
func (m *CSC) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *CSC) NNZ() int { return len(m.data) }

// DoNonZero calls fn for every stored entry, column by column.
func (m *CSC) DoNonZero(fn func(i, j int, v float64)) {
	for j := 0; j < m.cols; j++ {
		for k := m.indptr[j]; k < m.indptr[j+1]; k++ {
			fn(m.ind[k], j, m.data[k])
		}
	}
}

// Column returns the stored rows and values of column j. The slices alias
// the matrix storage and must not be modified.
func (m *CSC) Column(j int) ([]int, []float64) {
	lo, hi := m.indptr[j], m.indptr[j+1]
	return m.ind[lo:hi], m.data[lo:hi]
}

// MulVec returns m·x.
func (m *CSC) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, fmt.Errorf("%w: x has %d, want %d", ErrDimensionMismatch, len(x), m.cols)
	}
	y := make([]float64, m.rows)
	for j, xj := range x {
		if xj == 0 {
			continue
		}
		for k := m.indptr[j]; k < m.indptr[j+1]; k++ {
			y[m.ind[k]] += m.data[k] * xj
		}
	}
	return y, nil
}

// MulVecT returns mᵀ·y, the pullback of an image-space vector into
// parameter space.
func (m *CSC) MulVecT(y []float64) ([]float64, error) {
	if len(y) != m.rows {
		return nil, fmt.Errorf("%w: y has %d, want %d", ErrDimensionMismatch, len(y), m.rows)
	}
	x := make([]float64, m.cols)
	for j := range x {
		var s float64
		for k := m.indptr[j]; k < m.indptr[j+1]; k++ {
			s += m.data[k] * y[m.ind[k]]
		}
		x[j] = s
	}
	return x, nil
}

// RowNNZ counts the stored entries of every row.
func (m *CSC) RowNNZ() []int {
	out := make([]int, m.rows)
	for _, i := range m.ind {
		out[i]++
	}
	return out
}

// Norm returns the Frobenius norm.
func (m *CSC) Norm() float64 {
	var s float64
	for _, v := range m.data {
		s += v * v
	}
	return math.Sqrt(s)
}

// ToDense materializes the matrix. Intended for small matrices.
func (m *CSC) ToDense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	m.DoNonZero(func(i, j int, v float64) { d.Set(i, j, v) })
	return d
}
