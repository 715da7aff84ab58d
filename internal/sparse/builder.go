package sparse

import (
	"cmp"
	"fmt"
	"slices"
)

// Builder accumulates coordinate triplets for a rows×cols matrix.
type Builder struct {
	rows, cols int
	ri, ci     []int
	v          []float64
}

// NewBuilder returns a Builder with room for capacity triplets.
func NewBuilder(rows, cols, capacity int) (*Builder, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Builder{
		rows: rows,
		cols: cols,
		ri:   make([]int, 0, capacity),
		ci:   make([]int, 0, capacity),
		v:    make([]float64, 0, capacity),
	}, nil
}

// Add appends the triplet (i, j, v). Repeated coordinates are summed by CSC.
func (b *Builder) Add(i, j int, v float64) error {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, i, j, b.rows, b.cols)
	}
	b.ri = append(b.ri, i)
	b.ci = append(b.ci, j)
	b.v = append(b.v, v)
	return nil
}

// Len returns the number of triplets added so far.
func (b *Builder) Len() int { return len(b.v) }

// CSC compresses the triplets. Within a column, duplicates are summed in
// insertion order, so the result does not depend on how columns interleave.
// Explicit zeros are kept as stored entries.
func (b *Builder) CSC() *CSC {
	n := len(b.v)

	start := make([]int, b.cols+1)
	for _, j := range b.ci {
		start[j+1]++
	}
	for j := 0; j < b.cols; j++ {
		start[j+1] += start[j]
	}

	order := make([]int, n)
	next := slices.Clone(start[:b.cols])
	for k, j := range b.ci {
		order[next[j]] = k
		next[j]++
	}

	m := &CSC{
		rows:   b.rows,
		cols:   b.cols,
		indptr: make([]int, b.cols+1),
		ind:    make([]int, 0, n),
		data:   make([]float64, 0, n),
	}
	for j := 0; j < b.cols; j++ {
		seg := order[start[j]:start[j+1]]
		slices.SortStableFunc(seg, func(a, c int) int { return cmp.Compare(b.ri[a], b.ri[c]) })
		for _, k := range seg {
			r := b.ri[k]
			if last := len(m.ind) - 1; last >= m.indptr[j] && m.ind[last] == r {
				m.data[last] += b.v[k]
				continue
			}
			m.ind = append(m.ind, r)
			m.data = append(m.data, b.v[k])
		}
		m.indptr[j+1] = len(m.ind)
	}
	return m
}
