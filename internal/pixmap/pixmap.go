// Package pixmap resolves visible pixels to the scene parameters they
// depend on and linearizes (pixel, channel, vertex, coordinate) tuples into
// sparse-matrix row and column indices.
//
// Layout, shared by every assembler:
//
//	row(p, k)          = p*C + k         pixel-major, channels interleaved
//	position cols(v)   = 2v, 2v+1        screen x, screen y
//	color col(v, k)    = C*v + k
package pixmap

import (
	"errors"
	"fmt"

	"diffraster/internal/buffer"
)

var (
	// ErrBackgroundPixel is returned when a pixel passed as visible is not
	// covered by any face.
	ErrBackgroundPixel = errors.New("pixmap: visible pixel is background")

	// ErrPixelOutOfRange is returned for a visible index outside the grid.
	ErrPixelOutOfRange = errors.New("pixmap: pixel index out of range")

	// ErrFaceOutOfRange is returned when the visibility buffer names a face
	// the face list does not have.
	ErrFaceOutOfRange = errors.New("pixmap: face index out of range")

	// ErrVertexOutOfRange is returned when a face references a vertex
	// beyond the declared vertex count.
	ErrVertexOutOfRange = errors.New("pixmap: vertex index out of range")
)

// Mapping is the per-visible-pixel index structure.
type Mapping struct {
	W, H   int
	Arity  int
	Pixels []int // flat pixel indices, in caller order
	PX, PY []int // column and row of each pixel
	Verts  []int // Arity vertex indices per pixel, flattened
}

// Map resolves every visible pixel to its face's vertices.
func Map(visible []int, vis *buffer.Visibility, faces buffer.Faces, numVerts int) (*Mapping, error) {
	if vis == nil {
		return nil, fmt.Errorf("pixmap: %w: nil visibility", buffer.ErrShapeMismatch)
	}
	if err := vis.Validate(); err != nil {
		return nil, fmt.Errorf("pixmap: %w", err)
	}
	arity, err := faces.Arity()
	if err != nil {
		return nil, fmt.Errorf("pixmap: %w", err)
	}
	if maxV := faces.MaxVertex(); maxV >= numVerts {
		return nil, fmt.Errorf("%w: face list references vertex %d, have %d", ErrVertexOutOfRange, maxV, numVerts)
	}
	for fi, face := range faces {
		for _, v := range face {
			if v < 0 {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrVertexOutOfRange, fi, v)
			}
		}
	}

	n := len(visible)
	m := &Mapping{
		W:      vis.W,
		H:      vis.H,
		Arity:  arity,
		Pixels: make([]int, n),
		PX:     make([]int, n),
		PY:     make([]int, n),
		Verts:  make([]int, 0, n*arity),
	}
	size := vis.W * vis.H
	for i, p := range visible {
		if p < 0 || p >= size {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrPixelOutOfRange, p, size)
		}
		tri, ok := vis.Triangle(p)
		if !ok {
			return nil, fmt.Errorf("%w: pixel %d (x=%d, y=%d)", ErrBackgroundPixel, p, p%vis.W, p/vis.W)
		}
		if tri >= len(faces) {
			return nil, fmt.Errorf("%w: pixel %d covered by face %d, have %d", ErrFaceOutOfRange, p, tri, len(faces))
		}
		m.Pixels[i] = p
		m.PX[i] = p % vis.W
		m.PY[i] = p / vis.W
		m.Verts = append(m.Verts, faces[tri]...)
	}
	return m, nil
}

// Len returns the number of mapped pixels.
func (m *Mapping) Len() int { return len(m.Pixels) }

// Vertex returns the j-th vertex of the i-th mapped pixel's face.
func (m *Mapping) Vertex(i, j int) int { return m.Verts[i*m.Arity+j] }

// Row is the Jacobian row of channel k of flat pixel p.
func Row(p, k, channels int) int { return p*channels + k }

// PositionColumns are the Jacobian columns of vertex v's screen x and y.
func PositionColumns(v int) (cx, cy int) { return 2 * v, 2*v + 1 }

// ColorColumn is the Jacobian column of channel k of vertex v's color.
func ColorColumn(v, k, channels int) int { return channels*v + k }
