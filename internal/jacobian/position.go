package jacobian

import (
	"fmt"
	"time"

	"diffraster/internal/buffer"
	"diffraster/internal/diag"
	"diffraster/internal/gradient"
	"diffraster/internal/pixmap"
	"diffraster/internal/sparse"
)

// PositionInput carries the buffers of one rendered frame.
type PositionInput struct {
	Image       *buffer.Image
	Visible     []int // flat indices of covered pixels
	Visibility  *buffer.Visibility
	Barycentric *buffer.Barycentric
	Width       int
	Height      int
	NumVerts    int
	Faces       buffer.Faces

	// Gradient configures the derivative estimator; the zero value uses
	// the plain [-1 0 1] kernel.
	Gradient gradient.Estimator
}

func (in PositionInput) validate() error {
	if in.Image == nil || in.Visibility == nil || in.Barycentric == nil {
		return fmt.Errorf("%w: missing image, visibility or barycentric buffer", ErrShapeMismatch)
	}
	if err := buffer.SameGrid(in.Width, in.Height, in.Image, in.Visibility, in.Barycentric); err != nil {
		return err
	}
	if in.NumVerts < 0 {
		return fmt.Errorf("%w: negative vertex count %d", ErrShapeMismatch, in.NumVerts)
	}
	return nil
}

// VertexPositions returns the (W·H·C) × (2·NumVerts) Jacobian of the image
// with respect to projected vertex positions, using kernel derivatives.
func VertexPositions(in PositionInput) (*sparse.CSC, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions: %w", err)
	}
	dx, dy, err := in.Gradient.Sobel(in.Image)
	if err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions: %w", err)
	}
	m, err := assemblePositions(in, dx, dy)
	if err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions: %w", err)
	}
	return m, nil
}

// VertexPositionsBoundary is VertexPositions with boundary-aware derivatives:
// interior differences away from the silhouette, doubled full-image
// differences on and next to it.
func VertexPositionsBoundary(in PositionInput, boundary *buffer.Mask) (*sparse.CSC, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions (boundary): %w", err)
	}
	if boundary == nil {
		return nil, fmt.Errorf("jacobian: vertex positions (boundary): %w: nil boundary mask", ErrShapeMismatch)
	}
	if err := buffer.SameGrid(in.Width, in.Height, boundary); err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions (boundary): %w", err)
	}
	dx, dy, err := in.Gradient.BoundaryAware(in.Image, boundary)
	if err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions (boundary): %w", err)
	}
	m, err := assemblePositions(in, dx, dy)
	if err != nil {
		return nil, fmt.Errorf("jacobian: vertex positions (boundary): %w", err)
	}
	return m, nil
}

// assemblePositions places -dx·w and -dy·w at each face vertex's columns.
func assemblePositions(in PositionInput, dx, dy *buffer.Field) (*sparse.CSC, error) {
	start := time.Now()
	mp, err := pixmap.Map(in.Visible, in.Visibility, in.Faces, in.NumVerts)
	if err != nil {
		return nil, err
	}
	dx, dy = gradient.Negated(dx), gradient.Negated(dy)

	c := in.Image.C
	b, err := sparse.NewBuilder(in.Width*in.Height*c, 2*in.NumVerts, mp.Len()*c*mp.Arity*2)
	if err != nil {
		return nil, err
	}
	for i, p := range mp.Pixels {
		bc := in.Barycentric.At(p)
		for k := 0; k < c; k++ {
			row := pixmap.Row(p, k, c)
			off := p*c + k
			gx, gy := dx.Val[off], dy.Val[off]
			for j := 0; j < mp.Arity; j++ {
				cx, cy := pixmap.PositionColumns(mp.Vertex(i, j))
				if err := b.Add(row, cx, gx*bc[j]); err != nil {
					return nil, err
				}
				if err := b.Add(row, cy, gy*bc[j]); err != nil {
					return nil, err
				}
			}
		}
	}
	m := b.CSC()
	diag.Logger().Debug("jacobian: vertex positions",
		"width", in.Width, "height", in.Height, "channels", c,
		"visible", mp.Len(), "nnz", m.NNZ(), "elapsed", time.Since(start))
	return m, nil
}
