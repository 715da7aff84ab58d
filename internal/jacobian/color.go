package jacobian

import (
	"fmt"

	"diffraster/internal/buffer"
	"diffraster/internal/diag"
	"diffraster/internal/pixmap"
	"diffraster/internal/sparse"
)

// Frustum is the viewport a frame was rendered into.
type Frustum struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Pixels returns Width·Height.
func (f Frustum) Pixels() int { return f.Width * f.Height }

// VertexColors returns the (W·H·C) × vcSize Jacobian of the image with
// respect to per-vertex colors laid out as C*v + k. Each visible pixel
// depends on its face's vertices through their barycentric weights,
// identically in every channel.
func VertexColors(visible []int, vis *buffer.Visibility, faces buffer.Faces, bary *buffer.Barycentric, frustum Frustum, vcSize, channels int) (*sparse.CSC, error) {
	if vis == nil || bary == nil {
		return nil, fmt.Errorf("jacobian: vertex colors: %w: missing visibility or barycentric buffer", ErrShapeMismatch)
	}
	if err := buffer.SameGrid(frustum.Width, frustum.Height, vis, bary); err != nil {
		return nil, fmt.Errorf("jacobian: vertex colors: %w", err)
	}
	if channels <= 0 || vcSize < 0 {
		return nil, fmt.Errorf("jacobian: vertex colors: %w: %d channels, block size %d", ErrShapeMismatch, channels, vcSize)
	}
	if maxV := faces.MaxVertex(); maxV >= 0 && channels*maxV+channels-1 >= vcSize {
		return nil, fmt.Errorf("jacobian: vertex colors: %w: vertex %d needs %d columns, have %d",
			ErrVertexOutOfRange, maxV, channels*(maxV+1), vcSize)
	}

	mp, err := pixmap.Map(visible, vis, faces, vcSize/channels)
	if err != nil {
		return nil, fmt.Errorf("jacobian: vertex colors: %w", err)
	}
	b, err := sparse.NewBuilder(frustum.Pixels()*channels, vcSize, mp.Len()*mp.Arity*channels)
	if err != nil {
		return nil, fmt.Errorf("jacobian: vertex colors: %w", err)
	}
	for i, p := range mp.Pixels {
		bc := bary.At(p)
		for k := 0; k < channels; k++ {
			row := pixmap.Row(p, k, channels)
			for j := 0; j < mp.Arity; j++ {
				if err := b.Add(row, pixmap.ColorColumn(mp.Vertex(i, j), k, channels), bc[j]); err != nil {
					return nil, fmt.Errorf("jacobian: vertex colors: %w", err)
				}
			}
		}
	}
	m := b.CSC()
	diag.Logger().Debug("jacobian: vertex colors", "visible", mp.Len(), "nnz", m.NNZ())
	return m, nil
}
