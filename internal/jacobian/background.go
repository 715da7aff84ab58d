package jacobian

import (
	"fmt"

	"diffraster/internal/buffer"
	"diffraster/internal/diag"
	"diffraster/internal/pixmap"
	"diffraster/internal/sparse"
)

// BackgroundColor returns the (W·H·C) × C Jacobian of the image with
// respect to the background color: 1 at (p*C+k, k) for every background
// pixel p, nothing elsewhere.
func BackgroundColor(vis *buffer.Visibility, frustum Frustum, channels int) (*sparse.CSC, error) {
	if vis == nil {
		return nil, fmt.Errorf("jacobian: background color: %w: nil visibility", ErrShapeMismatch)
	}
	if err := buffer.SameGrid(frustum.Width, frustum.Height, vis); err != nil {
		return nil, fmt.Errorf("jacobian: background color: %w", err)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("jacobian: background color: %w: %d channels", ErrShapeMismatch, channels)
	}

	invisible := vis.Invisible()
	b, err := sparse.NewBuilder(frustum.Pixels()*channels, channels, len(invisible)*channels)
	if err != nil {
		return nil, fmt.Errorf("jacobian: background color: %w", err)
	}
	for _, p := range invisible {
		for k := 0; k < channels; k++ {
			if err := b.Add(pixmap.Row(p, k, channels), k, 1); err != nil {
				return nil, fmt.Errorf("jacobian: background color: %w", err)
			}
		}
	}
	m := b.CSC()
	diag.Logger().Debug("jacobian: background color", "background", len(invisible), "nnz", m.NNZ())
	return m, nil
}
