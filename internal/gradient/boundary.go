package gradient

import (
	"fmt"

	"diffraster/internal/buffer"
)

// Interior returns central differences computed with boundary pixels
// treated as unknown. At each sample the forward and backward first
// differences are averaged over whichever of them avoid unknown pixels;
// replicating the border makes the outward difference zero, but only when
// the inward neighbour is known. Samples where neither difference is
// available are left unknown in the result.
func (e Estimator) Interior(img *buffer.Image, mask *buffer.Mask) (dx, dy *buffer.Field, err error) {
	if err := checkImage(img); err != nil {
		return nil, nil, err
	}
	if mask != nil {
		if err := buffer.SameGrid(img.W, img.H, mask); err != nil {
			return nil, nil, fmt.Errorf("gradient: boundary mask: %w", err)
		}
	}
	known := func(x, y int) bool { return mask == nil || !mask.At(x, y) }

	dx = buffer.NewField(img.W, img.H, img.C)
	dy = buffer.NewField(img.W, img.H, img.C)
	e.perChannel(img.C, func(k int) {
		for y := 0; y < img.H; y++ {
			for x := 0; x < img.W; x++ {
				i := img.Offset(x, y, k)
				at := func(xx, yy int) (float64, bool) { return img.At(xx, yy, k), known(xx, yy) }

				if v, ok := centralDiff(at, x, y, X, img.W, img.H); ok {
					dx.Val[i] = v
				} else {
					dx.SetUnknown(i)
				}
				if v, ok := centralDiff(at, x, y, Y, img.W, img.H); ok {
					dy.Val[i] = v
				} else {
					dy.SetUnknown(i)
				}
			}
		}
	})
	return dx, dy, nil
}

// centralDiff is the neighbor-aware mean of the forward and backward
// differences at (x, y) along axis.
func centralDiff(at func(x, y int) (float64, bool), x, y int, axis Axis, w, h int) (float64, bool) {
	var px, py, nx, ny int
	switch axis {
	case X:
		px, py, nx, ny = clamp(x-1, w), y, clamp(x+1, w), y
	case Y:
		px, py, nx, ny = x, clamp(y-1, h), x, clamp(y+1, h)
	}

	c, cok := at(x, y)
	if !cok {
		return 0, false
	}
	prev, pok := at(px, py)
	next, nok := at(nx, ny)
	// A clamped neighbour is the centre replicated; it stands only while
	// the real neighbour on the other side is known.
	prevClamped := px == x && py == y
	nextClamped := nx == x && ny == y
	switch {
	case prevClamped && nextClamped:
	case prevClamped:
		pok = nok
	case nextClamped:
		nok = pok
	}
	switch {
	case pok && nok:
		return (next - prev) * 0.5, true
	case nok:
		return next - c, true
	case pok:
		return c - prev, true
	}
	return 0, false
}

// Full returns central differences over the whole image, ignoring any mask.
func (e Estimator) Full(img *buffer.Image) (dx, dy *buffer.Field, err error) {
	return e.Interior(img, nil)
}

// BoundaryAware merges the interior estimate with the full-image estimate
// doubled: every interior sample that could not be formed takes the
// doubled full-image sample. The result is fully known.
func (e Estimator) BoundaryAware(img *buffer.Image, mask *buffer.Mask) (dx, dy *buffer.Field, err error) {
	if mask == nil {
		return nil, nil, fmt.Errorf("gradient: %w: nil boundary mask", buffer.ErrShapeMismatch)
	}
	dx, dy, err = e.Interior(img, mask)
	if err != nil {
		return nil, nil, err
	}
	fx, fy, err := e.Full(img)
	if err != nil {
		return nil, nil, err
	}
	fx.Scale(2)
	fy.Scale(2)
	dx.Fill(fx)
	dy.Fill(fy)
	return dx, dy, nil
}

// BoundaryAware runs Default.BoundaryAware.
func BoundaryAware(img *buffer.Image, mask *buffer.Mask) (dx, dy *buffer.Field, err error) {
	return Default.BoundaryAware(img, mask)
}
