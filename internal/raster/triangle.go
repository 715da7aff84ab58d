package raster

import (
	"math"
)

// RasterizeTriangle draws one Gouraud-shaded triangle into fb.
//
// Pixel (sx, sy) is sampled at its integer coordinates. A pixel is covered
// when all three barycentric weights are >= -coverEps; the nearest depth
// wins. colors holds Channels values per vertex. This is the hot path and
// does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	colors []float64,
	vi [3]int,
	tri uint32,
) {
	const coverEps = 1e-9

	nv := len(px)
	idx := [3]int{vi[0], vi[1], vi[2]}
	for _, i := range idx {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[idx[0]], py[idx[0]], pz[idx[0]]
	x1, y1, z1 := px[idx[1]], py[idx[1]], pz[idx[1]]
	x2, y2, z2 := px[idx[2]], py[idx[2]], pz[idx[2]]

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	c := fb.Channels
	c0 := colors[idx[0]*c : idx[0]*c+c]
	c1 := colors[idx[1]*c : idx[1]*c+c]
	c2 := colors[idx[2]*c : idx[2]*c+c]

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -coverEps || w1 < -coverEps || w2 < -coverEps {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			p := rowOff + sx
			if z >= fb.ZBuf[p] {
				continue
			}
			fb.ZBuf[p] = z
			fb.Tri[p] = tri
			fb.Bary[p] = [3]float64{w0, w1, w2}

			off := p * c
			for k := 0; k < c; k++ {
				fb.Color[off+k] = w0*c0[k] + w1*c1[k] + w2*c2[k]
			}
		}
	}
}
