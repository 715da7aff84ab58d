// Package raster is a small CPU rasterizer that produces the buffers the
// Jacobian assemblers consume: a Gouraud-shaded color image, a visibility
// buffer, a barycentric buffer and a silhouette/occlusion boundary mask.
package raster

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"diffraster/internal/buffer"
	"diffraster/internal/camera"
)

// DepthEdge is the camera-space depth jump between neighbouring pixels of
// different faces that counts as an occlusion boundary.
const DepthEdge = 0.05

// ErrInput is returned for inconsistent render inputs.
var ErrInput = errors.New("raster: invalid input")

// Frame is one rendered view.
type Frame struct {
	Image       *buffer.Image
	Visibility  *buffer.Visibility
	Barycentric *buffer.Barycentric
	Boundary    *buffer.Mask
	Depth       []float64 // +inf on background
	Screen      *mat.Dense
}

// Render rasterizes triangles whose vertices are already in pixel space.
// screen is V×2, depth has V entries, colors is V×C and bg has C entries.
func Render(screen *mat.Dense, depth []float64, faces buffer.Faces, colors *mat.Dense, bg []float64, w, h int) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInput, w, h)
	}
	if screen == nil || colors == nil {
		return nil, fmt.Errorf("%w: missing screen positions or colors", ErrInput)
	}
	nv, sd := screen.Dims()
	cv, c := colors.Dims()
	if sd != 2 || len(depth) != nv || cv != nv {
		return nil, fmt.Errorf("%w: screen %dx%d, depth %d, colors %dx%d", ErrInput, nv, sd, len(depth), cv, c)
	}
	if len(bg) != c {
		return nil, fmt.Errorf("%w: background has %d channels, colors have %d", ErrInput, len(bg), c)
	}
	if arity, err := faces.Arity(); err != nil || arity != 3 {
		return nil, fmt.Errorf("%w: faces must be triangles", ErrInput)
	}
	if maxV := faces.MaxVertex(); maxV >= nv {
		return nil, fmt.Errorf("%w: face references vertex %d, have %d", ErrInput, maxV, nv)
	}

	px := make([]float64, nv)
	py := make([]float64, nv)
	flat := make([]float64, 0, nv*c)
	for v := 0; v < nv; v++ {
		px[v] = screen.At(v, 0)
		py[v] = screen.At(v, 1)
		flat = append(flat, colors.RawRowView(v)...)
	}

	fb := NewFrameBuffer(w, h, bg)
	for fi, f := range faces {
		RasterizeTriangle(fb, px, py, depth, flat, [3]int{f[0], f[1], f[2]}, uint32(fi))
	}
	return fb.frame(screen)
}

// RenderCamera projects V×3 world-space vertices through cam and renders them.
func RenderCamera(cam camera.Camera, verts *mat.Dense, faces buffer.Faces, colors *mat.Dense, bg []float64, w, h int) (*Frame, error) {
	screen, depth, err := cam.ProjectDepth(verts)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	return Render(screen, depth, faces, colors, bg, w, h)
}

func (fb *FrameBuffer) frame(screen *mat.Dense) (*Frame, error) {
	vis, err := buffer.VisibilityFromIDs(fb.Width, fb.Height, fb.Tri)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	img := &buffer.Image{W: fb.Width, H: fb.Height, C: fb.Channels, Pix: fb.Color}
	bary := &buffer.Barycentric{W: fb.Width, H: fb.Height, Weights: fb.Bary}
	return &Frame{
		Image:       img,
		Visibility:  vis,
		Barycentric: bary,
		Boundary:    Boundary(vis, fb.ZBuf),
		Depth:       fb.ZBuf,
		Screen:      screen,
	}, nil
}

// Boundary marks covered pixels on a silhouette (a 4-neighbour is
// background) or an occlusion edge (a 4-neighbour shows another face more
// than DepthEdge farther away). Only the near side is marked.
func Boundary(vis *buffer.Visibility, depth []float64) *buffer.Mask {
	m := buffer.NewMask(vis.W, vis.H)
	w, h := vis.W, vis.H
	mark := func(a, b int) {
		ca, cb := vis.Cells[a], vis.Cells[b]
		switch {
		case ca.Hit && !cb.Hit:
			m.Bits[a] = true
		case !ca.Hit && cb.Hit:
			m.Bits[b] = true
		case ca.Hit && cb.Hit && ca.Tri != cb.Tri:
			if d := depth[a] - depth[b]; math.Abs(d) > DepthEdge {
				if d < 0 {
					m.Bits[a] = true
				} else {
					m.Bits[b] = true
				}
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			if x+1 < w {
				mark(p, p+1)
			}
			if y+1 < h {
				mark(p, p+w)
			}
		}
	}
	return m
}
