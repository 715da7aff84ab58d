// Package flow estimates dense optical flow by reprojection: every visible
// pixel is lifted to the 3D surface point its barycentric coordinates name,
// projected under the current vertices and camera, then under the next
// vertices and camera, and the two projections are differenced.
package flow

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"diffraster/internal/buffer"
	"diffraster/internal/camera"
	"diffraster/internal/diag"
	"diffraster/internal/pixmap"
	"diffraster/internal/sparse"
)

// State is the render the flow starts from.
type State struct {
	Visibility  *buffer.Visibility
	Barycentric *buffer.Barycentric
	Faces       buffer.Faces
	Verts       *mat.Dense // V×3 world-space vertex positions
	Camera      camera.Projector
}

// VertsToVisible returns the (3N)×(3V) matrix that maps flattened vertex
// positions [x0 y0 z0 x1 ...] to the surface points under the N visible
// pixels: row 3i+a, column 3v+a, value = barycentric weight of v at pixel i.
func VertsToVisible(visible []int, vis *buffer.Visibility, bary *buffer.Barycentric, faces buffer.Faces, numVerts int) (*sparse.CSC, error) {
	if bary == nil {
		return nil, fmt.Errorf("%w: nil barycentric buffer", buffer.ErrShapeMismatch)
	}
	mp, err := pixmap.Map(visible, vis, faces, numVerts)
	if err != nil {
		return nil, err
	}
	if err := buffer.SameGrid(vis.W, vis.H, bary); err != nil {
		return nil, err
	}

	b, err := sparse.NewBuilder(3*mp.Len(), 3*numVerts, 3*mp.Len()*mp.Arity)
	if err != nil {
		return nil, err
	}
	for i, p := range mp.Pixels {
		bc := bary.At(p)
		for a := 0; a < 3; a++ {
			for j := 0; j < mp.Arity; j++ {
				if err := b.Add(3*i+a, 3*mp.Vertex(i, j)+a, bc[j]); err != nil {
					return nil, err
				}
			}
		}
	}
	return b.CSC(), nil
}

// surfacePoints applies the weighting matrix to a V×3 vertex matrix and
// returns the N×3 surface points.
func surfacePoints(w *sparse.CSC, verts *mat.Dense) (*mat.Dense, error) {
	nv, _ := verts.Dims()
	flat := make([]float64, 0, 3*nv)
	for v := 0; v < nv; v++ {
		flat = append(flat, verts.RawRowView(v)...)
	}
	pts, err := w.MulVec(flat)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(len(pts)/3, 3, pts), nil
}

// To returns the flow from the current render to vNext seen through
// camNext, as an H×W×D field (D is the projection dimension, 2 for a
// pinhole camera). A nil camNext reuses the current camera. Pixels that are
// background in the current render are left unknown with value 0.
func To(s State, vNext *mat.Dense, camNext camera.Projector) (*buffer.Field, error) {
	if s.Visibility == nil || s.Verts == nil || vNext == nil || s.Camera == nil {
		return nil, fmt.Errorf("flow: %w: missing visibility, vertices or camera", buffer.ErrShapeMismatch)
	}
	if err := s.Visibility.Validate(); err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	nv, d := s.Verts.Dims()
	if nn, dn := vNext.Dims(); d != 3 || nn != nv || dn != d {
		return nil, fmt.Errorf("flow: %w: vertices %dx%d, next vertices %dx%d", buffer.ErrShapeMismatch, nv, d, nn, dn)
	}
	if camNext == nil {
		camNext = s.Camera
	}

	vis := s.Visibility
	visible := vis.Visible()
	if len(visible) == 0 {
		diag.Logger().Warn("flow: nothing visible")
		out := buffer.NewField(vis.W, vis.H, 2)
		for i := range out.Known {
			out.Known[i] = false
		}
		return out, nil
	}

	w, err := VertsToVisible(visible, vis, s.Barycentric, s.Faces, nv)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	p1, err := surfacePoints(w, s.Verts)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	p2, err := surfacePoints(w, vNext)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}

	r1, err := s.Camera.Project(p1)
	if err != nil {
		return nil, fmt.Errorf("flow: project current: %w", err)
	}
	r2, err := camNext.Project(p2)
	if err != nil {
		return nil, fmt.Errorf("flow: project next: %w", err)
	}
	r1n, r1d := r1.Dims()
	r2n, r2d := r2.Dims()
	if r1n != len(visible) || r2n != r1n || r2d != r1d {
		return nil, fmt.Errorf("flow: %w: projections are %dx%d and %dx%d for %d pixels",
			buffer.ErrShapeMismatch, r1n, r1d, r2n, r2d, len(visible))
	}

	var diff mat.Dense
	diff.Sub(r2, r1)
	_, dims := diff.Dims()

	out := buffer.NewField(vis.W, vis.H, dims)
	for i := range out.Known {
		out.Known[i] = false
	}
	for i, p := range visible {
		for k := 0; k < dims; k++ {
			out.Val[p*dims+k] = diff.At(i, k)
			out.Known[p*dims+k] = true
		}
	}
	diag.Logger().Debug("flow: reprojected", "visible", len(visible), "dims", dims)
	return out, nil
}
