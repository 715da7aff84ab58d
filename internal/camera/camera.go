// Package camera projects 3D points to pixel coordinates.
//
// A Camera is an immutable value: projecting never changes it, so several
// goroutines may share one and reprojection under a second camera needs no
// save/restore of the first.
package camera

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"diffraster/internal/mathutil"
)

var (
	// ErrBehindCamera is returned when a point has camera-space z <= 0.
	ErrBehindCamera = errors.New("camera: point behind camera")

	// ErrShape is returned when the point matrix is not N×3.
	ErrShape = errors.New("camera: points must be an N×3 matrix")
)

// Projector maps an N×3 point matrix to N×D projected coordinates.
type Projector interface {
	Project(pts *mat.Dense) (*mat.Dense, error)
}

// Camera is a pinhole camera with Brown-Conrady lens distortion.
type Camera struct {
	RT mathutil.Vec3 `json:"rt"` // rotation, axis * radians
	T  mathutil.Vec3 `json:"t"`  // translation applied after rotation
	F  [2]float64    `json:"f"`  // focal lengths in pixels
	C  [2]float64    `json:"c"`  // principal point in pixels
	K  [5]float64    `json:"k"`  // k1, k2, p1, p2, k3
}

var _ Projector = Camera{}

// New returns an undistorted camera at the origin looking down +z, with the
// given horizontal field of view in degrees and the principal point at the
// image centre.
func New(width, height int, fovDeg float64) Camera {
	f := float64(width) / 2 / math.Tan(mathutil.Deg2Rad(fovDeg)/2)
	return Camera{
		F: [2]float64{f, f},
		C: [2]float64{float64(width) / 2, float64(height) / 2},
	}
}

// Translated returns a copy moved by dt in camera space.
func (c Camera) Translated(dt mathutil.Vec3) Camera {
	c.T = c.T.Add(dt)
	return c
}

// WithEuler returns a copy whose rotation is Rz·Ry·Rx for the given angles
// in degrees, replacing RT.
func (c Camera) WithEuler(deg mathutil.Vec3) Camera {
	r := mathutil.Euler(mathutil.Deg2Rad(deg[0]), mathutil.Deg2Rad(deg[1]), mathutil.Deg2Rad(deg[2]))
	c.RT = mathutil.AxisAngle(r)
	return c
}

// Project returns the N×2 pixel coordinates of pts.
func (c Camera) Project(pts *mat.Dense) (*mat.Dense, error) {
	uv, _, err := c.ProjectDepth(pts)
	return uv, err
}

// ProjectDepth returns the N×2 pixel coordinates of pts and their
// camera-space depths.
func (c Camera) ProjectDepth(pts *mat.Dense) (*mat.Dense, []float64, error) {
	if pts == nil {
		return nil, nil, fmt.Errorf("%w: nil", ErrShape)
	}
	n, d := pts.Dims()
	if n == 0 || d != 3 {
		return nil, nil, fmt.Errorf("%w: got %dx%d", ErrShape, n, d)
	}

	r := mathutil.Rodrigues(c.RT)
	uv := mat.NewDense(n, 2, nil)
	depth := make([]float64, n)
	for i := 0; i < n; i++ {
		p := r.MulVec3(mathutil.Vec3{pts.At(i, 0), pts.At(i, 1), pts.At(i, 2)}).Add(c.T)
		if !(p[2] > 0) {
			return nil, nil, fmt.Errorf("%w: point %d at z=%g", ErrBehindCamera, i, p[2])
		}
		x, y := c.distort(p[0]/p[2], p[1]/p[2])
		uv.Set(i, 0, c.F[0]*x+c.C[0])
		uv.Set(i, 1, c.F[1]*y+c.C[1])
		depth[i] = p[2]
	}
	return uv, depth, nil
}

func (c Camera) distort(x, y float64) (float64, float64) {
	k1, k2, p1, p2, k3 := c.K[0], c.K[1], c.K[2], c.K[3], c.K[4]
	if k1 == 0 && k2 == 0 && p1 == 0 && p2 == 0 && k3 == 0 {
		return x, y
	}
	r2 := x*x + y*y
	radial := 1 + r2*(k1+r2*(k2+r2*k3))
	xd := x*radial + 2*p1*x*y + p2*(r2+2*x*x)
	yd := y*radial + p1*(r2+2*y*y) + 2*p2*x*y
	return xd, yd
}
