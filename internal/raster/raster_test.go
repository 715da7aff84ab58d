package raster

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"diffraster/internal/buffer"
	"diffraster/internal/camera"
	"diffraster/internal/jacobian"
)

const size = 24

type scene struct {
	screen *mat.Dense
	depth  []float64
	faces  buffer.Faces
	colors *mat.Dense
	bg     []float64
}

func triangleScene() scene {
	return scene{
		screen: mat.NewDense(3, 2, []float64{2.3, 2.1, 21.4, 3.2, 6.1, 20.7}),
		depth:  []float64{1, 1.5, 2},
		faces:  buffer.Faces{{0, 1, 2}},
		colors: mat.NewDense(3, 3, []float64{
			1, 0, 0.2,
			0, 1, 0.4,
			0.3, 0.3, 1,
		}),
		bg: []float64{0.1, 0.2, 0.3},
	}
}

func (s scene) render(t *testing.T) *Frame {
	t.Helper()
	f, err := Render(s.screen, s.depth, s.faces, s.colors, s.bg, size, size)
	require.NoError(t, err)
	return f
}

func TestRenderGouraud(t *testing.T) {
	s := triangleScene()
	f := s.render(t)

	visible := f.Visibility.Visible()
	require.NotEmpty(t, visible)
	for _, p := range visible {
		w := f.Barycentric.At(p)
		require.InDelta(t, 1, w[0]+w[1]+w[2], 1e-12)
		for k := 0; k < 3; k++ {
			want := w[0]*s.colors.At(0, k) + w[1]*s.colors.At(1, k) + w[2]*s.colors.At(2, k)
			require.InDelta(t, want, f.Image.Pix[p*3+k], 1e-12)
		}
	}
	for _, p := range f.Visibility.Invisible() {
		require.Equal(t, s.bg, f.Image.Pix[p*3:p*3+3])
		require.True(t, math.IsInf(f.Depth[p], 1))
	}
}

func TestRenderNearestWins(t *testing.T) {
	s := triangleScene()
	// a second, nearer triangle over the top-left corner
	s.screen = mat.NewDense(6, 2, []float64{2.3, 2.1, 21.4, 3.2, 6.1, 20.7, 0, 0, 12, 0, 0, 12})
	s.depth = []float64{1, 1.5, 2, 0.5, 0.5, 0.5}
	s.faces = buffer.Faces{{0, 1, 2}, {3, 4, 5}}
	s.colors = mat.NewDense(6, 3, nil)
	f := s.render(t)

	tri, ok := f.Visibility.Triangle(5*size + 5)
	require.True(t, ok)
	require.Equal(t, 1, tri)

	// the occluding face's edge against face 0 is an occlusion boundary
	var occlusion int
	for p, b := range f.Boundary.Bits {
		if !b {
			continue
		}
		tri, ok := f.Visibility.Triangle(p)
		require.True(t, ok, "boundary pixel %d must be covered", p)
		if tri == 1 {
			occlusion++
		}
	}
	require.Positive(t, occlusion)
}

func TestBoundaryMarksSilhouette(t *testing.T) {
	vis := buffer.NewVisibility(4, 3)
	for _, p := range []int{5, 6} {
		vis.Cells[p] = buffer.Covered(0)
	}
	depth := make([]float64, 12)
	m := Boundary(vis, depth)
	require.Equal(t, 2, m.Count())
	require.True(t, m.Bits[5])
	require.True(t, m.Bits[6])
}

func TestRenderErrors(t *testing.T) {
	s := triangleScene()
	_, err := Render(s.screen, s.depth[:2], s.faces, s.colors, s.bg, size, size)
	require.ErrorIs(t, err, ErrInput)
	_, err = Render(s.screen, s.depth, buffer.Faces{{0, 1}}, s.colors, s.bg, size, size)
	require.ErrorIs(t, err, ErrInput)
	_, err = Render(s.screen, s.depth, buffer.Faces{{0, 1, 3}}, s.colors, s.bg, size, size)
	require.ErrorIs(t, err, ErrInput)
	_, err = Render(s.screen, s.depth, s.faces, s.colors, s.bg[:1], size, size)
	require.ErrorIs(t, err, ErrInput)
}

func TestRenderCameraPropagatesProjectionErrors(t *testing.T) {
	s := triangleScene()
	verts := mat.NewDense(3, 3, []float64{0, 0, 1, 1, 0, -1, 0, 1, 1})
	_, err := RenderCamera(camera.New(size, size, 60), verts, s.faces, s.colors, s.bg, size, size)
	require.ErrorIs(t, err, camera.ErrBehindCamera)
}

func TestVertexColorJacobianMatchesRerender(t *testing.T) {
	s := triangleScene()
	f0 := s.render(t)
	visible := f0.Visibility.Visible()

	jac, err := jacobian.VertexColors(visible, f0.Visibility, s.faces, f0.Barycentric,
		jacobian.Frustum{Width: size, Height: size}, 9, 3)
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(3, 4))
	delta := make([]float64, 9)
	for i := range delta {
		delta[i] = r.Float64() - 0.5
	}
	moved := mat.DenseCopyOf(s.colors)
	for v := 0; v < 3; v++ {
		for k := 0; k < 3; k++ {
			moved.Set(v, k, moved.At(v, k)+delta[3*v+k])
		}
	}
	s.colors = moved
	f1 := s.render(t)

	pred, err := jac.MulVec(delta)
	require.NoError(t, err)
	for i := range pred {
		require.InDelta(t, f1.Image.Pix[i]-f0.Image.Pix[i], pred[i], 1e-12)
	}
}

func TestBackgroundJacobianMatchesRerender(t *testing.T) {
	s := triangleScene()
	f0 := s.render(t)
	jac, err := jacobian.BackgroundColor(f0.Visibility, jacobian.Frustum{Width: size, Height: size}, 3)
	require.NoError(t, err)

	delta := []float64{0.25, -0.5, 0.125}
	s.bg = []float64{s.bg[0] + delta[0], s.bg[1] + delta[1], s.bg[2] + delta[2]}
	f1 := s.render(t)

	pred, err := jac.MulVec(delta)
	require.NoError(t, err)
	for i := range pred {
		require.InDelta(t, f1.Image.Pix[i]-f0.Image.Pix[i], pred[i], 1e-12)
	}
}

func TestPositionJacobianMatchesTranslation(t *testing.T) {
	s := triangleScene()
	f0 := s.render(t)
	in := jacobian.PositionInput{
		Image:       f0.Image,
		Visible:     f0.Visibility.Visible(),
		Visibility:  f0.Visibility,
		Barycentric: f0.Barycentric,
		Width:       size,
		Height:      size,
		NumVerts:    3,
		Faces:       s.faces,
	}
	jac, err := jacobian.VertexPositionsBoundary(in, f0.Boundary)
	require.NoError(t, err)

	const h = 1e-3
	shifted := mat.DenseCopyOf(s.screen)
	for v := 0; v < 3; v++ {
		shifted.Set(v, 0, shifted.At(v, 0)+h)
	}
	s.screen = shifted
	f1 := s.render(t)

	pred, err := jac.MulVec([]float64{1, 0, 1, 0, 1, 0})
	require.NoError(t, err)

	inside := func(f *Frame, x, y int) bool {
		if x < 1 || y < 1 || x >= size-1 || y >= size-1 {
			return false
		}
		for _, p := range []int{y*size + x, y*size + x - 1, y*size + x + 1, (y-1)*size + x, (y+1)*size + x} {
			if _, ok := f.Visibility.Triangle(p); !ok || f.Boundary.Bits[p] {
				return false
			}
		}
		return true
	}

	var checked int
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !inside(f0, x, y) || !inside(f1, x, y) {
				continue
			}
			p := y*size + x
			for k := 0; k < 3; k++ {
				fd := (f1.Image.Pix[p*3+k] - f0.Image.Pix[p*3+k]) / h
				require.InDelta(t, fd, pred[p*3+k], 1e-6, "pixel (%d,%d) channel %d", x, y, k)
			}
			checked++
		}
	}
	require.Greater(t, checked, 20)
}
