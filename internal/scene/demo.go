package scene

import (
	"diffraster/internal/camera"
	"diffraster/internal/mathutil"
)

// Demo returns a built-in scene: a shaded quad partly hidden by a nearer
// triangle, with a small sideways motion for flow. Used when no scene
// directory is given.
func Demo(w, h int) *Scene {
	return &Scene{
		Name:   "demo",
		Width:  w,
		Height: h,
		Vertices: []mathutil.Vec3{
			{-1, -1, 4}, {1, -1, 4}, {1, 1, 4}, {-1, 1, 4},
			{-0.2, -0.6, 3}, {0.9, 0.1, 3}, {-0.1, 0.8, 3},
		},
		Faces: [][]int{{0, 1, 2}, {0, 2, 3}, {4, 5, 6}},
		Colors: [][]float64{
			{0.9, 0.2, 0.2}, {0.2, 0.9, 0.2}, {0.2, 0.2, 0.9}, {0.9, 0.9, 0.2},
			{0.8, 0.8, 0.8}, {0.4, 0.4, 0.4}, {0.6, 0.1, 0.6},
		},
		Background: []float64{0.05, 0.05, 0.1},
		Camera:     camera.Camera{},
		FOV:        50,
		NextCamera: &camera.Camera{T: mathutil.Vec3{0.05, 0, 0}},
	}
}
