// Package scene loads the JSON scene descriptions the batch runner renders.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"diffraster/internal/buffer"
	"diffraster/internal/camera"
	"diffraster/internal/mathutil"
)

// DefaultFOV is the horizontal field of view used when a scene's camera
// has no focal length.
const DefaultFOV = 60.0

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("scene: invalid scene")

// Scene is one mesh seen by one camera, plus an optional next state for flow.
type Scene struct {
	Name       string          `json:"name"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Vertices   []mathutil.Vec3 `json:"vertices"`
	Faces      [][]int         `json:"faces"`
	Colors     [][]float64     `json:"colors"`
	Background []float64       `json:"background"`
	Camera     camera.Camera   `json:"camera"`
	FOV        float64         `json:"fov"`

	// CameraEuler, in degrees, replaces the camera's rt when set.
	CameraEuler *mathutil.Vec3 `json:"camera_euler,omitempty"`

	NextVertices []mathutil.Vec3 `json:"next_vertices,omitempty"`
	NextCamera   *camera.Camera  `json:"next_camera,omitempty"`

	Path string `json:"-"`
}

// Load reads and validates one scene file. The name defaults to the file name.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var s Scene
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	s.Path = path
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return &s, nil
}

// LoadDir loads every *.json file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scene, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scene: glob %s: %w", dir, err)
	}
	sort.Strings(paths)

	scenes := make([]*Scene, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// Validate checks sizes and index ranges.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, s.Width, s.Height)
	}
	nv := len(s.Vertices)
	if nv == 0 || len(s.Faces) == 0 {
		return fmt.Errorf("%w: no geometry", ErrInvalid)
	}
	if len(s.Colors) != nv {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrInvalid, len(s.Colors), nv)
	}
	c := len(s.Background)
	if c == 0 {
		return fmt.Errorf("%w: background color missing", ErrInvalid)
	}
	for i, col := range s.Colors {
		if len(col) != c {
			return fmt.Errorf("%w: color %d has %d channels, background has %d", ErrInvalid, i, len(col), c)
		}
	}
	faces := buffer.Faces(s.Faces)
	if arity, err := faces.Arity(); err != nil || arity != 3 {
		return fmt.Errorf("%w: faces must be triangles", ErrInvalid)
	}
	for i, f := range s.Faces {
		for _, v := range f {
			if v < 0 || v >= nv {
				return fmt.Errorf("%w: face %d references vertex %d, have %d", ErrInvalid, i, v, nv)
			}
		}
	}
	if s.NextVertices != nil && len(s.NextVertices) != nv {
		return fmt.Errorf("%w: %d next vertices for %d vertices", ErrInvalid, len(s.NextVertices), nv)
	}
	return nil
}

// Channels returns the color channel count.
func (s *Scene) Channels() int { return len(s.Background) }

// HasNext reports whether the scene describes a second state for flow.
func (s *Scene) HasNext() bool { return s.NextVertices != nil || s.NextCamera != nil }

// Cam returns the scene camera, filling a missing focal length and
// principal point from FOV and the image size, and applying CameraEuler.
func (s *Scene) Cam() camera.Camera {
	c := s.withIntrinsics(s.Camera)
	if s.CameraEuler != nil {
		c = c.WithEuler(*s.CameraEuler)
	}
	return c
}

// NextCam returns the camera of the next state, or nil to reuse Cam.
func (s *Scene) NextCam() camera.Projector {
	if s.NextCamera == nil {
		return nil
	}
	return s.withIntrinsics(*s.NextCamera)
}

func (s *Scene) withIntrinsics(c camera.Camera) camera.Camera {
	if c.F == [2]float64{} {
		fov := s.FOV
		if fov <= 0 {
			fov = DefaultFOV
		}
		def := camera.New(s.Width, s.Height, fov)
		c.F = def.F
		if c.C == [2]float64{} {
			c.C = def.C
		}
	}
	return c
}

// Verts returns the vertices as a V×3 matrix.
func (s *Scene) Verts() *mat.Dense { return vecs(s.Vertices) }

// Next returns the next-state vertices, or the current ones when absent.
func (s *Scene) Next() *mat.Dense {
	if s.NextVertices == nil {
		return s.Verts()
	}
	return vecs(s.NextVertices)
}

// ColorMatrix returns the per-vertex colors as a V×C matrix.
func (s *Scene) ColorMatrix() *mat.Dense {
	c := s.Channels()
	m := mat.NewDense(len(s.Colors), c, nil)
	for i, col := range s.Colors {
		m.SetRow(i, col)
	}
	return m
}

func vecs(vs []mathutil.Vec3) *mat.Dense {
	m := mat.NewDense(len(vs), 3, nil)
	for i, v := range vs {
		m.SetRow(i, v[:])
	}
	return m
}
