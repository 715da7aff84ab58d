package batch

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"diffraster/internal/buffer"
	"diffraster/internal/diag"
	"diffraster/internal/flow"
	"diffraster/internal/gradient"
	"diffraster/internal/imageio"
	"diffraster/internal/jacobian"
	"diffraster/internal/raster"
	"diffraster/internal/scene"
	"diffraster/internal/sparse"
	"diffraster/internal/visualize"
)

// Config holds the shared settings of a batch run.
type Config struct {
	OutputDir   string
	Workers     int
	Scale       int
	Plain       bool
	Gradient    gradient.Estimator
	WriteImages bool
}

// MatrixStats summarizes one sparse Jacobian.
type MatrixStats struct {
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
	NNZ  int     `json:"nnz"`
	Norm float64 `json:"norm"`
}

// FlowStats summarizes a reprojection flow field.
type FlowStats struct {
	Known int     `json:"known"`
	Mean  float64 `json:"mean_magnitude"`
	Max   float64 `json:"max_magnitude"`
}

// Stats describes the buffers and Jacobians of one scene.
type Stats struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Channels   int         `json:"channels"`
	Vertices   int         `json:"vertices"`
	Faces      int         `json:"faces"`
	Visible    int         `json:"visible"`
	Boundary   int         `json:"boundary"`
	Position   MatrixStats `json:"position"`
	Color      MatrixStats `json:"color"`
	Background MatrixStats `json:"background"`
	Flow       *FlowStats  `json:"flow,omitempty"`
	Millis     float64     `json:"millis"`
}

// Result holds the outcome of processing one scene.
type Result struct {
	Name    string
	Source  string
	Success bool
	Error   string
	Stats   Stats
	Images  map[string]string // kind -> path relative to OutputDir
}

// Run processes all scenes using a worker pool.
func Run(cfg Config, scenes []*scene.Scene) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					diag.Logger().Info("batch: progress",
						"done", p, "total", total, "rate", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	sceneChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

func processScene(cfg Config, s *scene.Scene) Result {
	res := Result{Name: s.Name, Source: s.Path}
	stats, images, err := process(cfg, s)
	if err != nil {
		res.Error = err.Error()
		diag.Logger().Warn("batch: scene failed", "scene", s.Name, "err", err)
		return res
	}
	res.Success = true
	res.Stats = stats
	res.Images = images
	return res
}

func process(cfg Config, s *scene.Scene) (Stats, map[string]string, error) {
	start := time.Now()
	if err := s.Validate(); err != nil {
		return Stats{}, nil, err
	}

	cam := s.Cam()
	verts := s.Verts()
	faces := buffer.Faces(s.Faces)
	c := s.Channels()

	frame, err := raster.RenderCamera(cam, verts, faces, s.ColorMatrix(), s.Background, s.Width, s.Height)
	if err != nil {
		return Stats{}, nil, err
	}
	visible := frame.Visibility.Visible()
	frustum := jacobian.Frustum{Width: s.Width, Height: s.Height}

	in := jacobian.PositionInput{
		Image:       frame.Image,
		Visible:     visible,
		Visibility:  frame.Visibility,
		Barycentric: frame.Barycentric,
		Width:       s.Width,
		Height:      s.Height,
		NumVerts:    len(s.Vertices),
		Faces:       faces,
		Gradient:    cfg.Gradient,
	}
	var jpos *sparse.CSC
	if cfg.Plain {
		jpos, err = jacobian.VertexPositions(in)
	} else {
		jpos, err = jacobian.VertexPositionsBoundary(in, frame.Boundary)
	}
	if err != nil {
		return Stats{}, nil, err
	}

	jvc, err := jacobian.VertexColors(visible, frame.Visibility, faces, frame.Barycentric, frustum, c*len(s.Vertices), c)
	if err != nil {
		return Stats{}, nil, err
	}
	jbg, err := jacobian.BackgroundColor(frame.Visibility, frustum, c)
	if err != nil {
		return Stats{}, nil, err
	}

	stats := Stats{
		Width:      s.Width,
		Height:     s.Height,
		Channels:   c,
		Vertices:   len(s.Vertices),
		Faces:      len(s.Faces),
		Visible:    len(visible),
		Boundary:   frame.Boundary.Count(),
		Position:   matrixStats(jpos),
		Color:      matrixStats(jvc),
		Background: matrixStats(jbg),
	}

	var fl *buffer.Field
	if s.HasNext() {
		st := flow.State{
			Visibility:  frame.Visibility,
			Barycentric: frame.Barycentric,
			Faces:       faces,
			Verts:       verts,
			Camera:      cam,
		}
		fl, err = flow.To(st, s.Next(), s.NextCam())
		if err != nil {
			return Stats{}, nil, err
		}
		stats.Flow = flowStats(fl)
	}

	var images map[string]string
	if cfg.WriteImages {
		images, err = writeImages(cfg, s.Name, frame, jpos, fl)
		if err != nil {
			return Stats{}, nil, err
		}
	}

	stats.Millis = float64(time.Since(start).Microseconds()) / 1000
	diag.Logger().Debug("batch: scene done", "scene", s.Name,
		"visible", stats.Visible, "position_nnz", stats.Position.NNZ, "ms", stats.Millis)
	return stats, images, nil
}

func writeImages(cfg Config, name string, frame *raster.Frame, jpos *sparse.CSC, fl *buffer.Field) (map[string]string, error) {
	sens, err := visualize.Sensitivity(jpos, frame.Image.W, frame.Image.H, frame.Image.C)
	if err != nil {
		return nil, err
	}
	out := map[string]*image.NRGBA{
		"render":      imageio.ToNRGBA(frame.Image),
		"boundary":    visualize.Mask(frame.Boundary),
		"sensitivity": sens,
	}
	if fl != nil {
		img, err := visualize.Flow(fl)
		if err != nil {
			return nil, err
		}
		out["flow"] = img
	}

	paths := make(map[string]string, len(out))
	for kind, img := range out {
		rel := filepath.Join(name, kind+".webp")
		if err := imageio.SaveWebP(filepath.Join(cfg.OutputDir, rel), visualize.Upscale(img, cfg.Scale)); err != nil {
			return nil, fmt.Errorf("batch: %s: %w", name, err)
		}
		paths[kind] = filepath.ToSlash(rel)
	}
	return paths, nil
}

func matrixStats(m *sparse.CSC) MatrixStats {
	r, c := m.Dims()
	return MatrixStats{Rows: r, Cols: c, NNZ: m.NNZ(), Norm: m.Norm()}
}

func flowStats(f *buffer.Field) *FlowStats {
	var st FlowStats
	var sum float64
	for p := 0; p < f.W*f.H; p++ {
		if !f.Known[2*p] {
			continue
		}
		mag := math.Hypot(f.Val[2*p], f.Val[2*p+1])
		sum += mag
		st.Max = math.Max(st.Max, mag)
		st.Known++
	}
	if st.Known > 0 {
		st.Mean = sum / float64(st.Known)
	}
	return &st
}
