package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"diffraster/internal/gradient"
	"diffraster/internal/scene"
)

func TestRunDemoScene(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{OutputDir: dir, Workers: 2, Scale: 2, Gradient: gradient.Default, WriteImages: true}

	s := scene.Demo(32, 24)
	results := Run(cfg, []*scene.Scene{s})
	require.Len(t, results, 1)

	r := results[0]
	require.True(t, r.Success, r.Error)
	st := r.Stats
	require.Equal(t, 3, st.Channels)
	require.Positive(t, st.Visible)
	require.Positive(t, st.Boundary)
	require.Less(t, st.Visible, 32*24)

	require.Equal(t, MatrixStats{Rows: 32 * 24 * 3, Cols: 2 * 7, NNZ: st.Position.NNZ, Norm: st.Position.Norm}, st.Position)
	require.Equal(t, 32*24*3, st.Color.Rows)
	require.Equal(t, 3*7, st.Color.Cols)
	require.Equal(t, st.Visible*3*3, st.Color.NNZ)
	require.Equal(t, 3, st.Background.Cols)
	require.Equal(t, 3*(32*24-st.Visible), st.Background.NNZ)

	require.NotNil(t, st.Flow)
	require.Equal(t, st.Visible, st.Flow.Known)
	require.Positive(t, st.Flow.Mean)

	for _, kind := range []string{"render", "boundary", "sensitivity", "flow"} {
		rel, ok := r.Images[kind]
		require.True(t, ok, kind)
		_, err := os.Stat(filepath.Join(dir, rel))
		require.NoError(t, err)
	}
}

func TestRunPlainMatchesBoundaryShape(t *testing.T) {
	s := scene.Demo(24, 24)
	s.NextCamera = nil

	plain := Run(Config{Workers: 1, Plain: true}, []*scene.Scene{s})[0]
	aware := Run(Config{Workers: 1}, []*scene.Scene{s})[0]
	require.True(t, plain.Success, plain.Error)
	require.True(t, aware.Success, aware.Error)

	require.Nil(t, plain.Stats.Flow)
	require.Empty(t, plain.Images)
	require.Equal(t, plain.Stats.Position.Rows, aware.Stats.Position.Rows)
	require.Equal(t, plain.Stats.Position.Cols, aware.Stats.Position.Cols)
	require.NotEqual(t, plain.Stats.Position.Norm, aware.Stats.Position.Norm)
}

func TestRunKeepsOrderAndReportsFailures(t *testing.T) {
	good := scene.Demo(16, 16)
	bad := scene.Demo(16, 16)
	bad.Name = "bad"
	bad.Faces[0][0] = 99

	results := Run(Config{Workers: 3}, []*scene.Scene{good, bad, good})
	require.Len(t, results, 3)
	require.True(t, results[0].Success)
	require.False(t, results[1].Success)
	require.Equal(t, "bad", results[1].Name)
	require.NotEmpty(t, results[1].Error)
	require.True(t, results[2].Success)
}

func TestRunBehindCameraFails(t *testing.T) {
	s := scene.Demo(16, 16)
	s.Vertices[0][2] = -1

	r := Run(Config{Workers: 1}, []*scene.Scene{s})[0]
	require.False(t, r.Success)
	require.Contains(t, r.Error, "behind camera")
}

func TestWriteManifest(t *testing.T) {
	results := []Result{
		{Name: "a", Success: true, Stats: Stats{Width: 4, Height: 4}},
		{Name: "b", Error: "boom"},
	}
	m := NewManifest(Config{Plain: true, Gradient: gradient.Estimator{Aperture: 3}}, results)
	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err)
	require.Equal(t, 1, m.Succeeded)
	require.Equal(t, 1, m.Failed)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, m))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Manifest
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, m.RunID, back.RunID)
	require.True(t, back.Plain)
	require.Equal(t, 3, back.Aperture)
	require.Len(t, back.Scenes, 2)
	require.NotNil(t, back.Scenes[0].Stats)
	require.Equal(t, 4, back.Scenes[0].Stats.Width)
	require.Nil(t, back.Scenes[1].Stats)
	require.Equal(t, "boom", back.Scenes[1].Error)
}
