package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/require"

	"diffraster/internal/buffer"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadRGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	src.Set(2, 1, color.NRGBA{0, 0, 255, 255})

	path := filepath.Join(t.TempDir(), "rgb.png")
	writePNG(t, path, src)

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, img.W)
	require.Equal(t, 2, img.H)
	require.Equal(t, 3, img.C)
	require.Equal(t, 1.0, img.At(0, 0, 0))
	require.Equal(t, 0.0, img.At(0, 0, 1))
	require.Equal(t, 1.0, img.At(2, 1, 2))
}

func TestLoadGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 0, color.Gray{Y: 255})

	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, src)

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, img.C)
	require.Equal(t, 1.0, img.At(1, 0, 0))
	require.Equal(t, 0.0, img.At(0, 1, 0))

	m, err := LoadMask(path)
	require.NoError(t, err)
	require.Equal(t, 1, m.Count())
	require.True(t, m.At(1, 0))
}

func TestLoadTGA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	src.Set(0, 1, color.NRGBA{255, 255, 255, 255})

	path := filepath.Join(t.TempDir(), "tex.tga")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tga.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, img.C)
	require.Equal(t, 1.0, img.At(1, 0, 1))
	require.Equal(t, 0.0, img.At(1, 0, 0))
	require.Equal(t, 1.0, img.At(0, 1, 2))
}

func TestLoadSniffsUnknownExtension(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(1, 0, color.NRGBA{0, 0, 255, 255})

	path := filepath.Join(t.TempDir(), "frame.img")
	writePNG(t, path, src)

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, img.W)
	require.Equal(t, 1.0, img.At(1, 0, 2))

	junk := filepath.Join(t.TempDir(), "junk.dat")
	require.NoError(t, os.WriteFile(junk, []byte{1, 2, 3}, 0o644))
	_, err = Load(junk)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = Load(junk)
	require.Error(t, err)
}

func TestToNRGBAClampsAndExpandsGray(t *testing.T) {
	img := buffer.NewImage(2, 1, 1)
	img.Set(0, 0, 0, 2)
	img.Set(1, 0, 0, -1)

	out := ToNRGBA(img)
	require.Equal(t, []uint8{255, 255, 255, 255, 0, 0, 0, 255}, out.Pix)
}

func TestSaveWebPRoundTrip(t *testing.T) {
	img := buffer.NewImage(4, 4, 3)
	for i := range img.Pix {
		img.Pix[i] = float64(i%3) * 0.5
	}

	path := filepath.Join(t.TempDir(), "nested", "out.webp")
	require.NoError(t, SaveWebP(path, ToNRGBA(img)))

	back, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, back.W)
	require.Equal(t, 4, back.H)
	for i := range img.Pix {
		require.InDelta(t, img.Pix[i], back.Pix[i], 1.0/255+1e-9)
	}
}
