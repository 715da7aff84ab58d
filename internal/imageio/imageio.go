// Package imageio converts between decoded image files and float images.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"diffraster/internal/buffer"
)

// ErrUnknownFormat is returned when no decoder accepts the data.
var ErrUnknownFormat = errors.New("imageio: unknown image format")

type decoder func(io.Reader) (image.Image, error)

// decoders maps file extensions to codecs. The tga package registers an
// empty magic with the image package, so image.Decode would hand every
// stream to it; codecs are called directly instead.
var decoders = map[string]decoder{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".webp": nativewebp.DecodeIgnoreAlphaFlag,
	".tga":  tga.Decode,
}

// sniffOrder is tried for unknown extensions. TGA has no magic, so it is last.
var sniffOrder = []decoder{png.Decode, jpeg.Decode, gif.Decode, bmp.Decode, nativewebp.DecodeIgnoreAlphaFlag, tga.Decode}

// Load decodes a PNG, JPEG, GIF, BMP, WebP or TGA file into a float image
// with values in [0,1]. The codec follows the extension; files with other
// extensions are sniffed.
// Grayscale sources give one channel, everything else three.
func Load(path string) (*buffer.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: read %s: %w", path, err)
	}

	img, err := decode(raw, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

func decode(raw []byte, ext string) (image.Image, error) {
	if dec, ok := decoders[ext]; ok {
		return dec(bytes.NewReader(raw))
	}
	for _, dec := range sniffOrder {
		if img, err := dec(bytes.NewReader(raw)); err == nil {
			return img, nil
		}
	}
	return nil, ErrUnknownFormat
}

// LoadMask decodes an image file and marks pixels brighter than one half.
func LoadMask(path string) (*buffer.Mask, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	m := buffer.NewMask(img.W, img.H)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			var sum float64
			for k := 0; k < img.C; k++ {
				sum += img.At(x, y, k)
			}
			m.Set(x, y, sum/float64(img.C) > 0.5)
		}
	}
	return m, nil
}

// FromImage converts a decoded image. Alpha is dropped.
func FromImage(src image.Image) *buffer.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		out := buffer.NewImage(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g := color.Gray16Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				out.Set(x, y, 0, float64(g.Y)/0xffff)
			}
		}
		return out
	}

	out := buffer.NewImage(w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			out.Set(x, y, 0, float64(c.R)/0xffff)
			out.Set(x, y, 1, float64(c.G)/0xffff)
			out.Set(x, y, 2, float64(c.B)/0xffff)
		}
	}
	return out
}

// ToNRGBA converts a float image to 8-bit, clamping to [0,1]. One channel
// is drawn as gray; channels past the third are ignored.
func ToNRGBA(img *buffer.Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			i := dst.PixOffset(x, y)
			for k := 0; k < 3; k++ {
				src := k
				if src >= img.C {
					src = img.C - 1
				}
				dst.Pix[i+k] = Clamp8(img.At(x, y, src) * 255)
			}
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

// SaveWebP writes img as a lossless WebP file, creating parent directories.
func SaveWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return f.Close()
}

// Clamp8 rounds v to the nearest byte value.
func Clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
