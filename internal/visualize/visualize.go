// Package visualize renders gradient fields, flow and Jacobian sensitivity
// as 8-bit images for inspection.
package visualize

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"diffraster/internal/buffer"
	"diffraster/internal/imageio"
	"diffraster/internal/sparse"
)

// unknown is the color of samples without a value.
var unknown = [3]uint8{96, 96, 96}

// Field draws channel k of f with a diverging map: negative values blue,
// positive red, zero white. The scale is the largest magnitude in the
// channel. Unknown samples are gray.
func Field(f *buffer.Field, k int) (*image.NRGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("visualize: %w", err)
	}
	if k < 0 || k >= f.C {
		return nil, fmt.Errorf("visualize: channel %d of %d", k, f.C)
	}

	var peak float64
	for i := k; i < len(f.Val); i += f.C {
		if f.Known[i] {
			peak = math.Max(peak, math.Abs(f.Val[i]))
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			i := f.Offset(x, y, k)
			d := dst.PixOffset(x, y)
			dst.Pix[d+3] = 255
			if !f.Known[i] {
				copy(dst.Pix[d:d+3], unknown[:])
				continue
			}
			t := 0.0
			if peak > 0 {
				t = f.Val[i] / peak
			}
			fade := imageio.Clamp8((1 - math.Abs(t)) * 255)
			if t >= 0 {
				dst.Pix[d], dst.Pix[d+1], dst.Pix[d+2] = 255, fade, fade
			} else {
				dst.Pix[d], dst.Pix[d+1], dst.Pix[d+2] = fade, fade, 255
			}
		}
	}
	return dst, nil
}

// Flow draws a two-channel flow field on a color wheel: hue is direction,
// saturation is magnitude relative to the largest known vector.
func Flow(f *buffer.Field) (*image.NRGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("visualize: %w", err)
	}
	if f.C != 2 {
		return nil, fmt.Errorf("visualize: flow needs 2 channels, got %d", f.C)
	}

	var peak float64
	for p := 0; p < f.W*f.H; p++ {
		if f.Known[2*p] {
			peak = math.Max(peak, math.Hypot(f.Val[2*p], f.Val[2*p+1]))
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			i := f.Offset(x, y, 0)
			d := dst.PixOffset(x, y)
			dst.Pix[d+3] = 255
			if !f.Known[i] {
				copy(dst.Pix[d:d+3], unknown[:])
				continue
			}
			u, v := f.Val[i], f.Val[i+1]
			sat := 0.0
			if peak > 0 {
				sat = math.Hypot(u, v) / peak
			}
			hue := math.Atan2(v, u)/(2*math.Pi) + 0.5
			r, g, b := hsv(hue, sat, 1)
			dst.Pix[d], dst.Pix[d+1], dst.Pix[d+2] = r, g, b
		}
	}
	return dst, nil
}

// Mask draws set pixels white on black.
func Mask(m *buffer.Mask) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			d := dst.PixOffset(x, y)
			var v uint8
			if m.At(x, y) {
				v = 255
			}
			dst.Pix[d], dst.Pix[d+1], dst.Pix[d+2], dst.Pix[d+3] = v, v, v, 255
		}
	}
	return dst
}

// Sensitivity reduces a Jacobian with rows laid out as pixel*C+channel to
// a per-pixel gray image of row norms, normalized to the largest pixel.
func Sensitivity(j *sparse.CSC, w, h, c int) (*image.NRGBA, error) {
	rows, _ := j.Dims()
	if rows != w*h*c {
		return nil, fmt.Errorf("visualize: %d rows for %dx%dx%d image", rows, w, h, c)
	}

	energy := buffer.NewImage(w, h, 1)
	j.DoNonZero(func(i, _ int, v float64) {
		energy.Pix[i/c] += v * v
	})

	var peak float64
	for i, e := range energy.Pix {
		energy.Pix[i] = math.Sqrt(e)
		peak = math.Max(peak, energy.Pix[i])
	}
	if peak > 0 {
		for i := range energy.Pix {
			energy.Pix[i] /= peak
		}
	}
	return imageio.ToNRGBA(energy), nil
}

// Upscale enlarges img by an integer factor with nearest-neighbour
// sampling so single pixels stay visible.
func Upscale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func hsv(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 1) * 6
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return imageio.Clamp8(r * 255), imageio.Clamp8(g * 255), imageio.Clamp8(b * 255)
}
