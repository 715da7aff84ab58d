package raster

import (
	"math"

	"diffraster/internal/buffer"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width    int
	Height   int
	Channels int
	Color    []float64    // interleaved, len = W*H*Channels
	ZBuf     []float64    // camera-space depth per pixel, initialized to +inf
	Tri      []uint32     // covering face per pixel, buffer.BackgroundID if none
	Bary     [][3]float64 // barycentric weights of the covering face
}

// NewFrameBuffer allocates a buffer cleared to the background color.
func NewFrameBuffer(w, h int, bg []float64) *FrameBuffer {
	n := w * h
	c := len(bg)
	fb := &FrameBuffer{
		Width:    w,
		Height:   h,
		Channels: c,
		Color:    make([]float64, n*c),
		ZBuf:     make([]float64, n),
		Tri:      make([]uint32, n),
		Bary:     make([][3]float64, n),
	}
	for i := 0; i < n; i++ {
		fb.ZBuf[i] = math.Inf(1)
		fb.Tri[i] = buffer.BackgroundID
		copy(fb.Color[i*c:(i+1)*c], bg)
	}
	return fb
}
