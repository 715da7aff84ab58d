package jacobian

import (
	"diffraster/internal/buffer"
	"diffraster/internal/pixmap"
)

// Sentinels callers can match with errors.Is.
var (
	ErrShapeMismatch    = buffer.ErrShapeMismatch
	ErrBackgroundPixel  = pixmap.ErrBackgroundPixel
	ErrVertexOutOfRange = pixmap.ErrVertexOutOfRange
)
