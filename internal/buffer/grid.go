package buffer

import "fmt"

// Grid is implemented by every per-pixel buffer in this package.
type Grid interface {
	Dims() (w, h int)
	Validate() error
}

// SameGrid checks that every grid is internally consistent and w×h sized.
func SameGrid(w, h int, grids ...Grid) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadShape, w, h)
	}
	for i, g := range grids {
		if g == nil {
			return fmt.Errorf("%w: grid %d is nil", ErrShapeMismatch, i)
		}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("grid %d: %w", i, err)
		}
		if gw, gh := g.Dims(); gw != w || gh != h {
			return fmt.Errorf("%w: grid %d is %dx%d, want %dx%d", ErrShapeMismatch, i, gw, gh, w, h)
		}
	}
	return nil
}

func checkLen(kind string, got, w, h, per int) error {
	if w <= 0 || h <= 0 || per <= 0 {
		return fmt.Errorf("%w: %s %dx%dx%d", ErrBadShape, kind, w, h, per)
	}
	if got != w*h*per {
		return fmt.Errorf("%w: %s holds %d values, want %d", ErrShapeMismatch, kind, got, w*h*per)
	}
	return nil
}
