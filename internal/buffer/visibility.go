package buffer

import (
	"fmt"
	"math"
)

// BackgroundID is the triangle id rasterizers write for uncovered pixels.
const BackgroundID uint32 = math.MaxUint32

// Coverage is one visibility-buffer entry: either the nearest triangle
// (Hit, Tri) or background (the zero value).
type Coverage struct {
	Tri int
	Hit bool
}

// Background is the coverage of a pixel no triangle reaches.
var Background = Coverage{}

// Covered returns the coverage of a pixel whose nearest surface is triangle tri.
func Covered(tri int) Coverage { return Coverage{Tri: tri, Hit: true} }

// Visibility records, per pixel, which triangle (if any) is visible.
type Visibility struct {
	W, H  int
	Cells []Coverage
}

// NewVisibility allocates an all-background buffer.
func NewVisibility(w, h int) *Visibility {
	return &Visibility{W: w, H: h, Cells: make([]Coverage, w*h)}
}

// VisibilityFromIDs decodes a rasterizer id buffer in which BackgroundID
// marks uncovered pixels.
func VisibilityFromIDs(w, h int, ids []uint32) (*Visibility, error) {
	if err := checkLen("visibility ids", len(ids), w, h, 1); err != nil {
		return nil, err
	}
	v := NewVisibility(w, h)
	for p, id := range ids {
		if id != BackgroundID {
			v.Cells[p] = Covered(int(id))
		}
	}
	return v, nil
}

// IDs encodes the buffer back into the rasterizer id format.
func (v *Visibility) IDs() []uint32 {
	ids := make([]uint32, len(v.Cells))
	for p, c := range v.Cells {
		if c.Hit {
			ids[p] = uint32(c.Tri)
		} else {
			ids[p] = BackgroundID
		}
	}
	return ids
}

func (v *Visibility) Dims() (int, int) { return v.W, v.H }

func (v *Visibility) Validate() error {
	if err := checkLen("visibility", len(v.Cells), v.W, v.H, 1); err != nil {
		return err
	}
	for p, c := range v.Cells {
		if c.Hit && c.Tri < 0 {
			return fmt.Errorf("%w: pixel %d has negative triangle %d", ErrShapeMismatch, p, c.Tri)
		}
	}
	return nil
}

// Triangle returns the triangle covering flat pixel p.
func (v *Visibility) Triangle(p int) (int, bool) {
	c := v.Cells[p]
	return c.Tri, c.Hit
}

// Visible returns the flat indices of covered pixels in ascending order.
func (v *Visibility) Visible() []int {
	out := make([]int, 0, len(v.Cells))
	for p, c := range v.Cells {
		if c.Hit {
			out = append(out, p)
		}
	}
	return out
}

// Invisible returns the flat indices of background pixels in ascending order.
func (v *Visibility) Invisible() []int {
	out := make([]int, 0, len(v.Cells))
	for p, c := range v.Cells {
		if !c.Hit {
			out = append(out, p)
		}
	}
	return out
}
