package buffer

// Mask is a per-pixel boolean grid, used for silhouette/occlusion boundaries.
type Mask struct {
	W, H int
	Bits []bool
}

func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

func (m *Mask) Dims() (int, int) { return m.W, m.H }

func (m *Mask) Validate() error {
	return checkLen("mask", len(m.Bits), m.W, m.H, 1)
}

func (m *Mask) At(x, y int) bool { return m.Bits[y*m.W+x] }

func (m *Mask) Set(x, y int, v bool) { m.Bits[y*m.W+x] = v }

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
