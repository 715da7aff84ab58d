package buffer

// Image is a rendered image of W×H pixels with C channels per pixel,
// stored as Pix[(y*W+x)*C + k].
type Image struct {
	W, H, C int
	Pix     []float64
}

// NewImage allocates a zeroed image.
func NewImage(w, h, c int) *Image {
	return &Image{W: w, H: h, C: c, Pix: make([]float64, w*h*c)}
}

func (m *Image) Dims() (int, int) { return m.W, m.H }

func (m *Image) Validate() error {
	return checkLen("image", len(m.Pix), m.W, m.H, m.C)
}

// Len returns the number of samples, W·H·C.
func (m *Image) Len() int { return len(m.Pix) }

// Offset returns the index of channel k of pixel (x, y) in Pix.
func (m *Image) Offset(x, y, k int) int {
	return (y*m.W+x)*m.C + k
}

func (m *Image) At(x, y, k int) float64 {
	return m.Pix[m.Offset(x, y, k)]
}

func (m *Image) Set(x, y, k int, v float64) {
	m.Pix[m.Offset(x, y, k)] = v
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	out := &Image{W: m.W, H: m.H, C: m.C, Pix: make([]float64, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Channel extracts channel k as a single-channel image.
func (m *Image) Channel(k int) *Image {
	out := NewImage(m.W, m.H, 1)
	for p := 0; p < m.W*m.H; p++ {
		out.Pix[p] = m.Pix[p*m.C+k]
	}
	return out
}
