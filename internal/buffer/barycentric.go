package buffer

// Barycentric holds, per pixel, the weights of the covering face's vertices.
// Only pixels covered in the matching Visibility buffer carry meaning.
// Edge faces use the first two weights.
type Barycentric struct {
	W, H    int
	Weights [][3]float64
}

func NewBarycentric(w, h int) *Barycentric {
	return &Barycentric{W: w, H: h, Weights: make([][3]float64, w*h)}
}

func (b *Barycentric) Dims() (int, int) { return b.W, b.H }

func (b *Barycentric) Validate() error {
	return checkLen("barycentric", len(b.Weights), b.W, b.H, 1)
}

// At returns the weights at flat pixel p.
func (b *Barycentric) At(p int) [3]float64 { return b.Weights[p] }
