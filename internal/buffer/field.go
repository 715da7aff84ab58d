package buffer

// Field is a per-pixel, per-channel real field with an explicit validity
// mask. A sample whose Known flag is false carries no value; Val holds 0
// there so that arithmetic on the payload never propagates NaN.
type Field struct {
	W, H, C int
	Val     []float64
	Known   []bool
}

// NewField allocates a zeroed, fully known field.
func NewField(w, h, c int) *Field {
	known := make([]bool, w*h*c)
	for i := range known {
		known[i] = true
	}
	return &Field{W: w, H: h, C: c, Val: make([]float64, w*h*c), Known: known}
}

func (f *Field) Dims() (int, int) { return f.W, f.H }

func (f *Field) Validate() error {
	if err := checkLen("field", len(f.Val), f.W, f.H, f.C); err != nil {
		return err
	}
	return checkLen("field mask", len(f.Known), f.W, f.H, f.C)
}

func (f *Field) Offset(x, y, k int) int { return (y*f.W+x)*f.C + k }

func (f *Field) At(x, y, k int) float64 { return f.Val[f.Offset(x, y, k)] }

// SetUnknown clears sample i.
func (f *Field) SetUnknown(i int) {
	f.Val[i] = 0
	f.Known[i] = false
}

// Unknown counts the samples without a value.
func (f *Field) Unknown() int {
	n := 0
	for _, k := range f.Known {
		if !k {
			n++
		}
	}
	return n
}

// Scale multiplies every known sample by s in place.
func (f *Field) Scale(s float64) {
	for i, k := range f.Known {
		if k {
			f.Val[i] *= s
		}
	}
}

// Fill replaces every unknown sample with the corresponding sample of src.
// Unknown samples in src stay unknown.
func (f *Field) Fill(src *Field) {
	for i, k := range f.Known {
		if !k && src.Known[i] {
			f.Val[i] = src.Val[i]
			f.Known[i] = true
		}
	}
}
