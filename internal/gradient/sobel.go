package gradient

import "diffraster/internal/buffer"

// Normalizer returns the kernel's centre response on a 10×10 unit ramp
// along x. Dividing by it makes a unit ramp differentiate to 1.
func (e Estimator) Normalizer() (float64, error) {
	const n = 10
	ramp := buffer.NewImage(n, n, 1)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			ramp.Set(x, y, 0, float64(x))
		}
	}
	smooth, err := e.smoothing()
	if err != nil {
		return 0, err
	}
	return kernelAt(ramp, X, smooth, n/2, n/2, 0), nil
}

// kernelAt evaluates the unnormalized derivative kernel at (x, y, k):
// the [-1 0 1] difference along axis, smoothed across it, with the border
// replicated.
func kernelAt(img *buffer.Image, axis Axis, smooth []float64, x, y, k int) float64 {
	r := len(smooth) / 2
	var sum float64
	for t, s := range smooth {
		o := t - r
		switch axis {
		case X:
			yy := clamp(y+o, img.H)
			sum += s * (img.At(clamp(x+1, img.W), yy, k) - img.At(clamp(x-1, img.W), yy, k))
		case Y:
			xx := clamp(x+o, img.W)
			sum += s * (img.At(xx, clamp(y+1, img.H), k) - img.At(xx, clamp(y-1, img.H), k))
		}
	}
	return sum
}

// Sobel returns the normalized kernel derivatives of img along x and y.
// Every sample of the result is known.
func (e Estimator) Sobel(img *buffer.Image) (dx, dy *buffer.Field, err error) {
	if err := checkImage(img); err != nil {
		return nil, nil, err
	}
	smooth, err := e.smoothing()
	if err != nil {
		return nil, nil, err
	}
	norm, err := e.Normalizer()
	if err != nil {
		return nil, nil, err
	}

	dx = buffer.NewField(img.W, img.H, img.C)
	dy = buffer.NewField(img.W, img.H, img.C)
	e.perChannel(img.C, func(k int) {
		for y := 0; y < img.H; y++ {
			for x := 0; x < img.W; x++ {
				i := img.Offset(x, y, k)
				dx.Val[i] = kernelAt(img, X, smooth, x, y, k) / norm
				dy.Val[i] = kernelAt(img, Y, smooth, x, y, k) / norm
			}
		}
	})
	return dx, dy, nil
}

// Sobel runs Default.Sobel.
func Sobel(img *buffer.Image) (dx, dy *buffer.Field, err error) {
	return Default.Sobel(img)
}
