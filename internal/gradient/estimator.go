package gradient

import (
	"fmt"
	"runtime"
	"sync"

	"diffraster/internal/buffer"
)

// Axis selects the direction of differentiation.
type Axis int

const (
	X Axis = iota
	Y
)

// Estimator configures the gradient routines.
type Estimator struct {
	// Aperture is the Sobel kernel size: 1 (plain [-1 0 1], the default)
	// or 3 (adds [1 2 1] smoothing across the derivative direction).
	Aperture int
	// Workers bounds the goroutines used across channels. <= 0 means NumCPU.
	Workers int
}

// Default is the estimator used by the package-level functions.
var Default = Estimator{Aperture: 1}

func (e Estimator) smoothing() ([]float64, error) {
	switch e.Aperture {
	case 0, 1:
		return []float64{1}, nil
	case 3:
		return []float64{1, 2, 1}, nil
	}
	return nil, fmt.Errorf("gradient: unsupported aperture %d", e.Aperture)
}

func (e Estimator) workers(channels int) int {
	n := e.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > channels {
		n = channels
	}
	return n
}

// perChannel runs fn once per channel. Channels write disjoint samples, so
// the result is independent of scheduling.
func (e Estimator) perChannel(channels int, fn func(k int)) {
	workers := e.workers(channels)
	if workers <= 1 {
		for k := 0; k < channels; k++ {
			fn(k)
		}
		return
	}

	kChan := make(chan int, channels)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range kChan {
				fn(k)
			}
		}()
	}
	for k := 0; k < channels; k++ {
		kChan <- k
	}
	close(kChan)
	wg.Wait()
}

func checkImage(img *buffer.Image) error {
	if img == nil {
		return fmt.Errorf("gradient: %w: nil image", buffer.ErrShapeMismatch)
	}
	if err := img.Validate(); err != nil {
		return fmt.Errorf("gradient: %w", err)
	}
	return nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Negated returns a copy of f with every known sample negated.
func Negated(f *buffer.Field) *buffer.Field {
	out := &buffer.Field{
		W: f.W, H: f.H, C: f.C,
		Val:   make([]float64, len(f.Val)),
		Known: make([]bool, len(f.Known)),
	}
	copy(out.Known, f.Known)
	for i, v := range f.Val {
		if f.Known[i] {
			out.Val[i] = -v
		}
	}
	return out
}
