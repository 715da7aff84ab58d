package buffer

import "fmt"

// Faces is an ordered face list; each face holds vertex indices.
// All faces passed to one call share the same arity.
type Faces [][]int

// Arity returns the shared vertex count of the faces: 2 or 3.
func (f Faces) Arity() (int, error) {
	if len(f) == 0 {
		return 3, nil
	}
	n := len(f[0])
	if n != 2 && n != 3 {
		return 0, fmt.Errorf("%w: face 0 has %d", ErrBadArity, n)
	}
	for i, face := range f {
		if len(face) != n {
			return 0, fmt.Errorf("%w: face %d has %d, face 0 has %d", ErrBadArity, i, len(face), n)
		}
	}
	return n, nil
}

// MaxVertex returns the largest vertex index referenced, or -1 for no faces.
func (f Faces) MaxVertex() int {
	m := -1
	for _, face := range f {
		for _, v := range face {
			if v > m {
				m = v
			}
		}
	}
	return m
}
