package buffer

import "errors"

var (
	// ErrShapeMismatch is returned when a buffer's dimensions disagree with
	// the declared width, height or channel count, or with another buffer.
	ErrShapeMismatch = errors.New("buffer: shape mismatch")

	// ErrBadShape is returned for non-positive dimensions.
	ErrBadShape = errors.New("buffer: invalid shape")

	// ErrBadArity is returned when faces are not all edges (2) or all triangles (3).
	ErrBadArity = errors.New("buffer: faces must all have 2 or 3 vertices")
)
