package sparse

import "errors"

var (
	// ErrBadShape is returned for negative matrix dimensions.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrOutOfRange is returned when a triplet falls outside the matrix.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch is returned when an operand has the wrong length.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")
)
