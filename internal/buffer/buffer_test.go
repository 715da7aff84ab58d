package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibilityRoundTripIDs(t *testing.T) {
	ids := []uint32{BackgroundID, 0, 7, BackgroundID, 2, BackgroundID}
	v, err := VisibilityFromIDs(3, 2, ids)
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 4}, v.Visible())
	require.Equal(t, []int{0, 3, 5}, v.Invisible())

	tri, ok := v.Triangle(2)
	require.True(t, ok)
	require.Equal(t, 7, tri)

	_, ok = v.Triangle(3)
	require.False(t, ok)

	require.Equal(t, ids, v.IDs())
}

func TestVisibilityFromIDsRejectsWrongLength(t *testing.T) {
	_, err := VisibilityFromIDs(3, 2, make([]uint32, 5))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSameGrid(t *testing.T) {
	img := NewImage(4, 3, 3)
	vis := NewVisibility(4, 3)
	bary := NewBarycentric(4, 3)
	require.NoError(t, SameGrid(4, 3, img, vis, bary))

	require.ErrorIs(t, SameGrid(3, 4, img), ErrShapeMismatch)
	require.ErrorIs(t, SameGrid(0, 4), ErrBadShape)

	broken := &Image{W: 4, H: 3, C: 3, Pix: make([]float64, 10)}
	require.ErrorIs(t, SameGrid(4, 3, broken), ErrShapeMismatch)

	require.ErrorIs(t, SameGrid(4, 3, Grid(nil)), ErrShapeMismatch)
}

func TestImageLayout(t *testing.T) {
	img := NewImage(3, 2, 3)
	require.Equal(t, 18, img.Len())
	img.Set(2, 1, 1, 0.5)
	require.Equal(t, 0.5, img.Pix[(1*3+2)*3+1])
	require.Equal(t, 0.5, img.At(2, 1, 1))

	g := img.Channel(1)
	require.Equal(t, 1, g.C)
	require.Equal(t, 0.5, g.At(2, 1, 0))

	c := img.Clone()
	c.Set(0, 0, 0, 9)
	require.Zero(t, img.At(0, 0, 0))
}

func TestFieldFill(t *testing.T) {
	f := NewField(2, 1, 1)
	f.Val[0] = 3
	f.SetUnknown(1)
	require.Equal(t, 1, f.Unknown())

	src := NewField(2, 1, 1)
	src.Val[0] = -1
	src.Val[1] = 4
	f.Fill(src)

	require.Zero(t, f.Unknown())
	require.Equal(t, []float64{3, 4}, f.Val)
}

func TestFacesArity(t *testing.T) {
	n, err := Faces{{0, 1, 2}, {2, 1, 3}}.Arity()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = Faces{{0, 1}, {1, 2}}.Arity()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = Faces{{0, 1, 2}, {1, 2}}.Arity()
	require.ErrorIs(t, err, ErrBadArity)

	_, err = Faces{{0, 1, 2, 3}}.Arity()
	require.ErrorIs(t, err, ErrBadArity)

	require.Equal(t, 3, Faces{{0, 1, 2}, {2, 1, 3}}.MaxVertex())
	require.Equal(t, -1, Faces{}.MaxVertex())
}
