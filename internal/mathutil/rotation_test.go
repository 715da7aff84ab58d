package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireMat3InDelta(t *testing.T, want, got Mat3) {
	t.Helper()
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-12, "element %d", i)
	}
}

func TestRodriguesMatchesAxisRotations(t *testing.T) {
	a := Deg2Rad(30)
	requireMat3InDelta(t, RotX(a), Rodrigues(Vec3{a, 0, 0}))
	requireMat3InDelta(t, RotY(a), Rodrigues(Vec3{0, a, 0}))
	requireMat3InDelta(t, RotZ(a), Rodrigues(Vec3{0, 0, a}))
}

func TestRodriguesZeroIsIdentity(t *testing.T) {
	requireMat3InDelta(t, Mat3Identity(), Rodrigues(Vec3{}))
}

func TestRodriguesIsOrthonormal(t *testing.T) {
	r := Rodrigues(Vec3{0.3, -1.1, 0.7})
	requireMat3InDelta(t, Mat3Identity(), Mat3Mul(r, r.Transpose()))
}

func TestSkewIsCrossProduct(t *testing.T) {
	a, b := Vec3{1, 2, 3}, Vec3{-4, 0.5, 2}
	want := Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	got := a.Skew().MulVec3(b)
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-12)
	}
	require.InDelta(t, math.Sqrt(14), a.Len(), 1e-12)
}

func TestEulerAppliesXThenYThenZ(t *testing.T) {
	a := Deg2Rad(90)
	requireMat3InDelta(t, RotY(a), Euler(0, a, 0))

	// x-axis: X leaves it, Y(90) sends it to -z, Z leaves -z
	got := Euler(a, a, a).MulVec3(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestAxisAngleInvertsRodrigues(t *testing.T) {
	tests := []struct {
		name string
		rv   Vec3
	}{
		{"zero", Vec3{}},
		{"tiny", Vec3{1e-14, 0, -2e-14}},
		{"generic", Vec3{0.3, -1.1, 0.7}},
		{"x axis", Vec3{Deg2Rad(45), 0, 0}},
		{"near pi", Vec3{0, 0, math.Pi - 1e-3}},
		{"pi diagonal", Vec3{1, 1, 0}.Scale(math.Pi / math.Sqrt2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rodrigues(tt.rv)
			requireMat3InDelta(t, r, Rodrigues(AxisAngle(r)))
		})
	}
}

func TestAxisAngleOfEuler(t *testing.T) {
	r := Euler(Deg2Rad(10), Deg2Rad(-20), Deg2Rad(35))
	requireMat3InDelta(t, r, Rodrigues(AxisAngle(r)))
	requireMat3InDelta(t, Mat3Identity(), Mat3Mul(r, r.Transpose()))
}
