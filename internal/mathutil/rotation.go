package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Rodrigues converts an axis-angle rotation vector (axis * radians) to a
// rotation matrix: R = cosθ·I + (1-cosθ)·kkᵀ + sinθ·[k]x.
func Rodrigues(rv Vec3) Mat3 {
	theta := rv.Len()
	if theta < 1e-12 {
		// first order: I + [rv]x
		return Mat3Identity().Add(rv.Skew())
	}
	k := rv.Scale(1 / theta)
	c, s := math.Cos(theta), math.Sin(theta)
	return Mat3Identity().Scale(c).
		Add(k.Outer().Scale(1 - c)).
		Add(k.Skew().Scale(s))
}

// Euler returns Rz·Ry·Rx, applying the X rotation first. Angles in radians.
func Euler(rx, ry, rz float64) Mat3 {
	return Mat3Mul(RotZ(rz), Mat3Mul(RotY(ry), RotX(rx)))
}

// AxisAngle is the inverse of Rodrigues: it returns the rotation vector
// (axis * radians, angle in [0, π]) of the rotation matrix r.
func AxisAngle(r Mat3) Vec3 {
	cos := math.Max(-1, math.Min(1, (r[0]+r[4]+r[8]-1)/2))
	theta := math.Acos(cos)

	// r - rᵀ = 2·sinθ·[k]x
	w := r.Add(r.Transpose().Scale(-1))
	v := Vec3{w[7], w[2], w[3]}.Scale(0.5)
	if theta < 1e-12 {
		return v
	}
	if s := math.Sin(theta); s > 1e-6 {
		return v.Scale(theta / s)
	}

	// θ ≈ π: r ≈ 2kkᵀ - I, so read k from the largest diagonal of (r+I)/2.
	i := 0
	for j := 1; j < 3; j++ {
		if r[j*4] > r[i*4] {
			i = j
		}
	}
	var k Vec3
	k[i] = math.Sqrt((r[i*4] + 1) / 2)
	for j := 0; j < 3; j++ {
		if j != i {
			k[j] = (r[i*3+j] + r[j*3+i]) / 4 / k[i]
		}
	}
	return k.Scale(theta / k.Len())
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
