// Package quat holds the rotation conventions shared between the firmware and
// any host-side consumer of tracker data: right-handed axes, rotations
// represented as unit quaternions only.
package quat

import "math"

// Quaternion is a rotation in w + xi + yj + zk form.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity returns the no-rotation quaternion.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// FromEuler builds a quaternion from intrinsic roll (about X), pitch (about Y)
// and yaw (about Z) angles in radians, composed in that order.
func FromEuler(roll, pitch, yaw float64) Quaternion {
	cr := math.Cos(roll / 2)
	sr := math.Sin(roll / 2)
	cp := math.Cos(pitch / 2)
	sp := math.Sin(pitch / 2)
	cy := math.Cos(yaw / 2)
	sy := math.Sin(yaw / 2)

	return Quaternion{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// FromAxisAngle builds a quaternion rotating by angle radians about the given
// axis. The axis does not need to be normalized.
func FromAxisAngle(x, y, z, angle float64) Quaternion {
	n := math.Sqrt(x*x + y*y + z*z)
	if n == 0 {
		return Identity()
	}
	s := math.Sin(angle / 2)
	return Quaternion{
		W: math.Cos(angle / 2),
		X: x / n * s,
		Y: y / n * s,
		Z: z / n * s,
	}
}

// Mul returns the Hamilton product q*r: r applied first, then q.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Norm returns the quaternion's magnitude.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize scales q to unit length. The zero quaternion normalizes to
// identity rather than NaN.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return Identity()
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// Conjugate returns the inverse rotation for a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Rotate applies q to the vector (vx, vy, vz).
func (q Quaternion) Rotate(vx, vy, vz float64) (float64, float64, float64) {
	p := q.Mul(Quaternion{X: vx, Y: vy, Z: vz}).Mul(q.Conjugate())
	return p.X, p.Y, p.Z
}
