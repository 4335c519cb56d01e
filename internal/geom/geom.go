// Package geom holds the small amount of rotation and vector math the
// placement and physics layers share. Rotations are stored as XYZ Euler
// angles (radians) and composed as quaternions.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Euler is an intrinsic XYZ rotation in radians.
type Euler [3]float64

var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
	Up    = AxisY
)

// Quat returns the orientation described by e.
func (e Euler) Quat() mgl64.Quat {
	return mgl64.AnglesToQuat(e[0], e[1], e[2], mgl64.XYZ)
}

// IsFinite reports whether every component is a real number.
func (e Euler) IsFinite() bool {
	return finite3(e[0], e[1], e[2])
}

// EulerFromQuat decomposes q into XYZ Euler angles.
func EulerFromQuat(q mgl64.Quat) Euler {
	m := q.Normalize().Mat4()
	m13 := clamp(m.At(0, 2), -1, 1)

	var e Euler
	e[1] = math.Asin(m13)
	if math.Abs(m13) < 0.9999999 {
		e[0] = math.Atan2(-m.At(1, 2), m.At(2, 2))
		e[2] = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		// gimbal lock, roll folded into x
		e[0] = math.Atan2(m.At(2, 1), m.At(1, 1))
		e[2] = 0
	}
	return e
}

// Compose applies yaw, then pitch, then roll about the axes of base.
// Offsets are relative to the preset, not to the world.
func Compose(base Euler, yaw, pitch, roll float64) mgl64.Quat {
	q := base.Quat()
	q = q.Mul(mgl64.QuatRotate(yaw, AxisY))
	q = q.Mul(mgl64.QuatRotate(pitch, AxisX))
	q = q.Mul(mgl64.QuatRotate(roll, AxisZ))
	return q.Normalize()
}

// Tilt is the angle between the card face normal and world up, folded so a
// face-down card counts as flat.
func Tilt(q mgl64.Quat) float64 {
	n := q.Rotate(Up)
	return math.Acos(clamp(math.Abs(n.Y()), 0, 1))
}

// VerticalHalfExtent returns how far a box with the given half extents
// reaches above its centre once rotated by q.
func VerticalHalfExtent(q mgl64.Quat, half mgl64.Vec3) float64 {
	return HalfExtentAlong(q, half, 1)
}

// HalfExtentAlong returns the half width of the rotated box measured along
// world axis (0 = x, 1 = y, 2 = z).
func HalfExtentAlong(q mgl64.Quat, half mgl64.Vec3, axis int) float64 {
	m := q.Normalize().Mat4()
	return math.Abs(m.At(axis, 0))*half[0] +
		math.Abs(m.At(axis, 1))*half[1] +
		math.Abs(m.At(axis, 2))*half[2]
}

// SnapXZ rounds x and z to the nearest multiple of step. y is left alone.
func SnapXZ(p mgl64.Vec3, step float64) mgl64.Vec3 {
	if step <= 0 {
		return p
	}
	p[0] = math.Round(p[0]/step) * step
	p[2] = math.Round(p[2]/step) * step
	return p
}

// Lerp moves a toward b by t.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// SameOrientation compares two rotations, ignoring quaternion sign.
func SameOrientation(a, b mgl64.Quat, eps float64) bool {
	d := math.Abs(a.Normalize().Dot(b.Normalize()))
	return 1-d <= eps
}

// VecIsFinite reports whether every component of v is a real number.
func VecIsFinite(v mgl64.Vec3) bool {
	return finite3(v[0], v[1], v[2])
}

func finite3(a, b, c float64) bool {
	for _, f := range []float64{a, b, c} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
