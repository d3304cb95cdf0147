package math

import "github.com/go-gl/mathgl/mgl32"

// QuatFromXYZW converts a rotation stored as [x, y, z, w] (the scene file
// order) to an mgl32 quaternion, which keeps the scalar part first.
func QuatFromXYZW(r [4]float64) mgl32.Quat {
	return mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}
}

// FromMgl converts an mgl32 matrix. Both types share the column-major layout.
func FromMgl(m mgl32.Mat4) Mat4 {
	return Mat4(m)
}

// TRS composes Translation * Rotation * Scale. rotation is [x, y, z, w].
func TRS(translation [3]float64, rotation [4]float64, scale [3]float64) Mat4 {
	t := mgl32.Translate3D(float32(translation[0]), float32(translation[1]), float32(translation[2]))
	r := QuatFromXYZW(rotation).Normalize().Mat4()
	s := mgl32.Scale3D(float32(scale[0]), float32(scale[1]), float32(scale[2]))
	return FromMgl(t.Mul4(r).Mul4(s))
}

// RotateYDegrees returns a rotation about +Y by deg degrees.
func RotateYDegrees(deg float32) Mat4 {
	return FromMgl(mgl32.HomogRotate3DY(mgl32.DegToRad(deg)))
}
