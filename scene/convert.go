package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec32 narrows a double-precision vector to single precision. Only do this
// after subtracting the camera position; world positions do not fit in
// float32.
func Vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Quat32 narrows a double-precision quaternion to single precision.
func Quat32(q mgl64.Quat) mgl32.Quat {
	return mgl32.Quat{W: float32(q.W), V: Vec32(q.V)}
}
