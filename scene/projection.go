package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects between perspective and orthographic projections.
type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

// Chirality is the handedness of a projection. Cube-map faces are rendered
// with left-handed projections; everything else is right-handed.
type Chirality int

const (
	LeftHanded Chirality = iota
	RightHanded
)

// PlanarProjection is a perspective or orthographic projection defined by
// the near-plane rectangle and the near/far clip distances.
type PlanarProjection struct {
	typ                      ProjectionType
	left, right, bottom, top float32
	near, far                float32
}

// NewPerspective creates a right-handed perspective projection.
// fovY is the vertical field of view in radians.
func NewPerspective(fovY, aspectRatio, near, far float32) PlanarProjection {
	y := float32(math.Tan(float64(fovY)*0.5)) * near
	x := y * aspectRatio
	return PlanarProjection{typ: Perspective, left: -x, right: x, bottom: -y, top: y, near: near, far: far}
}

// NewPerspectiveLH creates a left-handed perspective projection by mirroring
// the X axis of the right-handed one.
func NewPerspectiveLH(fovY, aspectRatio, near, far float32) PlanarProjection {
	p := NewPerspective(fovY, aspectRatio, near, far)
	p.left, p.right = -p.left, -p.right
	return p
}

// NewOrthographic creates an orthographic projection.
func NewOrthographic(left, right, bottom, top, near, far float32) PlanarProjection {
	return PlanarProjection{typ: Orthographic, left: left, right: right, bottom: bottom, top: top, near: near, far: far}
}

func (p PlanarProjection) Type() ProjectionType  { return p.typ }
func (p PlanarProjection) NearDistance() float32 { return p.near }
func (p PlanarProjection) FarDistance() float32  { return p.far }

// AspectRatio returns the width to height ratio of the projection rectangle.
func (p PlanarProjection) AspectRatio() float32 {
	return (p.right - p.left) / (p.top - p.bottom)
}

// FovY returns the vertical field of view in radians.
func (p PlanarProjection) FovY() float32 {
	return float32(math.Atan(float64(abs32(p.top-p.bottom)*0.5/p.near))) * 2
}

// Chirality is determined by the orientation of the projection rectangle.
func (p PlanarProjection) Chirality() Chirality {
	if (p.right < p.left) != (p.top < p.bottom) {
		return LeftHanded
	}
	return RightHanded
}

// Matrix returns the 4×4 projection matrix.
func (p PlanarProjection) Matrix() mgl32.Mat4 {
	switch p.typ {
	case Perspective:
		return mgl32.Frustum(p.left, p.right, p.bottom, p.top, p.near, p.far)
	case Orthographic:
		return mgl32.Ortho(p.left, p.right, p.bottom, p.top, p.near, p.far)
	}
	return mgl32.Ident4()
}

// Frustum returns the camera-space view volume of this projection.
func (p PlanarProjection) Frustum() Frustum {
	f := Frustum{NearZ: p.near, FarZ: p.far}

	signX := float32(1)
	if p.right < p.left {
		signX = -1
	}
	signY := float32(1)
	if p.top < p.bottom {
		signY = -1
	}

	switch p.typ {
	case Perspective:
		f.PlaneNormals[0] = mgl32.Vec3{p.near, 0, p.left * signX}.Normalize()
		f.PlaneNormals[1] = mgl32.Vec3{-p.near, 0, -p.right * signX}.Normalize()
		f.PlaneNormals[2] = mgl32.Vec3{0, p.near, p.bottom * signY}.Normalize()
		f.PlaneNormals[3] = mgl32.Vec3{0, -p.near, -p.top * signY}.Normalize()
	case Orthographic:
		f.PlaneNormals[0] = mgl32.Vec3{-1, 0, 0}
		f.PlaneNormals[1] = mgl32.Vec3{1, 0, 0}
		f.PlaneNormals[2] = mgl32.Vec3{0, -1, 0}
		f.PlaneNormals[3] = mgl32.Vec3{0, 1, 0}
	}
	return f
}

// Slice restricts the projection to a sub-range of depth. For perspective
// projections the near-plane rectangle is rescaled so that the field of view
// is unchanged.
func (p PlanarProjection) Slice(near, far float32) PlanarProjection {
	if p.typ == Orthographic {
		return PlanarProjection{typ: p.typ, left: p.left, right: p.right, bottom: p.bottom, top: p.top, near: near, far: far}
	}
	nearRatio := float64(near) / float64(p.near)
	return PlanarProjection{
		typ:    p.typ,
		left:   float32(float64(p.left) * nearRatio),
		right:  float32(float64(p.right) * nearRatio),
		bottom: float32(float64(p.bottom) * nearRatio),
		top:    float32(float64(p.top) * nearRatio),
		near:   near,
		far:    far,
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
