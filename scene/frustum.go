package scene

import "github.com/go-gl/mathgl/mgl32"

// Frustum is a view volume in camera space: the near and far clip distances
// along -Z plus the four inward-facing side plane normals. All planes pass
// through the camera origin except near and far.
type Frustum struct {
	NearZ        float32
	FarZ         float32
	PlaneNormals [4]mgl32.Vec3
}

// IntersectsSphere reports whether the camera-space sphere overlaps the
// frustum volume. Empty spheres never intersect.
func (f *Frustum) IntersectsSphere(s BoundingSphere) bool {
	if s.IsEmpty() {
		return false
	}

	// Near and far planes
	if s.Center.Z()-s.Radius > -f.NearZ || s.Center.Z()+s.Radius < -f.FarZ {
		return false
	}

	for i := 0; i < 4; i++ {
		if f.PlaneNormals[i].Dot(s.Center) <= -s.Radius {
			return false
		}
	}
	return true
}
