package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundingSphere is a sphere in camera space. A negative radius marks the
// empty sphere, which is the zero of Merge.
type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// EmptyBoundingSphere returns the empty sphere.
func EmptyBoundingSphere() BoundingSphere {
	return BoundingSphere{Radius: -1}
}

func (s BoundingSphere) IsEmpty() bool {
	return s.Radius < 0
}

// Intersects reports whether the two spheres overlap.
func (s BoundingSphere) Intersects(other BoundingSphere) bool {
	rsum := s.Radius + other.Radius
	d := s.Center.Sub(other.Center)
	return d.Dot(d) <= rsum*rsum
}

// Merge returns the minimal sphere enclosing both s and other.
func (s BoundingSphere) Merge(other BoundingSphere) BoundingSphere {
	if s.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return s
	}

	v := other.Center.Sub(s.Center)
	centerDistance := float32(math.Sqrt(float64(v.Dot(v))))

	if centerDistance+other.Radius <= s.Radius {
		// other is contained in s
		return s
	}
	if centerDistance+s.Radius <= other.Radius {
		// s is contained in other
		return other
	}

	t := 0.5 * (other.Radius + centerDistance - s.Radius) / centerDistance
	return BoundingSphere{
		Center: s.Center.Add(v.Mul(t)),
		Radius: 0.5 * (other.Radius + centerDistance + s.Radius),
	}
}
