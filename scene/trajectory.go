package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Trajectory produces the double-precision world position of an entity over
// time. Positions of astronomical bodies are far too large for float32, so
// trajectories always work in float64; the renderer converts to single
// precision only after subtracting the camera position.
type Trajectory interface {
	Position(t float64) mgl64.Vec3
}

// RotationModel produces the orientation of an entity over time.
type RotationModel interface {
	Orientation(t float64) mgl64.Quat
}

// FixedPoint is a trajectory that never moves.
type FixedPoint mgl64.Vec3

func (p FixedPoint) Position(t float64) mgl64.Vec3 {
	return mgl64.Vec3(p)
}

// CircularOrbit is a circular orbit in the XY plane around a fixed center.
type CircularOrbit struct {
	Center mgl64.Vec3
	Radius float64
	// Period is the orbital period in seconds.
	Period float64
	// Phase is the angle at t = 0 in radians.
	Phase float64
}

func (o CircularOrbit) Position(t float64) mgl64.Vec3 {
	angle := o.Phase
	if o.Period != 0 {
		angle += 2 * math.Pi * t / o.Period
	}
	return o.Center.Add(mgl64.Vec3{
		o.Radius * math.Cos(angle),
		o.Radius * math.Sin(angle),
		0,
	})
}

// FixedRotation is a rotation model with a constant orientation.
type FixedRotation mgl64.Quat

func (r FixedRotation) Orientation(t float64) mgl64.Quat {
	return mgl64.Quat(r)
}

// UniformRotation spins around a fixed axis at a constant rate.
type UniformRotation struct {
	Axis mgl64.Vec3
	// Rate is the angular rate in radians per second.
	Rate float64
	// InitialAngle is the rotation angle at t = 0.
	InitialAngle float64
}

func (r UniformRotation) Orientation(t float64) mgl64.Quat {
	return mgl64.QuatRotate(r.InitialAngle+r.Rate*t, r.Axis)
}
