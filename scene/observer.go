package scene

import "github.com/go-gl/mathgl/mgl64"

// Observer is a camera position and orientation, optionally relative to a
// center entity. All observer math is double precision.
type Observer struct {
	Center      *Entity
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// NewObserver creates an observer at the origin of the given center entity
// (which may be nil for an absolute observer).
func NewObserver(center *Entity) *Observer {
	return &Observer{Center: center, Orientation: mgl64.QuatIdent()}
}

// AbsolutePosition returns the observer's world position at time t.
func (o *Observer) AbsolutePosition(t float64) mgl64.Vec3 {
	if o.Center == nil {
		return o.Position
	}
	return o.Center.Position(t).Add(o.Position)
}

// AbsoluteOrientation returns the observer's world orientation at time t.
func (o *Observer) AbsoluteOrientation(t float64) mgl64.Quat {
	return o.Orientation
}
