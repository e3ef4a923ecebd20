package scene

import "github.com/go-gl/mathgl/mgl64"

// DepthAdjustment controls how a visualizer's depth relates to its host
// entity's geometry.
type DepthAdjustment int

const (
	NoAdjustment DepthAdjustment = iota
	// AdjustToFront moves the visualizer toward the camera so that it is
	// drawn in front of the host geometry.
	AdjustToFront
)

// Visualizer is auxiliary geometry attached to an entity: markers, axes,
// direction arrows, labels. A visualizer's orientation may depend on its
// host entity; the host is passed as an argument and must not be retained.
type Visualizer interface {
	IsVisible() bool
	Geometry() Geometry
	Orientation(host *Entity, t float64) mgl64.Quat
	DepthAdjustment() DepthAdjustment
}

type visualizerEntry struct {
	tag        string
	visualizer Visualizer
}

// Entity is a body in the scene: a planet, a spacecraft, a reference point.
// Position and orientation come from its trajectory and rotation model;
// geometry, light source and visualizers are all optional.
type Entity struct {
	Name string

	// StartTime and EndTime bound the interval in which the entity exists.
	// If EndTime <= StartTime the entity exists at all times.
	StartTime, EndTime float64

	Trajectory Trajectory
	Rotation   RotationModel
	Geometry   Geometry
	Light      *LightSource

	visible     bool
	visualizers []visualizerEntry
}

// NewEntity creates a visible entity fixed at the origin.
func NewEntity(name string) *Entity {
	return &Entity{Name: name, visible: true}
}

// Position returns the entity's world position at time t.
func (e *Entity) Position(t float64) mgl64.Vec3 {
	if e.Trajectory == nil {
		return mgl64.Vec3{}
	}
	return e.Trajectory.Position(t)
}

// Orientation returns the entity's orientation at time t.
func (e *Entity) Orientation(t float64) mgl64.Quat {
	if e.Rotation == nil {
		return mgl64.QuatIdent()
	}
	return e.Rotation.Orientation(t)
}

func (e *Entity) SetVisible(visible bool) {
	e.visible = visible
}

// IsVisible reports whether the entity should be considered for rendering
// at time t.
func (e *Entity) IsVisible(t float64) bool {
	if !e.visible {
		return false
	}
	if e.EndTime > e.StartTime {
		return t >= e.StartTime && t < e.EndTime
	}
	return true
}

// SetVisualizer attaches a visualizer under the given tag, replacing any
// existing visualizer with that tag.
func (e *Entity) SetVisualizer(tag string, v Visualizer) {
	for i := range e.visualizers {
		if e.visualizers[i].tag == tag {
			e.visualizers[i].visualizer = v
			return
		}
	}
	e.visualizers = append(e.visualizers, visualizerEntry{tag: tag, visualizer: v})
}

// RemoveVisualizer removes the visualizer with the given tag, if present.
func (e *Entity) RemoveVisualizer(tag string) {
	for i := range e.visualizers {
		if e.visualizers[i].tag == tag {
			e.visualizers = append(e.visualizers[:i], e.visualizers[i+1:]...)
			return
		}
	}
}

// Visualizer returns the visualizer with the given tag, or nil.
func (e *Entity) Visualizer(tag string) Visualizer {
	for i := range e.visualizers {
		if e.visualizers[i].tag == tag {
			return e.visualizers[i].visualizer
		}
	}
	return nil
}

func (e *Entity) HasVisualizers() bool {
	return len(e.visualizers) > 0
}

// Visualizers returns the attached visualizers in attachment order.
func (e *Entity) Visualizers() []Visualizer {
	out := make([]Visualizer, len(e.visualizers))
	for i := range e.visualizers {
		out[i] = e.visualizers[i].visualizer
	}
	return out
}
