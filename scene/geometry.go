package scene

import "github.com/go-gl/mathgl/mgl32"

// ClippingPolicy controls how the renderer trades depth precision against
// near-plane clipping for a geometry.
type ClippingPolicy int

const (
	// PreserveDepthPrecision keeps the near plane no closer than a fixed
	// fraction of the bounding diameter, bounding the depth error.
	PreserveDepthPrecision ClippingPolicy = iota
	// PreventClipping pulls the near plane as close as the hardware
	// minimum allows.
	PreventClipping
	// SplitToPreventClipping marks geometry that must never be clipped and
	// is instead redrawn into every depth span it crosses (e.g. orbit
	// trajectories).
	SplitToPreventClipping
)

// Geometry is anything an entity can draw: a mesh, a trajectory line, a
// billboard. Implementations are expected to be cheap to query; Render and
// RenderShadow are only called with a GL context current.
type Geometry interface {
	// BoundingSphereRadius returns the radius of an origin-centered sphere
	// containing the geometry.
	BoundingSphereRadius() float32

	// NearPlaneDistance returns the closest acceptable near-plane distance
	// given the model-space vector from the geometry origin to the camera.
	NearPlaneDistance(cameraPosition mgl32.Vec3) float32

	ClippingPolicy() ClippingPolicy

	IsOpaque() bool
	IsShadowCaster() bool
	IsShadowReceiver() bool

	Render(rc RenderContext, t float64)
	RenderShadow(rc RenderContext, t float64)
}
