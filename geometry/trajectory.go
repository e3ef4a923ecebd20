package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/scene"
)

// TrajectoryGeometry draws an orbit path as a line strip. Trajectories span
// enormous depth ranges and must never be clipped by the near plane, so the
// geometry is splittable: the renderer redraws it into every depth span it
// crosses.
type TrajectoryGeometry struct {
	Color core.Color

	mesh   *Mesh
	radius float32
}

// NewTrajectoryGeometry samples the trajectory over [startTime,
// startTime+duration) relative to center and builds the path line strip.
// The owning entity should sit at center.
func NewTrajectoryGeometry(traj scene.Trajectory, center mgl64.Vec3, startTime, duration float64, samples int) *TrajectoryGeometry {
	if samples < 2 {
		samples = 2
	}

	vertices := make([]Vertex, samples+1)
	var maxSq float32
	for i := 0; i <= samples; i++ {
		t := startTime + duration*float64(i)/float64(samples)
		p := scene.Vec32(traj.Position(t).Sub(center))
		vertices[i] = Vertex{Position: p, Normal: mgl32.Vec3{0, 0, 1}}
		if d := p.Dot(p); d > maxSq {
			maxSq = d
		}
	}

	mesh := NewMesh("Trajectory", vertices, nil)
	mesh.Mode = DrawLineStrip

	return &TrajectoryGeometry{
		Color:  core.Color{R: 0.4, G: 0.5, B: 0.9, A: 0.8},
		mesh:   mesh,
		radius: sqrt32(maxSq),
	}
}

func (g *TrajectoryGeometry) BoundingSphereRadius() float32 {
	return g.radius
}

func (g *TrajectoryGeometry) NearPlaneDistance(cameraPosition mgl32.Vec3) float32 {
	return 0
}

func (g *TrajectoryGeometry) ClippingPolicy() scene.ClippingPolicy {
	return scene.SplitToPreventClipping
}

func (g *TrajectoryGeometry) IsOpaque() bool         { return false }
func (g *TrajectoryGeometry) IsShadowCaster() bool   { return false }
func (g *TrajectoryGeometry) IsShadowReceiver() bool { return false }

func (g *TrajectoryGeometry) Render(rc scene.RenderContext, t float64) {
	rc.BindMaterial(scene.Material{
		Diffuse: g.Color,
		Opacity: g.Color.A,
		Unlit:   true,
	})
	g.mesh.Draw()
}

func (g *TrajectoryGeometry) RenderShadow(rc scene.RenderContext, t float64) {
}
