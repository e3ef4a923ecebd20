package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"astro-render/scene"
)

// MeshGeometry is a triangle mesh body: a planet, a spacecraft hull. It is
// the standard opaque geometry and participates fully in shadowing.
type MeshGeometry struct {
	Mesh     *Mesh
	Material scene.Material

	radius         float32
	shadowCaster   bool
	shadowReceiver bool
}

// NewMeshGeometry wraps a mesh with the default material. The geometry
// casts and receives shadows.
func NewMeshGeometry(mesh *Mesh) *MeshGeometry {
	return &MeshGeometry{
		Mesh:           mesh,
		Material:       scene.DefaultMaterial(),
		radius:         mesh.BoundingRadius(),
		shadowCaster:   true,
		shadowReceiver: true,
	}
}

func (g *MeshGeometry) SetShadowCaster(cast bool)      { g.shadowCaster = cast }
func (g *MeshGeometry) SetShadowReceiver(receive bool) { g.shadowReceiver = receive }

func (g *MeshGeometry) BoundingSphereRadius() float32 {
	return g.radius
}

// NearPlaneDistance returns the distance from the camera to the bounding
// sphere surface along the view direction.
func (g *MeshGeometry) NearPlaneDistance(cameraPosition mgl32.Vec3) float32 {
	d := cameraPosition.Len() - g.radius
	if d < 0 {
		return 0
	}
	return d
}

func (g *MeshGeometry) ClippingPolicy() scene.ClippingPolicy {
	return scene.PreserveDepthPrecision
}

func (g *MeshGeometry) IsOpaque() bool {
	return g.Material.Opacity >= 1
}

func (g *MeshGeometry) IsShadowCaster() bool   { return g.shadowCaster }
func (g *MeshGeometry) IsShadowReceiver() bool { return g.shadowReceiver }

func (g *MeshGeometry) Render(rc scene.RenderContext, t float64) {
	rc.BindMaterial(g.Material)
	g.Mesh.Draw()
}

func (g *MeshGeometry) RenderShadow(rc scene.RenderContext, t float64) {
	rc.BindMaterial(g.Material)
	g.Mesh.Draw()
}
