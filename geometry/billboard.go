package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"astro-render/core"
	"astro-render/scene"
)

// BillboardGeometry is a camera-facing quad of fixed world size, used for
// markers, light glows and labels. It ignores the item orientation and
// always faces the camera plane.
type BillboardGeometry struct {
	Size  float32
	Color core.Color

	mesh *Mesh
}

func NewBillboardGeometry(size float32, color core.Color) *BillboardGeometry {
	return &BillboardGeometry{Size: size, Color: color, mesh: NewQuadMesh()}
}

func (g *BillboardGeometry) BoundingSphereRadius() float32 {
	return g.Size * 0.5
}

func (g *BillboardGeometry) NearPlaneDistance(cameraPosition mgl32.Vec3) float32 {
	return 0
}

func (g *BillboardGeometry) ClippingPolicy() scene.ClippingPolicy {
	return scene.PreventClipping
}

func (g *BillboardGeometry) IsOpaque() bool         { return false }
func (g *BillboardGeometry) IsShadowCaster() bool   { return false }
func (g *BillboardGeometry) IsShadowReceiver() bool { return false }

func (g *BillboardGeometry) Render(rc scene.RenderContext, t float64) {
	// Strip the rotation from the modelview so the quad stays aligned with
	// the camera plane, keeping only the translation.
	mv := rc.ModelView()
	pos := mgl32.Vec3{mv[12], mv[13], mv[14]}

	rc.PushModelView()
	rc.SetModelView(mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(g.Size, g.Size, 1)))
	rc.BindMaterial(scene.Material{Diffuse: g.Color, Opacity: g.Color.A, Unlit: true})
	g.mesh.Draw()
	rc.PopModelView()
}

func (g *BillboardGeometry) RenderShadow(rc scene.RenderContext, t float64) {
}
