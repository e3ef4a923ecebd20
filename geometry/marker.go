package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/scene"
)

// Marker is a billboard visualizer attached to an entity, drawn in front of
// the host geometry so that it stays readable against the body it marks.
type Marker struct {
	visible  bool
	geometry *BillboardGeometry
}

func NewMarker(size float32, color core.Color) *Marker {
	return &Marker{
		visible:  true,
		geometry: NewBillboardGeometry(size, color),
	}
}

func (m *Marker) SetVisible(visible bool) { m.visible = visible }

func (m *Marker) IsVisible() bool { return m.visible }

func (m *Marker) Geometry() scene.Geometry { return m.geometry }

// Orientation ignores the host; billboards orient themselves at draw time.
func (m *Marker) Orientation(host *scene.Entity, t float64) mgl64.Quat {
	return mgl64.QuatIdent()
}

func (m *Marker) DepthAdjustment() scene.DepthAdjustment {
	return scene.AdjustToFront
}
