package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"astro-render/scene"
)

// buildVisibleLightSourceList filters the view-set light snapshot down to
// the lights that can influence anything in the view frustum, then orders
// shadow casters first so shadow-map slots line up with the strongest
// lights. The sun sentinel is never culled.
func (e *Engine) buildVisibleLightSourceList(cameraPosition mgl64.Vec3) {
	toCameraSpace := e.rc.CameraOrientation().Conjugate()

	e.visibleLightSources = e.visibleLightSources[:0]
	for _, lsi := range e.lightSources {
		cameraRelativePosition := lsi.position.Sub(cameraPosition)

		cull := false
		if !lsi.isSun() {
			projectedSize := (lsi.source.Range() / float32(cameraRelativePosition.Len())) / e.rc.PixelSize()
			if projectedSize < 1.0 {
				// The light may be in view, but the region it affects
				// covers less than a pixel.
				cull = true
			} else {
				cameraSpacePosition := toCameraSpace.Rotate(scene.Vec32(cameraRelativePosition))
				sphere := scene.BoundingSphere{Center: cameraSpacePosition, Radius: lsi.source.Range()}
				if !e.viewFrustum.IntersectsSphere(sphere) {
					cull = true
				}
			}
		}

		if !cull {
			e.visibleLightSources = append(e.visibleLightSources, visibleLightSourceItem{
				source:                 lsi.source,
				position:               lsi.position,
				cameraRelativePosition: cameraRelativePosition,
			})
		}
	}

	// Shadow casters first. The sun has no backing light source and always
	// counts as a shadow caster.
	sort.SliceStable(e.visibleLightSources, func(i, j int) bool {
		return lightCastsShadows(e.visibleLightSources[i]) && !lightCastsShadows(e.visibleLightSources[j])
	})
}

func lightCastsShadows(l visibleLightSourceItem) bool {
	return l.source == nil || l.source.IsShadowCaster()
}
