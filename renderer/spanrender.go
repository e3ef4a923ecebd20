package renderer

import "astro-render/scene"

// renderDepthBufferSpan draws everything belonging to one depth span: the
// shadow maps for the span, then an opaque and a translucent sub-pass, each
// drawing the span's items followed by the splittable items that overlap
// the span.
func (e *Engine) renderDepthBufferSpan(span depthBufferSpan, projection scene.PlanarProjection) {
	if span.itemCount == 0 && len(e.splittableItems) == 0 {
		return
	}

	nearDistance := span.nearDistance
	if projNear := projection.NearDistance(); projNear > nearDistance {
		nearDistance = projNear
	}
	farDistance := span.farDistance
	if projFar := projection.FarDistance(); projFar < farDistance {
		farDistance = projFar
	}
	if farDistance <= nearDistance {
		// The span lies entirely in front of or behind the view frustum.
		return
	}

	shadowsOn := false
	omniShadowCount := 0
	if e.shadowsEnabled && len(e.visibleLightSources) > 0 {
		// Shadows from the sun, which is always the first light source
		// when present.
		if e.visibleLightSources[0].source == nil {
			shadowsOn = e.renderDepthBufferSpanShadows(0, span, e.visibleLightSources[0].cameraRelativePosition)
		}

		// Shadow-casting point lights get omnidirectional maps, up to the
		// number of cube maps allocated.
		for i := 0; i < len(e.visibleLightSources) && omniShadowCount < len(e.omniShadowMaps); i++ {
			light := &e.visibleLightSources[i]
			if light.source != nil && light.source.IsShadowCaster() {
				e.renderDepthBufferSpanOmniShadows(omniShadowCount, span, light.source, light.cameraRelativePosition)
				omniShadowCount++
			}
		}
	}

	// Push the far plane out slightly so items at the very back of the
	// span are not lost to float32 round-off. The factor must exceed one
	// ulp but stay small enough not to visibly overlap the next span.
	safeFarDistance := farDistance * (1 + 1.0e-6)

	e.rc.SetProjection(projection.Slice(nearDistance, safeFarDistance))

	// Translucency is order dependent; drawing opaque items first
	// eliminates the worst artifacts.
	for pass := 0; pass < 2; pass++ {
		if pass == 0 {
			e.rc.SetPass(scene.OpaquePass)
		} else {
			e.rc.SetPass(scene.TranslucentPass)
		}

		for i := 0; i < span.itemCount; i++ {
			item := &e.visibleItems[span.backItemIndex-i]

			if pass != 0 && item.geometry.IsOpaque() {
				continue
			}

			if shadowsOn && item.geometry.IsShadowReceiver() {
				e.rc.SetShadowMapCount(1)
			} else {
				e.rc.SetShadowMapCount(0)
			}

			if item.geometry.IsShadowReceiver() {
				e.rc.SetOmniShadowMapCount(omniShadowCount)
			} else {
				e.rc.SetOmniShadowMapCount(0)
			}

			if e.lighting != nil && len(e.lighting.ReflectionRegions) > 0 {
				e.rc.SetEnvironmentMap(e.lighting.ReflectionRegions[0].CubeMap)
			} else {
				e.rc.SetEnvironmentMap(0)
			}

			e.drawItem(item)
		}

		e.rc.SetShadowMapCount(0)
		e.rc.SetOmniShadowMapCount(0)

		// Splittable items are drawn into every span they overlap.
		for i := len(e.splittableItems) - 1; i >= 0; i-- {
			item := &e.splittableItems[i]

			if item.nearDistance < span.farDistance && item.farDistance > span.nearDistance {
				if pass == 0 || !item.geometry.IsOpaque() {
					e.drawItem(item)
				}
			}
		}
	}
}
