package renderer

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/internal/opengl"
	"astro-render/scene"
)

// RenderViewSimple renders a view from the observer into a width×height
// viewport on the default back buffer, using the full depth range the
// engine supports. fieldOfView is the vertical field of view in radians.
func (e *Engine) RenderViewSimple(observer *scene.Observer, fieldOfView float64, width, height int) Status {
	return e.RenderViewFromObserver(nil, observer, fieldOfView, core.NewViewport(width, height), nil)
}

// RenderViewFromObserver renders a view from the observer's position and
// orientation at the view-set time.
func (e *Engine) RenderViewFromObserver(lighting *LightingEnvironment, observer *scene.Observer, fieldOfView float64, viewport core.Viewport, renderSurface *opengl.Framebuffer) Status {
	if observer == nil {
		return StatusBadParameter
	}
	projection := scene.NewPerspective(float32(fieldOfView), viewport.AspectRatio(),
		minimumNearPlaneDistance, maximumFarPlaneDistance)
	return e.RenderView(lighting,
		observer.AbsolutePosition(e.currentTime),
		observer.AbsoluteOrientation(e.currentTime),
		projection, viewport, renderSurface)
}

// RenderView renders the visible entities of the current view set using an
// explicit camera position, orientation and projection. renderSurface may
// be nil to draw into the default back buffer.
//
// The whole depth range of the scene is covered by partitioning the view
// into depth spans, each drawn with its own sliced projection and its own
// fraction of the hardware depth buffer.
func (e *Engine) RenderView(lighting *LightingEnvironment,
	cameraPosition mgl64.Vec3, cameraOrientation mgl64.Quat,
	projection scene.PlanarProjection, viewport core.Viewport,
	renderSurface *opengl.Framebuffer) Status {

	if e.scene == nil {
		return StatusNoViewSet
	}

	// Save the viewport and render surface so that shadow and reflection
	// passes can restore them, and the color mask so every exit leaves it
	// untouched.
	e.renderSurface = renderSurface
	e.renderViewport = viewport
	e.renderColorMask = e.state.CurrentColorMask()
	e.cameraOrientation = cameraOrientation

	e.state.Viewport(int32(viewport.X), int32(viewport.Y), int32(viewport.Width), int32(viewport.Height))

	cameraOrientation32 := scene.Quat32(cameraOrientation)
	toCameraSpace := cameraOrientation32.Conjugate()
	aspectRatio := viewport.AspectRatio()
	fieldOfView := projection.FovY()

	// Geometry assumes a right-handed projection; reverse the winding when
	// rendering with a left-handed one (cube map faces).
	if projection.Chirality() == scene.LeftHanded {
		e.state.FrontFaceCW(true)
	}

	e.state.CullingEnabled(true)

	e.rc.SetCameraOrientation(cameraOrientation32)
	e.rc.SetPixelSize(float32(2 * math.Tan(float64(fieldOfView)/2) / float64(viewport.Height)))
	e.rc.SetViewportSize(viewport.Width, viewport.Height)

	e.rc.PushModelView()
	e.rc.SetModelView(toCameraSpace.Mat4())

	e.renderSkyLayers(projection)

	e.rc.SetActiveLightCount(1)
	e.rc.SetAmbientLight(e.ambientLight)

	e.viewFrustum = projection.Frustum()

	// Pull the near plane inward so off-axis extremities of a body still
	// fit in front of it.
	nearPlaneFovAdjustment := float32(math.Cos(float64(fieldOfView)/2) /
		math.Sqrt(1+float64(aspectRatio)*float64(aspectRatio)))

	e.visibleItems = e.visibleItems[:0]
	e.splittableItems = e.splittableItems[:0]
	e.lighting = lighting

	e.buildVisibleLightSourceList(cameraPosition)

	// Linear scan over all entities. A bounding sphere hierarchy would cut
	// this down for very large catalogs.
	for _, entity := range e.scene.Entities() {
		if !entity.IsVisible(e.currentTime) {
			continue
		}

		position := entity.Position(e.currentTime)

		// The difference is computed at double precision; everything
		// after this point can safely work in single precision.
		cameraRelativePosition := position.Sub(cameraPosition)

		// Size cull: geometry smaller than half a pixel is skipped.
		// Visualizers have sizes unrelated to their host and are never
		// size-culled.
		sizeCull := true
		if entity.Geometry != nil {
			projectedSize := (entity.Geometry.BoundingSphereRadius() /
				float32(cameraRelativePosition.Len())) / e.rc.PixelSize()
			sizeCull = projectedSize < 0.5
		}

		cameraSpacePosition := toCameraSpace.Rotate(scene.Vec32(cameraRelativePosition))

		if !sizeCull {
			e.addVisibleItem(entity, entity.Geometry,
				position, cameraRelativePosition, cameraSpacePosition,
				scene.Quat32(entity.Orientation(e.currentTime)),
				nearPlaneFovAdjustment)
		}

		if entity.HasVisualizers() && e.visualizersEnabled {
			for _, visualizer := range entity.Visualizers() {
				if !visualizer.IsVisible() {
					continue
				}

				adjustedPosition := cameraRelativePosition
				adjustedCameraSpacePosition := cameraSpacePosition

				if visualizer.DepthAdjustment() == scene.AdjustToFront && entity.Geometry != nil {
					// Move the visualizer toward the camera so it draws
					// in front of the geometry it is attached to.
					z := -cameraSpacePosition.Z() - entity.Geometry.BoundingSphereRadius()
					f := z / -cameraSpacePosition.Z()
					adjustedPosition = cameraRelativePosition.Mul(float64(f))
					adjustedCameraSpacePosition = cameraSpacePosition.Mul(f)
				}

				e.addVisibleItem(entity, visualizer.Geometry(),
					position, adjustedPosition, adjustedCameraSpacePosition,
					scene.Quat32(visualizer.Orientation(entity, e.currentTime)),
					nearPlaneFovAdjustment)
			}
		}
	}

	sort.Slice(e.visibleItems, func(i, j int) bool {
		return e.visibleItems[i].farDistance < e.visibleItems[j].farDistance
	})
	sort.Slice(e.splittableItems, func(i, j int) bool {
		return e.splittableItems[i].farDistance < e.splittableItems[j].farDistance
	})

	e.splitDepthBuffer()
	e.coalesceDepthBuffer()
	e.extendSpansForSplittables(projection)

	// Draw the spans from back to front, each with its own slice of the
	// hardware depth range so spans cannot depth-test against each other.
	spanRange := 1.0
	if len(e.mergedDepthSpans) > 0 {
		spanRange /= float64(len(e.mergedDepthSpans))
	}
	spanIndex := len(e.mergedDepthSpans) - 1
	for i := range e.mergedDepthSpans {
		e.setDepthRange(float64(spanIndex)*spanRange, float64(spanIndex+1)*spanRange)
		e.renderDepthBufferSpan(e.mergedDepthSpans[i], projection)
		spanIndex--
	}
	e.setDepthRange(0, 1)

	e.rc.PopModelView()
	e.rc.UnbindShader()

	e.state.FrontFaceCW(false)

	// Don't hold on to the lighting environment
	e.lighting = nil

	return StatusOK
}

// renderSkyLayers draws the visible sky layers in draw order with depth
// writes and depth testing off.
func (e *Engine) renderSkyLayers(projection scene.PlanarProjection) {
	e.state.DepthMask(false)
	e.state.DepthTest(false)

	e.rc.SetProjection(projection.Slice(0.1, 1.0))

	if e.skyLayersEnabled {
		var visibleLayers []scene.SkyLayer
		for _, layer := range e.scene.SkyLayers() {
			if layer != nil && layer.IsVisible() {
				visibleLayers = append(visibleLayers, layer)
			}
		}
		sort.SliceStable(visibleLayers, func(i, j int) bool {
			return visibleLayers[i].DrawOrder() < visibleLayers[j].DrawOrder()
		})
		for _, layer := range visibleLayers {
			layer.Render(e.rc)
		}
	}

	e.state.DepthTest(true)
	e.state.DepthMask(true)
}

// addVisibleItem computes the depth extent of one geometry and routes it
// into the normal or splittable item list.
func (e *Engine) addVisibleItem(entity *scene.Entity, geometry scene.Geometry,
	position, cameraRelativePosition mgl64.Vec3,
	cameraSpacePosition mgl32.Vec3, orientation mgl32.Quat,
	nearAdjust float32) {

	// Signed distance from the camera plane to the farthest part of the
	// geometry; negative means entirely behind the camera.
	boundingRadius := geometry.BoundingSphereRadius()
	farDistance := -cameraSpacePosition.Z() + boundingRadius

	// Start from the geometry's own idea of an acceptable near plane,
	// given the camera position in model space.
	nearDistance := geometry.NearPlaneDistance(
		orientation.Conjugate().Rotate(scene.Vec32(cameraRelativePosition).Mul(-1)))

	// The near distance of an ordinary object is kept above a fixed
	// fraction of its bounding diameter so depth precision stays bounded.
	// Trajectories and other clipping-sensitive geometry instead get the
	// hardware minimum; splittable ones are drawn into multiple spans.
	switch geometry.ClippingPolicy() {
	case scene.PreserveDepthPrecision:
		if floor := boundingRadius * minimumNearFarRatio * 2; nearDistance < floor {
			nearDistance = floor
		}
	case scene.PreventClipping, scene.SplitToPreventClipping:
		if nearDistance < minimumNearPlaneDistance {
			nearDistance = minimumNearPlaneDistance
		}
	}

	nearDistance *= nearAdjust

	intersectsFrustum := e.viewFrustum.IntersectsSphere(scene.BoundingSphere{
		Center: cameraSpacePosition,
		Radius: boundingRadius,
	})

	// Items outside the frustum are kept: they may still cast shadows into
	// the view. Culling non-casters here looks attractive but makes
	// front-adjusted visualizers disappear, so everything stays in.

	if farDistance > 0 && nearDistance < farDistance {
		item := visibleItem{
			entity:                 entity,
			geometry:               geometry,
			position:               position,
			cameraRelativePosition: cameraRelativePosition,
			orientation:            orientation,
			boundingRadius:         boundingRadius,
			nearDistance:           nearDistance,
			farDistance:            farDistance,
			outsideFrustum:         !intersectsFrustum,
		}

		if geometry.ClippingPolicy() == scene.SplitToPreventClipping {
			e.splittableItems = append(e.splittableItems, item)
		} else {
			e.visibleItems = append(e.visibleItems, item)
		}
	}
}

// drawItem configures the per-item lights and draws the item at its
// camera-relative position. Items flagged outside the frustum are skipped
// here but still participate in shadow passes.
func (e *Engine) drawItem(item *visibleItem) {
	e.rc.SetModelTranslation(e.cameraOrientation.Conjugate().Rotate(item.cameraRelativePosition))

	lightCount := 0
	for i := range e.visibleLightSources {
		light := &e.visibleLightSources[i]
		if light.source == nil {
			// The sun: a white directional light toward the origin.
			e.rc.SetLight(0, scene.Light{
				Type:        scene.DirectionalLight,
				Position:    scene.Vec32(light.cameraRelativePosition),
				Color:       core.ColorWhite,
				Attenuation: 1,
			})
			lightCount++
		} else {
			lightPosition := scene.Vec32(light.position.Sub(item.position))
			distanceToLight := lightPosition.Len() - item.boundingRadius
			attenuation := 1 / (256 * light.source.Range() * light.source.Range())
			if distanceToLight < light.source.Range() {
				e.rc.SetLight(lightCount, scene.Light{
					Type:        scene.PointLight,
					Position:    scene.Vec32(light.cameraRelativePosition),
					Color:       light.source.Spectrum(),
					Attenuation: attenuation,
				})
				lightCount++
			}
		}
	}
	e.rc.SetActiveLightCount(lightCount)

	e.rc.PushModelView()
	e.rc.TranslateModelView(scene.Vec32(item.cameraRelativePosition))
	e.rc.RotateModelView(item.orientation)

	if !item.outsideFrustum {
		item.geometry.Render(e.rc, e.currentTime)
	}

	e.rc.PopModelView()
}
