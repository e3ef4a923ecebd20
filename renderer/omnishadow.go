package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"astro-render/scene"
)

// Camera rotations for the six cube-map faces (+X, -X, +Y, -Y, +Z, -Z).
// Each is composed with a 180° Z roll so that all face images share a
// consistent up axis when sampled.
var cubeFaceCameraRotations = [6]mgl64.Quat{
	mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0}).Mul(z180),
	mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}).Mul(z180),
	mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}).Mul(z180),
	mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0}).Mul(z180),
	mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0}).Mul(z180),
	z180,
}

var z180 = mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 0, 1})

// renderDepthBufferSpanOmniShadows renders the span's shadow casters into
// the omnidirectional shadow cube map at shadowIndex, storing the
// light-to-fragment distance in the red channel of each face. Returns true
// if shadows were drawn.
func (e *Engine) renderDepthBufferSpanOmniShadows(shadowIndex int, span depthBufferSpan, light *scene.LightSource, lightPosition mgl64.Vec3) bool {
	if !e.shadowsEnabled || shadowIndex >= len(e.omniShadowMaps) {
		return false
	}

	receiverBounds, castersPresent := e.shadowGroup(span)
	if !castersPresent || receiverBounds.IsEmpty() {
		return false
	}

	shadowMap := e.omniShadowMaps[shadowIndex]

	// Viewport is the same for all six faces
	size := int32(shadowMap.Size())
	e.state.Viewport(0, 0, size, size)
	e.state.DepthRange(0, 1)

	// Depth-only state, except that the red channel carries the distance.
	// Cube faces use a left-handed projection, so the winding flips too.
	e.state.ColorMask(true, false, false, false)
	e.state.DepthMask(true)
	e.state.DepthTest(true)
	e.state.CullFrontFaces(true)
	e.state.FrontFaceCW(true)
	e.rc.SetRendererOutput(scene.CameraDistance)

	// Unshadowed distance is "very far away"
	e.state.ClearColor(1.0e15, 0, 0, 0)

	e.rc.PushProjection()

	for face := 0; face < 6; face++ {
		fb := shadowMap.Face(face)
		if fb == nil {
			continue
		}

		e.state.BindFramebuffer(fb.Name())
		e.state.DepthMask(true)
		e.state.Clear(true, true)

		cameraOrientation := scene.Quat32(cubeFaceCameraRotations[face])
		toCameraSpace := cameraOrientation.Conjugate()

		e.rc.PushModelView()
		e.rc.SetModelView(toCameraSpace.Mat4())

		// The camera orientation is tracked separately from the
		// modelview; restore it after this face.
		savedCamera := e.rc.CameraOrientation()
		e.rc.SetCameraOrientation(cameraOrientation)

		faceProjection := scene.NewPerspectiveLH(float32(math.Pi/2), 1,
			light.Range()*1.0e-4, light.Range())
		faceFrustum := faceProjection.Frustum()

		e.rc.SetProjection(faceProjection)

		for i := 0; i < span.itemCount; i++ {
			item := &e.visibleItems[span.backItemIndex-i]
			if !item.geometry.IsShadowCaster() {
				continue
			}

			itemPosition := scene.Vec32(item.cameraRelativePosition.Sub(lightPosition))
			cameraSpacePosition := toCameraSpace.Rotate(itemPosition)

			// Cull casters against the face frustum, generously expanded
			// by the light range.
			sphere := scene.BoundingSphere{Center: cameraSpacePosition, Radius: light.Range()}
			if !faceFrustum.IntersectsSphere(sphere) {
				continue
			}

			e.rc.PushModelView()
			e.rc.TranslateModelView(itemPosition)
			e.rc.RotateModelView(item.orientation)
			item.geometry.RenderShadow(e.rc, e.currentTime)
			e.rc.PopModelView()
		}

		e.rc.PopModelView()
		e.rc.SetCameraOrientation(savedCamera)
	}

	e.rc.PopProjection()

	e.rc.SetRendererOutput(scene.FragmentColor)
	e.finishShadowRendering()
	e.state.FrontFaceCW(false)

	e.state.DepthRange(e.depthRangeFront, e.depthRangeBack)
	e.state.Viewport(int32(e.renderViewport.X), int32(e.renderViewport.Y),
		int32(e.renderViewport.Width), int32(e.renderViewport.Height))

	e.rc.SetOmniShadowMap(shadowIndex, shadowMap.ColorTexture())

	e.state.ClearColor(0, 0, 0, 0)

	return true
}
