package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/internal/opengl"
	"astro-render/scene"
)

// shadowGroup returns the bounding sphere of all shadow receivers in the
// span and whether the span holds any shadow caster.
func (e *Engine) shadowGroup(span depthBufferSpan) (scene.BoundingSphere, bool) {
	receiverBounds := scene.EmptyBoundingSphere()
	castersPresent := false

	for i := 0; i < span.itemCount; i++ {
		item := &e.visibleItems[span.backItemIndex-i]

		if item.geometry.IsShadowReceiver() {
			receiverBounds = receiverBounds.Merge(scene.BoundingSphere{
				Center: scene.Vec32(item.cameraRelativePosition),
				Radius: item.boundingRadius,
			})
		}
		if item.geometry.IsShadowCaster() {
			castersPresent = true
		}
	}

	return receiverBounds, castersPresent
}

// beginShadowRendering switches to depth-only rendering. Culling the front
// faces moves shadow acne to the unlit side of objects where it is far
// less visible.
func (e *Engine) beginShadowRendering() {
	e.state.ColorMask(false, false, false, false)
	e.state.DepthMask(true)
	e.state.DepthTest(true)
	e.state.CullFrontFaces(true)
}

// finishShadowRendering restores the render target, color mask and cull
// state touched by a shadow pass.
func (e *Engine) finishShadowRendering() {
	if e.renderSurface != nil {
		e.state.BindFramebuffer(e.renderSurface.Name())
	} else {
		e.state.BindFramebuffer(0)
	}

	m := e.renderColorMask
	e.state.ColorMask(m[0], m[1], m[2], m[3])
	e.state.CullFrontFaces(false)
}

// shadowViewMatrix builds a view matrix looking along the light direction,
// using a stable orthogonal basis so the shadow map does not swim as the
// light moves.
func shadowViewMatrix(lightDirection mgl32.Vec3) mgl32.Mat4 {
	u := unitOrthogonal(lightDirection)
	v := u.Cross(lightDirection)
	d := lightDirection

	// Rows are v, u, d (column-major storage).
	return mgl32.Mat4{
		v.X(), u.X(), d.X(), 0,
		v.Y(), u.Y(), d.Y(), 0,
		v.Z(), u.Z(), d.Z(), 0,
		0, 0, 0, 1,
	}
}

// shadowBiasMatrix maps clip space [-1, 1]³ to texture space [0, 1]³.
func shadowBiasMatrix() mgl32.Mat4 {
	return mgl32.Mat4{
		0.5, 0, 0, 0,
		0, 0.5, 0, 0,
		0, 0, 0.5, 0,
		0.5, 0.5, 0.5, 1,
	}
}

// unitOrthogonal returns a unit vector orthogonal to v.
func unitOrthogonal(v mgl32.Vec3) mgl32.Vec3 {
	if abs(v.X()) > abs(v.Z()) || abs(v.Y()) > abs(v.Z()) {
		return mgl32.Vec3{-v.Y(), v.X(), 0}.Normalize()
	}
	return mgl32.Vec3{0, -v.Z(), v.Y()}.Normalize()
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// setupShadowRendering binds the shadow framebuffer and installs the
// light-space orthographic projection sized to the shadow group. It
// returns bias · projection · view, the light-space part of the shadow
// transform. The projection and modelview it pushes are popped by the
// caller after rendering the casters.
func (e *Engine) setupShadowRendering(shadowMap *opengl.Framebuffer, lightDirection mgl32.Vec3, shadowGroupSize float32) mgl32.Mat4 {
	if !shadowMap.Valid() {
		return mgl32.Ident4()
	}

	e.state.BindFramebuffer(shadowMap.Name())

	shadowProjection := scene.NewOrthographic(
		-shadowGroupSize, shadowGroupSize,
		-shadowGroupSize, shadowGroupSize,
		-shadowGroupSize, shadowGroupSize)
	modelView := shadowViewMatrix(lightDirection)

	e.state.Clear(false, true)

	e.rc.PushProjection()
	e.rc.SetProjection(shadowProjection)
	e.rc.PushModelView()
	e.rc.SetModelView(modelView)

	size := int32(shadowMap.Size())
	e.state.Viewport(0, 0, size, size)
	e.state.DepthRange(0, 1)

	return shadowBiasMatrix().Mul4(shadowProjection.Matrix()).Mul4(modelView)
}

// renderDepthBufferSpanShadows renders all shadow casters of the span into
// the directional shadow map at shadowIndex and publishes the resulting
// shadow transform. The light, though possibly a point source, is treated
// as directional: everything in a span is assumed far enough away that its
// rays are effectively parallel. Returns true if shadows were drawn.
func (e *Engine) renderDepthBufferSpanShadows(shadowIndex int, span depthBufferSpan, lightPosition mgl64.Vec3) bool {
	if !e.shadowsEnabled {
		return false
	}
	if shadowIndex >= len(e.shadowMaps) || !e.shadowMaps[shadowIndex].Valid() {
		return false
	}

	receiverBounds, castersPresent := e.shadowGroup(span)
	if !castersPresent || receiverBounds.IsEmpty() {
		return false
	}

	e.state.DepthRange(0, 1)
	e.beginShadowRendering()

	shadowGroupCenter := receiverBounds.Center
	shadowGroupBoundingRadius := receiverBounds.Radius

	// All objects in the shadow group are assumed far enough from the
	// light source that its direction is effectively constant.
	lightDirection := scene.Vec32(lightPosition.Add(mgl64.Vec3{
		float64(shadowGroupCenter.X()),
		float64(shadowGroupCenter.Y()),
		float64(shadowGroupCenter.Z()),
	})).Normalize()

	// The shadow transform converts camera-space coordinates to shadow
	// texture space: undo the camera rotation, move the origin to the
	// shadow group center, then apply the light-space projection.
	invCameraTransform := e.rc.ModelView().Transpose()
	shadowTransform := e.setupShadowRendering(e.shadowMaps[shadowIndex], lightDirection, shadowGroupBoundingRadius)
	shadowTransform = shadowTransform.
		Mul4(mgl32.Translate3D(-shadowGroupCenter.X(), -shadowGroupCenter.Y(), -shadowGroupCenter.Z())).
		Mul4(invCameraTransform)

	for i := 0; i < span.itemCount; i++ {
		item := &e.visibleItems[span.backItemIndex-i]
		if !item.geometry.IsShadowCaster() {
			continue
		}

		itemPosition := scene.Vec32(item.cameraRelativePosition)
		e.rc.PushModelView()
		e.rc.TranslateModelView(itemPosition.Sub(shadowGroupCenter))
		e.rc.RotateModelView(item.orientation)
		item.geometry.RenderShadow(e.rc, e.currentTime)
		e.rc.PopModelView()
	}

	// Pop the matrices pushed in setupShadowRendering
	e.rc.PopProjection()
	e.rc.PopModelView()

	e.finishShadowRendering()

	e.state.DepthRange(e.depthRangeFront, e.depthRangeBack)
	e.state.Viewport(int32(e.renderViewport.X), int32(e.renderViewport.Y),
		int32(e.renderViewport.Width), int32(e.renderViewport.Height))

	e.rc.SetShadowMapMatrix(shadowIndex, shadowTransform)
	e.rc.SetShadowMap(shadowIndex, e.shadowMaps[shadowIndex].DepthTexture())

	return true
}
