package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/internal/opengl"
	"astro-render/scene"
)

// RenderCubeMap renders six views into the faces of a cube map from the
// given position, pointed along the universal coordinate axes (composed
// with rotation, which should be identity for reflection maps).
//
// Reflection maps should contain only distant geometry; pass a nearDistance
// well above the minimum to cull nearby objects automatically.
func (e *Engine) RenderCubeMap(lighting *LightingEnvironment, position mgl64.Vec3,
	cubeMap *opengl.CubeMapFramebuffer, nearDistance, farDistance float64,
	rotation mgl64.Quat) Status {

	if cubeMap == nil {
		return StatusBadParameter
	}
	if e.rc == nil {
		return StatusUninitialized
	}
	if e.scene == nil {
		return StatusNoViewSet
	}

	viewport := core.NewViewport(cubeMap.Size(), cubeMap.Size())
	cubeFaceProjection := scene.NewPerspectiveLH(float32(math.Pi/2), 1,
		float32(nearDistance), float32(farDistance))

	for face := 0; face < 6; face++ {
		fb := cubeMap.Face(face)
		if fb == nil {
			continue
		}

		e.state.BindFramebuffer(fb.Name())
		e.state.DepthMask(true)
		e.state.Clear(true, true)

		status := e.RenderView(lighting, position,
			rotation.Mul(cubeFaceCameraRotations[face]),
			cubeFaceProjection, viewport, fb)
		if status != StatusOK {
			e.state.BindFramebuffer(0)
			return status
		}
	}

	e.state.BindFramebuffer(0)

	return StatusOK
}

// RenderShadowCubeMap renders six views into a shadow cube map with the
// renderer writing camera distance instead of shaded color.
func (e *Engine) RenderShadowCubeMap(lighting *LightingEnvironment, position mgl64.Vec3,
	cubeMap *opengl.CubeMapFramebuffer) Status {

	if cubeMap == nil {
		return StatusBadParameter
	}
	if e.rc == nil {
		return StatusUninitialized
	}
	if e.scene == nil {
		return StatusNoViewSet
	}

	status := StatusOK

	viewport := core.NewViewport(cubeMap.Size(), cubeMap.Size())
	cubeFaceProjection := scene.NewPerspectiveLH(float32(math.Pi/2), 1,
		minimumNearPlaneDistance, maximumFarPlaneDistance)

	e.rc.SetRendererOutput(scene.CameraDistance)

	for face := 0; face < 6; face++ {
		fb := cubeMap.Face(face)
		if fb == nil {
			continue
		}

		e.state.BindFramebuffer(fb.Name())
		e.state.DepthMask(true)
		e.state.Clear(true, true)

		status = e.RenderView(lighting, position, cubeFaceCameraRotations[face],
			cubeFaceProjection, viewport, fb)
		if status != StatusOK {
			break
		}
	}

	e.state.BindFramebuffer(0)
	e.rc.SetRendererOutput(scene.FragmentColor)

	return status
}
