package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
)

// ShaderCapability describes what shading hardware the context runs on.
type ShaderCapability int

const (
	FixedFunction ShaderCapability = iota
	GLSL1
	GLSL2
)

// RendererOutput selects what the fragment stage writes: normal shaded
// color, or the camera-to-fragment distance in the red channel (used for
// omnidirectional shadow maps).
type RendererOutput int

const (
	FragmentColor RendererOutput = iota
	CameraDistance
)

// RenderPass distinguishes the opaque and translucent sub-passes of a
// depth span.
type RenderPass int

const (
	OpaquePass RenderPass = iota
	TranslucentPass
)

// LightType is the kind of a light slot in the render context.
type LightType int

const (
	DirectionalLight LightType = iota
	PointLight
)

// Light is a light slot uploaded to the shading pipeline. For directional
// lights Position holds the direction toward the light.
type Light struct {
	Type        LightType
	Position    mgl32.Vec3
	Color       core.Color
	Attenuation float32
}

// Material holds the surface shading properties a geometry binds before
// issuing draw calls.
type Material struct {
	Diffuse   core.Color
	Specular  core.Color
	Shininess float32
	Opacity   float32
	Unlit     bool
}

// DefaultMaterial is a matte light-gray surface.
func DefaultMaterial() Material {
	return Material{
		Diffuse:   core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
		Specular:  core.ColorBlack,
		Shininess: 1,
		Opacity:   1,
	}
}

// RenderContext is the shading pipeline state consumed by geometry while it
// renders. The renderer configures it per view, per span and per item;
// geometry reads the current transforms and binds materials through it.
type RenderContext interface {
	PushModelView()
	PopModelView()
	SetModelView(m mgl32.Mat4)
	TranslateModelView(v mgl32.Vec3)
	RotateModelView(q mgl32.Quat)
	ModelView() mgl32.Mat4

	PushProjection()
	PopProjection()
	SetProjection(p PlanarProjection)
	Projection() PlanarProjection
	Frustum() Frustum

	SetCameraOrientation(q mgl32.Quat)
	CameraOrientation() mgl32.Quat

	// SetModelTranslation records the double-precision camera-relative
	// position of the current item, for shaders that need positions more
	// precise than the single-precision modelview can carry.
	SetModelTranslation(v mgl64.Vec3)

	SetPixelSize(s float32)
	PixelSize() float32
	SetViewportSize(width, height int)

	SetActiveLightCount(n int)
	SetLight(index int, l Light)
	SetAmbientLight(c core.Color)

	SetShadowMapCount(n int)
	SetOmniShadowMapCount(n int)
	SetShadowMapMatrix(index int, m mgl32.Mat4)
	SetShadowMap(index int, depthTexture uint32)
	SetOmniShadowMap(index int, cubeTexture uint32)
	SetEnvironmentMap(cubeTexture uint32)

	SetRendererOutput(out RendererOutput)
	SetPass(pass RenderPass)

	// BindMaterial uploads the material and all current transform, light
	// and shadow state to the shading pipeline, leaving it ready for draw
	// calls.
	BindMaterial(m Material)
	UnbindShader()
	ShaderCapability() ShaderCapability
}
