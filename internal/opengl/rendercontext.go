package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/scene"
)

const maxLights = 4

// RenderContext is the OpenGL implementation of scene.RenderContext. It
// tracks the transform stacks, light and shadow state on the CPU and
// uploads everything in one shot when a geometry binds its material.
type RenderContext struct {
	program uint32

	modelViewStack  []mgl32.Mat4
	projectionStack []scene.PlanarProjection
	projection      scene.PlanarProjection

	cameraOrientation mgl32.Quat
	modelTranslation  mgl64.Vec3

	pixelSize            float32
	viewportW, viewportH int

	lights     [maxLights]scene.Light
	lightCount int
	ambient    core.Color

	shadowCount     int
	omniShadowCount int
	shadowMatrices  [3]mgl32.Mat4
	shadowTextures  [3]uint32
	omniTextures    [3]uint32
	envTexture      uint32

	output scene.RendererOutput
	pass   scene.RenderPass

	// Uniform locations
	projectionLoc, modelViewLoc                       int32
	outputModeLoc, unlitLoc                           int32
	diffuseLoc, specularLoc, shininessLoc, opacityLoc int32
	ambientLoc, lightCountLoc                         int32
	lightTypeLoc, lightPosLoc                         [maxLights]int32
	lightColorLoc, lightAttenuationLoc                [maxLights]int32
	shadowCountLoc, shadowMatrix0Loc, shadowMap0Loc   int32
	omniShadowCountLoc                                int32
	omniShadowMapLoc                                  [3]int32
	hasEnvMapLoc, envMapLoc                           int32
}

// NewRenderContext compiles the scene shader and prepares an empty context.
// A GL context must be current.
func NewRenderContext() (*RenderContext, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("OpenGL init: %w", err)
	}

	prog, err := CompileProgram(sceneVertSrc, sceneFragSrc)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}

	rc := &RenderContext{
		program:           prog,
		modelViewStack:    []mgl32.Mat4{mgl32.Ident4()},
		cameraOrientation: mgl32.QuatIdent(),
	}

	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}

	rc.projectionLoc = loc("uProjection")
	rc.modelViewLoc = loc("uModelView")
	rc.outputModeLoc = loc("uOutputMode")
	rc.unlitLoc = loc("uUnlit")
	rc.diffuseLoc = loc("uDiffuse")
	rc.specularLoc = loc("uSpecular")
	rc.shininessLoc = loc("uShininess")
	rc.opacityLoc = loc("uOpacity")
	rc.ambientLoc = loc("uAmbient")
	rc.lightCountLoc = loc("uLightCount")
	for i := 0; i < maxLights; i++ {
		rc.lightTypeLoc[i] = loc(fmt.Sprintf("uLightType[%d]", i))
		rc.lightPosLoc[i] = loc(fmt.Sprintf("uLightPos[%d]", i))
		rc.lightColorLoc[i] = loc(fmt.Sprintf("uLightColor[%d]", i))
		rc.lightAttenuationLoc[i] = loc(fmt.Sprintf("uLightAttenuation[%d]", i))
	}
	rc.shadowCountLoc = loc("uShadowCount")
	rc.shadowMatrix0Loc = loc("uShadowMatrix0")
	rc.shadowMap0Loc = loc("uShadowMap0")
	rc.omniShadowCountLoc = loc("uOmniShadowCount")
	for i := 0; i < 3; i++ {
		rc.omniShadowMapLoc[i] = loc(fmt.Sprintf("uOmniShadowMap[%d]", i))
	}
	rc.hasEnvMapLoc = loc("uHasEnvMap")
	rc.envMapLoc = loc("uEnvMap")

	return rc, nil
}

// ── Modelview stack ──────────────────────────────────────────────────────────

func (rc *RenderContext) PushModelView() {
	rc.modelViewStack = append(rc.modelViewStack, rc.top())
}

func (rc *RenderContext) PopModelView() {
	if len(rc.modelViewStack) > 1 {
		rc.modelViewStack = rc.modelViewStack[:len(rc.modelViewStack)-1]
	}
}

func (rc *RenderContext) SetModelView(m mgl32.Mat4) {
	rc.modelViewStack[len(rc.modelViewStack)-1] = m
}

func (rc *RenderContext) TranslateModelView(v mgl32.Vec3) {
	rc.SetModelView(rc.top().Mul4(mgl32.Translate3D(v.X(), v.Y(), v.Z())))
}

func (rc *RenderContext) RotateModelView(q mgl32.Quat) {
	rc.SetModelView(rc.top().Mul4(q.Mat4()))
}

func (rc *RenderContext) ModelView() mgl32.Mat4 {
	return rc.top()
}

func (rc *RenderContext) top() mgl32.Mat4 {
	return rc.modelViewStack[len(rc.modelViewStack)-1]
}

// ── Projection ───────────────────────────────────────────────────────────────

func (rc *RenderContext) PushProjection() {
	rc.projectionStack = append(rc.projectionStack, rc.projection)
}

func (rc *RenderContext) PopProjection() {
	if n := len(rc.projectionStack); n > 0 {
		rc.projection = rc.projectionStack[n-1]
		rc.projectionStack = rc.projectionStack[:n-1]
	}
}

func (rc *RenderContext) SetProjection(p scene.PlanarProjection) {
	rc.projection = p
}

func (rc *RenderContext) Projection() scene.PlanarProjection {
	return rc.projection
}

func (rc *RenderContext) Frustum() scene.Frustum {
	return rc.projection.Frustum()
}

// ── Camera and item state ────────────────────────────────────────────────────

func (rc *RenderContext) SetCameraOrientation(q mgl32.Quat) {
	rc.cameraOrientation = q
}

func (rc *RenderContext) CameraOrientation() mgl32.Quat {
	return rc.cameraOrientation
}

func (rc *RenderContext) SetModelTranslation(v mgl64.Vec3) {
	rc.modelTranslation = v
}

func (rc *RenderContext) SetPixelSize(s float32) {
	rc.pixelSize = s
}

func (rc *RenderContext) PixelSize() float32 {
	return rc.pixelSize
}

func (rc *RenderContext) SetViewportSize(width, height int) {
	rc.viewportW = width
	rc.viewportH = height
}

// ── Lights and shadows ───────────────────────────────────────────────────────

func (rc *RenderContext) SetActiveLightCount(n int) {
	if n > maxLights {
		n = maxLights
	}
	rc.lightCount = n
}

func (rc *RenderContext) SetLight(index int, l scene.Light) {
	if index >= 0 && index < maxLights {
		rc.lights[index] = l
	}
}

func (rc *RenderContext) SetAmbientLight(c core.Color) {
	rc.ambient = c
}

func (rc *RenderContext) SetShadowMapCount(n int) {
	rc.shadowCount = n
}

func (rc *RenderContext) SetOmniShadowMapCount(n int) {
	rc.omniShadowCount = n
}

func (rc *RenderContext) SetShadowMapMatrix(index int, m mgl32.Mat4) {
	if index >= 0 && index < len(rc.shadowMatrices) {
		rc.shadowMatrices[index] = m
	}
}

func (rc *RenderContext) SetShadowMap(index int, depthTexture uint32) {
	if index >= 0 && index < len(rc.shadowTextures) {
		rc.shadowTextures[index] = depthTexture
	}
}

func (rc *RenderContext) SetOmniShadowMap(index int, cubeTexture uint32) {
	if index >= 0 && index < len(rc.omniTextures) {
		rc.omniTextures[index] = cubeTexture
	}
}

func (rc *RenderContext) SetEnvironmentMap(cubeTexture uint32) {
	rc.envTexture = cubeTexture
}

// ── Pipeline switches ────────────────────────────────────────────────────────

func (rc *RenderContext) SetRendererOutput(out scene.RendererOutput) {
	rc.output = out
}

func (rc *RenderContext) SetPass(pass scene.RenderPass) {
	rc.pass = pass
	if pass == scene.TranslucentPass {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

// BindMaterial uploads the material together with all current transform,
// light, shadow and output state, leaving the scene program bound so the
// geometry can issue draw calls.
func (rc *RenderContext) BindMaterial(m scene.Material) {
	gl.UseProgram(rc.program)

	proj := rc.projection.Matrix()
	mv := rc.top()
	gl.UniformMatrix4fv(rc.projectionLoc, 1, false, &proj[0])
	gl.UniformMatrix4fv(rc.modelViewLoc, 1, false, &mv[0])

	gl.Uniform1i(rc.outputModeLoc, int32(rc.output))
	gl.Uniform1i(rc.unlitLoc, boolToInt32(m.Unlit))
	gl.Uniform4f(rc.diffuseLoc, m.Diffuse.R, m.Diffuse.G, m.Diffuse.B, m.Diffuse.A)
	gl.Uniform3f(rc.specularLoc, m.Specular.R, m.Specular.G, m.Specular.B)
	gl.Uniform1f(rc.shininessLoc, m.Shininess)
	gl.Uniform1f(rc.opacityLoc, m.Opacity)
	gl.Uniform3f(rc.ambientLoc, rc.ambient.R, rc.ambient.G, rc.ambient.B)

	gl.Uniform1i(rc.lightCountLoc, int32(rc.lightCount))
	for i := 0; i < rc.lightCount; i++ {
		l := rc.lights[i]
		// Light positions arrive camera-relative and world-aligned;
		// rotate them into camera space to match viewPos.
		p := rc.cameraOrientation.Conjugate().Rotate(l.Position)
		gl.Uniform1i(rc.lightTypeLoc[i], int32(l.Type))
		gl.Uniform3f(rc.lightPosLoc[i], p.X(), p.Y(), p.Z())
		gl.Uniform3f(rc.lightColorLoc[i], l.Color.R, l.Color.G, l.Color.B)
		gl.Uniform1f(rc.lightAttenuationLoc[i], l.Attenuation)
	}

	gl.Uniform1i(rc.shadowCountLoc, int32(rc.shadowCount))
	if rc.shadowCount > 0 {
		gl.UniformMatrix4fv(rc.shadowMatrix0Loc, 1, false, &rc.shadowMatrices[0][0])
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, rc.shadowTextures[0])
		gl.Uniform1i(rc.shadowMap0Loc, 1)
	}

	gl.Uniform1i(rc.omniShadowCountLoc, int32(rc.omniShadowCount))
	for i := 0; i < rc.omniShadowCount && i < 3; i++ {
		gl.ActiveTexture(uint32(gl.TEXTURE2 + i))
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, rc.omniTextures[i])
		gl.Uniform1i(rc.omniShadowMapLoc[i], int32(2+i))
	}

	if rc.envTexture != 0 {
		gl.Uniform1i(rc.hasEnvMapLoc, 1)
		gl.ActiveTexture(gl.TEXTURE5)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, rc.envTexture)
		gl.Uniform1i(rc.envMapLoc, 5)
	} else {
		gl.Uniform1i(rc.hasEnvMapLoc, 0)
	}

	gl.ActiveTexture(gl.TEXTURE0)
}

func (rc *RenderContext) UnbindShader() {
	gl.UseProgram(0)
}

func (rc *RenderContext) ShaderCapability() scene.ShaderCapability {
	return scene.GLSL2
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
