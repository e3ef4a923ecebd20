package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/scene"
)

// fakeState records GPU state changes so tests can verify that every
// render path restores what it touched.
type fakeState struct {
	depthRange [2]float64
	viewport   [4]int32
	colorMask  [4]bool
	cullFront  bool
	frontCW    bool
	depthWrite bool
	depthTest  bool
	culling    bool
	clearColor [4]float32
	boundFBO   uint32
	clearCalls int
}

func newFakeState() *fakeState {
	return &fakeState{
		depthRange: [2]float64{0, 1},
		colorMask:  [4]bool{true, true, true, true},
		depthWrite: true,
	}
}

func (s *fakeState) DepthRange(near, far float64)  { s.depthRange = [2]float64{near, far} }
func (s *fakeState) Viewport(x, y, w, h int32)     { s.viewport = [4]int32{x, y, w, h} }
func (s *fakeState) ColorMask(r, g, b, a bool)     { s.colorMask = [4]bool{r, g, b, a} }
func (s *fakeState) CurrentColorMask() [4]bool     { return s.colorMask }
func (s *fakeState) CullFrontFaces(front bool)     { s.cullFront = front }
func (s *fakeState) FrontFaceCW(cw bool)           { s.frontCW = cw }
func (s *fakeState) DepthMask(write bool)          { s.depthWrite = write }
func (s *fakeState) DepthTest(on bool)             { s.depthTest = on }
func (s *fakeState) CullingEnabled(on bool)        { s.culling = on }
func (s *fakeState) Clear(color, depth bool)       { s.clearCalls++ }
func (s *fakeState) ClearColor(r, g, b, a float32) { s.clearColor = [4]float32{r, g, b, a} }
func (s *fakeState) BindFramebuffer(name uint32)   { s.boundFBO = name }

// fakeRenderContext is a GL-free scene.RenderContext that tracks the
// transform state the engine depends on.
type fakeRenderContext struct {
	modelViewStack  []mgl32.Mat4
	projectionStack []scene.PlanarProjection
	projection      scene.PlanarProjection

	cameraOrientation mgl32.Quat
	pixelSize         float32
	viewportW         int
	viewportH         int

	lights     [8]scene.Light
	lightCount int
	ambient    core.Color

	shadowCount     int
	omniShadowCount int

	output scene.RendererOutput
	pass   scene.RenderPass

	bindCalls int
}

func newFakeRenderContext() *fakeRenderContext {
	return &fakeRenderContext{
		modelViewStack:    []mgl32.Mat4{mgl32.Ident4()},
		cameraOrientation: mgl32.QuatIdent(),
	}
}

func (rc *fakeRenderContext) PushModelView() {
	rc.modelViewStack = append(rc.modelViewStack, rc.ModelView())
}

func (rc *fakeRenderContext) PopModelView() {
	if len(rc.modelViewStack) > 1 {
		rc.modelViewStack = rc.modelViewStack[:len(rc.modelViewStack)-1]
	}
}

func (rc *fakeRenderContext) SetModelView(m mgl32.Mat4) {
	rc.modelViewStack[len(rc.modelViewStack)-1] = m
}

func (rc *fakeRenderContext) TranslateModelView(v mgl32.Vec3) {
	rc.SetModelView(rc.ModelView().Mul4(mgl32.Translate3D(v.X(), v.Y(), v.Z())))
}

func (rc *fakeRenderContext) RotateModelView(q mgl32.Quat) {
	rc.SetModelView(rc.ModelView().Mul4(q.Mat4()))
}

func (rc *fakeRenderContext) ModelView() mgl32.Mat4 {
	return rc.modelViewStack[len(rc.modelViewStack)-1]
}

func (rc *fakeRenderContext) PushProjection() {
	rc.projectionStack = append(rc.projectionStack, rc.projection)
}

func (rc *fakeRenderContext) PopProjection() {
	if n := len(rc.projectionStack); n > 0 {
		rc.projection = rc.projectionStack[n-1]
		rc.projectionStack = rc.projectionStack[:n-1]
	}
}

func (rc *fakeRenderContext) SetProjection(p scene.PlanarProjection) { rc.projection = p }
func (rc *fakeRenderContext) Projection() scene.PlanarProjection     { return rc.projection }
func (rc *fakeRenderContext) Frustum() scene.Frustum                 { return rc.projection.Frustum() }

func (rc *fakeRenderContext) SetCameraOrientation(q mgl32.Quat) { rc.cameraOrientation = q }
func (rc *fakeRenderContext) CameraOrientation() mgl32.Quat     { return rc.cameraOrientation }
func (rc *fakeRenderContext) SetModelTranslation(v mgl64.Vec3)  {}

func (rc *fakeRenderContext) SetPixelSize(s float32) { rc.pixelSize = s }
func (rc *fakeRenderContext) PixelSize() float32     { return rc.pixelSize }
func (rc *fakeRenderContext) SetViewportSize(w, h int) {
	rc.viewportW = w
	rc.viewportH = h
}

func (rc *fakeRenderContext) SetActiveLightCount(n int) { rc.lightCount = n }
func (rc *fakeRenderContext) SetLight(index int, l scene.Light) {
	if index >= 0 && index < len(rc.lights) {
		rc.lights[index] = l
	}
}
func (rc *fakeRenderContext) SetAmbientLight(c core.Color) { rc.ambient = c }

func (rc *fakeRenderContext) SetShadowMapCount(n int)                    { rc.shadowCount = n }
func (rc *fakeRenderContext) SetOmniShadowMapCount(n int)                { rc.omniShadowCount = n }
func (rc *fakeRenderContext) SetShadowMapMatrix(index int, m mgl32.Mat4) {}
func (rc *fakeRenderContext) SetShadowMap(index int, tex uint32)         {}
func (rc *fakeRenderContext) SetOmniShadowMap(index int, tex uint32)     {}
func (rc *fakeRenderContext) SetEnvironmentMap(tex uint32)               {}

func (rc *fakeRenderContext) SetRendererOutput(out scene.RendererOutput) { rc.output = out }
func (rc *fakeRenderContext) SetPass(pass scene.RenderPass)              { rc.pass = pass }
func (rc *fakeRenderContext) BindMaterial(m scene.Material)              { rc.bindCalls++ }
func (rc *fakeRenderContext) UnbindShader()                              {}
func (rc *fakeRenderContext) ShaderCapability() scene.ShaderCapability   { return scene.GLSL2 }

// testGeometry is a configurable scene.Geometry that counts render calls.
type testGeometry struct {
	radius        float32
	policy        scene.ClippingPolicy
	opaque        bool
	caster        bool
	receiver      bool
	renders       int
	shadowRenders int

	// nearFn overrides the default near-plane rule (camera distance minus
	// bounding radius).
	nearFn func(cameraPosition mgl32.Vec3) float32
}

func (g *testGeometry) BoundingSphereRadius() float32 { return g.radius }

func (g *testGeometry) NearPlaneDistance(cameraPosition mgl32.Vec3) float32 {
	if g.nearFn != nil {
		return g.nearFn(cameraPosition)
	}
	d := cameraPosition.Len() - g.radius
	if d < 0 {
		return 0
	}
	return d
}

func (g *testGeometry) ClippingPolicy() scene.ClippingPolicy { return g.policy }
func (g *testGeometry) IsOpaque() bool                       { return g.opaque }
func (g *testGeometry) IsShadowCaster() bool                 { return g.caster }
func (g *testGeometry) IsShadowReceiver() bool               { return g.receiver }

func (g *testGeometry) Render(rc scene.RenderContext, t float64) {
	g.renders++
}

func (g *testGeometry) RenderShadow(rc scene.RenderContext, t float64) {
	g.shadowRenders++
}

// testVisualizer wraps a geometry as a visualizer.
type testVisualizer struct {
	geometry scene.Geometry
	adjust   scene.DepthAdjustment
}

func (v *testVisualizer) IsVisible() bool          { return true }
func (v *testVisualizer) Geometry() scene.Geometry { return v.geometry }
func (v *testVisualizer) Orientation(host *scene.Entity, t float64) mgl64.Quat {
	return mgl64.QuatIdent()
}
func (v *testVisualizer) DepthAdjustment() scene.DepthAdjustment { return v.adjust }

// newTestEngine returns an engine wired to fakes, ready for view sets.
func newTestEngine() (*Engine, *fakeRenderContext, *fakeState) {
	e := NewEngine()
	rc := newFakeRenderContext()
	st := newFakeState()
	e.rc = rc
	e.state = st
	return e, rc, st
}

// bodyAt creates an entity with a sphere-like opaque test geometry at the
// given world position.
func bodyAt(name string, position mgl64.Vec3, radius float32) (*scene.Entity, *testGeometry) {
	geom := &testGeometry{
		radius:   radius,
		policy:   scene.PreserveDepthPrecision,
		opaque:   true,
		caster:   true,
		receiver: true,
	}
	entity := scene.NewEntity(name)
	entity.Trajectory = scene.FixedPoint(position)
	entity.Geometry = geom
	return entity, geom
}

// standardProjection is the 60° square perspective used by most tests.
func standardProjection() scene.PlanarProjection {
	return scene.NewPerspective(mgl32.DegToRad(60), 1,
		minimumNearPlaneDistance, maximumFarPlaneDistance)
}

func viewport1000() core.Viewport {
	return core.NewViewport(1000, 1000)
}

// sceneWithTrajectory holds a single splittable (trajectory-like) geometry
// in front of the camera at the origin.
func sceneWithTrajectory() *scene.Scene {
	sc := scene.NewScene()
	entity := scene.NewEntity("orbit")
	entity.Trajectory = scene.FixedPoint{0, 0, -1e8}
	entity.Geometry = &testGeometry{
		radius: 4e8,
		policy: scene.SplitToPreventClipping,
	}
	sc.AddEntity(entity)
	return sc
}
