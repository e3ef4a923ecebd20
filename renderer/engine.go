package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/internal/opengl"
	"astro-render/scene"
)

// Tuning constants. These values are load-bearing: they control where depth
// spans split and merge, and changing them changes rendered output.
const (
	// MinimumNearDistance is the closest allowed near clipping plane;
	// objects nearer than this are always culled.
	MinimumNearDistance = 1.0e-5
	// MaximumFarDistance is the farthest allowed far clipping plane.
	MaximumFarDistance = 1.0e12

	minimumNearPlaneDistance = float32(1.0e-5)
	maximumFarPlaneDistance  = float32(1.0e12)

	// minimumNearFarRatio bounds the depth range of a single item so
	// precision never degrades below 1/1000 of its bounding diameter.
	minimumNearFarRatio = float32(0.001)
	// preferredNearFarRatio limits how far span coalescing may stretch a
	// merged span.
	preferredNearFarRatio = float32(0.002)
)

const (
	MaxShadowMaps     = 3
	MaxOmniShadowMaps = 3
)

// visibleItem is one drawable collected for the current view: an entity's
// geometry or a visualizer's geometry, positioned camera-relative at double
// precision.
type visibleItem struct {
	entity                 *scene.Entity
	geometry               scene.Geometry
	position               mgl64.Vec3
	cameraRelativePosition mgl64.Vec3
	orientation            mgl32.Quat
	nearDistance           float32
	farDistance            float32
	boundingRadius         float32
	outsideFrustum         bool
}

// lightSourceItem is a light snapshotted at BeginViewSet. A nil source is
// the sun: the implicit primary directional light at the world origin.
type lightSourceItem struct {
	source   *scene.LightSource
	position mgl64.Vec3
}

func (l lightSourceItem) isSun() bool {
	return l.source == nil
}

// visibleLightSourceItem is a light that survived view culling.
type visibleLightSourceItem struct {
	source                 *scene.LightSource
	position               mgl64.Vec3
	cameraRelativePosition mgl64.Vec3
}

// depthBufferSpan is a contiguous sub-range of world depth that will be
// rendered with its own sliced projection and its own fraction of the
// hardware depth range. Spans are kept far-first.
type depthBufferSpan struct {
	nearDistance  float32
	farDistance   float32
	backItemIndex int
	itemCount     int
}

// Engine renders views of a scene. A typical frame:
//
//	engine.BeginViewSet(sc, simulationTime)
//	engine.RenderViewSimple(observer, fov, width, height)
//	engine.EndViewSet()
//
// Multiple views may be rendered inside one view set; the scene must not be
// mutated between BeginViewSet and EndViewSet. All methods must be called
// from the thread owning the GL context.
type Engine struct {
	rc    scene.RenderContext
	state graphicsState

	scene       *scene.Scene
	currentTime float64

	visibleItems    []visibleItem
	splittableItems []visibleItem

	depthSpans       []depthBufferSpan
	mergedDepthSpans []depthBufferSpan

	lightSources        []lightSourceItem
	visibleLightSources []visibleLightSourceItem

	ambientLight core.Color

	shadowMaps     []*opengl.Framebuffer
	omniShadowMaps []*opengl.CubeMapFramebuffer

	shadowsEnabled     bool
	visualizersEnabled bool
	skyLayersEnabled   bool
	defaultSunEnabled  bool

	depthRangeFront float64
	depthRangeBack  float64

	renderSurface     *opengl.Framebuffer
	renderViewport    core.Viewport
	renderColorMask   [4]bool
	viewFrustum       scene.Frustum
	cameraOrientation mgl64.Quat

	lighting *LightingEnvironment
}

// NewEngine creates an engine. It cannot draw until InitializeGraphics has
// been called with a GL context current.
func NewEngine() *Engine {
	return &Engine{
		visualizersEnabled: true,
		skyLayersEnabled:   true,
		defaultSunEnabled:  true,
		depthRangeBack:     1,
		renderViewport:     core.NewViewport(1, 1),
		cameraOrientation:  mgl64.QuatIdent(),
	}
}

// InitializeGraphics creates the render context. Must be called once after
// a GL context exists and before any render call. Calling it again after a
// successful initialization is a no-op.
func (e *Engine) InitializeGraphics() bool {
	if e.rc != nil {
		return true
	}

	rc, err := opengl.NewRenderContext()
	if err != nil {
		fmt.Printf("render context initialization failed: %v\n", err)
		return false
	}
	e.rc = rc
	e.state = opengl.NewState()
	return true
}

// ShadowsSupported reports whether directional shadow maps can be created.
func (e *Engine) ShadowsSupported() bool {
	return opengl.Supported() && e.rc != nil && e.rc.ShaderCapability() != scene.FixedFunction
}

// OmniShadowsSupported reports whether omnidirectional (cube map) shadow
// maps can be created.
func (e *Engine) OmniShadowsSupported() bool {
	return e.ShadowsSupported() && opengl.CubeMapsSupported()
}

// InitializeShadowMaps allocates count directional shadow maps of
// size×size. On any allocation failure all maps are released and shadows
// stay disabled.
func (e *Engine) InitializeShadowMaps(size, count int) bool {
	if e.rc == nil {
		fmt.Println("InitializeShadowMaps called before InitializeGraphics")
		return false
	}
	if !e.ShadowsSupported() {
		fmt.Println("Shadows not supported by graphics hardware and/or drivers.")
		return false
	}
	if count > MaxShadowMaps {
		fmt.Printf("Too many shadow maps requested. Using limit of %d\n", MaxShadowMaps)
		count = MaxShadowMaps
	}
	if maxSize := opengl.MaxTextureSize(); size > maxSize {
		size = maxSize
	}

	e.shadowsEnabled = false
	e.shadowMaps = nil

	for i := 0; i < count; i++ {
		shadowMap, err := opengl.NewDepthOnlyFramebuffer(size)
		if err != nil {
			fmt.Printf("Failed to create shadow buffer %d: %v. Shadows not enabled.\n", i, err)
			for _, created := range e.shadowMaps {
				created.Destroy()
			}
			e.shadowMaps = nil
			return false
		}
		e.shadowMaps = append(e.shadowMaps, shadowMap)
	}

	fmt.Printf("Created %d %dx%d shadow buffer(s)\n", count, size, size)
	return true
}

// InitializeOmniShadowMaps allocates count omnidirectional shadow cube maps
// of size×size per face. Distances are stored in a 32-bit float red
// channel.
func (e *Engine) InitializeOmniShadowMaps(size, count int) bool {
	if e.rc == nil {
		fmt.Println("InitializeOmniShadowMaps called before InitializeGraphics")
		return false
	}
	if !e.OmniShadowsSupported() {
		fmt.Println("Omnidirectional shadows not supported by graphics hardware and/or drivers.")
		return false
	}
	if count > MaxOmniShadowMaps {
		fmt.Printf("Too many shadow maps requested. Using limit of %d\n", MaxOmniShadowMaps)
		count = MaxOmniShadowMaps
	}
	if maxSize := opengl.MaxCubeMapSize(); size > maxSize {
		size = maxSize
	}

	e.omniShadowMaps = nil

	for i := 0; i < count; i++ {
		shadowMap, err := opengl.NewCubeMapFramebuffer(size)
		if err != nil {
			fmt.Printf("Failed to create omni shadow buffer %d: %v. Omni shadows not enabled.\n", i, err)
			e.omniShadowMaps = nil
			return false
		}
		e.omniShadowMaps = append(e.omniShadowMaps, shadowMap)
	}

	fmt.Printf("Created %d %dx%d cube map shadow buffer(s)\n", count, size, size)
	return true
}

// SetShadowsEnabled turns shadow rendering on or off. Enabling is a no-op
// until shadow maps have been successfully initialized.
func (e *Engine) SetShadowsEnabled(enable bool) {
	if len(e.shadowMaps) > 0 && e.shadowMaps[0].Valid() {
		e.shadowsEnabled = enable
	}
}

func (e *Engine) ShadowsEnabled() bool {
	return e.shadowsEnabled
}

// SetVisualizersEnabled turns the drawing of entity visualizers on or off.
func (e *Engine) SetVisualizersEnabled(enable bool) {
	e.visualizersEnabled = enable
}

func (e *Engine) VisualizersEnabled() bool {
	return e.visualizersEnabled
}

// SetSkyLayersEnabled turns the drawing of sky layers on or off. Individual
// layers are additionally gated by their own visibility.
func (e *Engine) SetSkyLayersEnabled(enable bool) {
	e.skyLayersEnabled = enable
}

func (e *Engine) SkyLayersEnabled() bool {
	return e.skyLayersEnabled
}

// SetDefaultSunEnabled controls whether BeginViewSet inserts the implicit
// sun light at the world origin.
func (e *Engine) SetDefaultSunEnabled(enable bool) {
	e.defaultSunEnabled = enable
}

func (e *Engine) DefaultSunEnabled() bool {
	return e.defaultSunEnabled
}

// AmbientLight returns the scene fill light color.
func (e *Engine) AmbientLight() core.Color {
	return e.ambientLight
}

// SetAmbientLight sets the fill light color. Black (the default) is
// realistic for space scenes.
func (e *Engine) SetAmbientLight(c core.Color) {
	e.ambientLight = c
}

// BeginViewSet starts a view set: a scope in which the scene is assumed
// immutable and all views see the same snapshot of the light sources.
func (e *Engine) BeginViewSet(sc *scene.Scene, t float64) Status {
	if e.rc == nil {
		return StatusUninitialized
	}
	if sc == nil {
		return StatusBadParameter
	}
	if e.scene != nil {
		return StatusViewSetAlreadyStarted
	}

	e.scene = sc
	e.currentTime = t

	// Snapshot the light sources. The sun sentinel goes first so that slot
	// 0 always belongs to the directional shadow pass.
	e.lightSources = e.lightSources[:0]
	if e.defaultSunEnabled {
		e.lightSources = append(e.lightSources, lightSourceItem{})
	}

	for _, entity := range sc.Entities() {
		if entity.Light != nil && entity.IsVisible(t) {
			e.lightSources = append(e.lightSources, lightSourceItem{
				source:   entity.Light,
				position: entity.Position(t),
			})
		}
	}

	return StatusOK
}

// EndViewSet finishes the current view set.
func (e *Engine) EndViewSet() Status {
	if e.scene == nil {
		return StatusNoViewSet
	}
	e.scene = nil
	e.lightSources = e.lightSources[:0]
	return StatusOK
}

// setDepthRange assigns a fraction of the hardware depth range and records
// it so shadow passes can restore it.
func (e *Engine) setDepthRange(front, back float64) {
	e.depthRangeFront = front
	e.depthRangeBack = back
	e.state.DepthRange(front, back)
}
