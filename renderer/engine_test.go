package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/scene"
)

func TestLifecycleStatuses(t *testing.T) {
	e := NewEngine()
	sc := scene.NewScene()

	if status := e.BeginViewSet(sc, 0); status != StatusUninitialized {
		t.Errorf("BeginViewSet before init = %v, want %v", status, StatusUninitialized)
	}

	e, _, _ = newTestEngine()

	if status := e.BeginViewSet(nil, 0); status != StatusBadParameter {
		t.Errorf("BeginViewSet(nil) = %v, want %v", status, StatusBadParameter)
	}
	if status := e.EndViewSet(); status != StatusNoViewSet {
		t.Errorf("EndViewSet without begin = %v, want %v", status, StatusNoViewSet)
	}
	if status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil); status != StatusNoViewSet {
		t.Errorf("RenderView without view set = %v, want %v", status, StatusNoViewSet)
	}

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet = %v, want %v", status, StatusOK)
	}
	if status := e.BeginViewSet(sc, 0); status != StatusViewSetAlreadyStarted {
		t.Errorf("reentrant BeginViewSet = %v, want %v", status, StatusViewSetAlreadyStarted)
	}
	if status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil); status != StatusOK {
		t.Errorf("RenderView = %v, want %v", status, StatusOK)
	}
	if status := e.EndViewSet(); status != StatusOK {
		t.Errorf("EndViewSet = %v, want %v", status, StatusOK)
	}
	if status := e.EndViewSet(); status != StatusNoViewSet {
		t.Errorf("second EndViewSet = %v, want %v", status, StatusNoViewSet)
	}
}

func TestBeginEndViewSetLeavesStateClean(t *testing.T) {
	e, _, _ := newTestEngine()
	sc := scene.NewScene()

	if status := e.BeginViewSet(sc, 100); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	if status := e.EndViewSet(); status != StatusOK {
		t.Fatalf("EndViewSet: %v", status)
	}

	if e.scene != nil {
		t.Error("scene reference retained after EndViewSet")
	}
	if len(e.lightSources) != 0 {
		t.Errorf("light snapshot retained after EndViewSet: %d entries", len(e.lightSources))
	}
}

func TestSunSentinelIsFirstLight(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	lamp := scene.NewEntity("lamp")
	lamp.Trajectory = scene.FixedPoint{1, 2, 3}
	light := scene.NewLightSource()
	light.SetRange(100)
	lamp.Light = light
	sc.AddEntity(lamp)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	if len(e.lightSources) != 2 {
		t.Fatalf("light list length = %d, want 2", len(e.lightSources))
	}
	if !e.lightSources[0].isSun() {
		t.Error("first light is not the sun sentinel")
	}
	if e.lightSources[0].position != (mgl64.Vec3{}) {
		t.Errorf("sun sentinel position = %v, want origin", e.lightSources[0].position)
	}
	if e.lightSources[1].source != light {
		t.Error("snapshot missing the scene light")
	}
}

func TestDefaultSunDisabled(t *testing.T) {
	e, _, _ := newTestEngine()
	e.SetDefaultSunEnabled(false)

	sc := scene.NewScene()
	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	if len(e.lightSources) != 0 {
		t.Errorf("light list length = %d, want 0 with default sun disabled", len(e.lightSources))
	}
}

// Scenario: a single planet of radius 1e8 viewed from 1e9 away fits in one
// merged span and costs one draw call.
func TestSinglePlanetOneSpan(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	planet, geom := bodyAt("planet", mgl64.Vec3{0, 0, -1e9}, 1e8)
	sc.AddEntity(planet)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil)
	if status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(e.mergedDepthSpans) != 1 {
		t.Fatalf("merged spans = %d, want 1", len(e.mergedDepthSpans))
	}
	span := e.mergedDepthSpans[0]
	if span.itemCount != 1 {
		t.Errorf("span itemCount = %d, want 1", span.itemCount)
	}
	if got, want := span.farDistance, float32(1.1e9); math.Abs(float64(got-want)/float64(want)) > 1e-4 {
		t.Errorf("span far = %g, want ≈ %g", got, want)
	}
	if span.nearDistance <= 0 || span.nearDistance >= span.farDistance {
		t.Errorf("span near = %g out of range (far %g)", span.nearDistance, span.farDistance)
	}
	if geom.renders != 1 {
		t.Errorf("planet rendered %d times, want 1", geom.renders)
	}
}

// Scenario: a distant planet plus a nearby spacecraft have disjoint depth
// scales and land in different merged spans.
func TestTwoScalesTwoSpans(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	planet, planetGeom := bodyAt("planet", mgl64.Vec3{0, 0, -1e9}, 1e8)
	craft, craftGeom := bodyAt("craft", mgl64.Vec3{0, 0, -1e5}, 100)
	sc.AddEntity(planet)
	sc.AddEntity(craft)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil)
	if status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(e.mergedDepthSpans) < 2 {
		t.Fatalf("merged spans = %d, want >= 2", len(e.mergedDepthSpans))
	}

	// Far-first ordering: the planet is in the first span, the spacecraft
	// in the last.
	first := e.mergedDepthSpans[0]
	last := e.mergedDepthSpans[len(e.mergedDepthSpans)-1]
	if !(first.nearDistance <= 1.1e9 && 1.1e9 <= first.farDistance) {
		t.Errorf("planet far 1.1e9 not in first span [%g, %g]", first.nearDistance, first.farDistance)
	}
	craftFar := float32(1e5 + 100)
	if !(last.nearDistance <= craftFar && craftFar <= last.farDistance) {
		t.Errorf("spacecraft far %g not in last span [%g, %g]", craftFar, last.nearDistance, last.farDistance)
	}

	if planetGeom.renders != 1 || craftGeom.renders != 1 {
		t.Errorf("renders = planet %d, craft %d; want 1 and 1", planetGeom.renders, craftGeom.renders)
	}
}

// Scenario: a shadow caster outside the view frustum stays in the item
// list (it could cast a shadow into the view) but is never drawn.
func TestOutsideFrustumCasterKeptButNotDrawn(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	body, geom := bodyAt("offscreen", mgl64.Vec3{8e7, 0, -1e8}, 1e7)
	// The lateral offset makes the radial camera distance exceed the axial
	// far distance; a zero near-plane rule keeps the item acceptable.
	geom.nearFn = func(mgl32.Vec3) float32 { return 0 }
	sc.AddEntity(body)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil)
	if status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(e.visibleItems) != 1 {
		t.Fatalf("visible items = %d, want 1", len(e.visibleItems))
	}
	if !e.visibleItems[0].outsideFrustum {
		t.Error("item should be flagged outside the frustum")
	}
	if geom.renders != 0 {
		t.Errorf("offscreen item rendered %d times, want 0", geom.renders)
	}

	// The shadow pass still sees it as a caster.
	span := depthBufferSpan{backItemIndex: 0, itemCount: 1}
	bounds, casters := e.shadowGroup(span)
	if !casters {
		t.Error("shadow group reports no casters")
	}
	if bounds.IsEmpty() {
		t.Error("shadow group receiver bounds empty")
	}
}

func TestRenderViewRestoresPlatformState(t *testing.T) {
	e, _, st := newTestEngine()

	st.colorMask = [4]bool{true, false, true, false}

	sc := scene.NewScene()
	planet, _ := bodyAt("planet", mgl64.Vec3{0, 0, -1e9}, 1e8)
	sc.AddEntity(planet)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil)
	if status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if st.colorMask != [4]bool{true, false, true, false} {
		t.Errorf("color mask changed: %v", st.colorMask)
	}
	if st.frontCW {
		t.Error("front face left clockwise")
	}
	if st.cullFront {
		t.Error("cull face left at front faces")
	}
	if st.depthRange != [2]float64{0, 1} {
		t.Errorf("depth range not restored to full: %v", st.depthRange)
	}
	if st.boundFBO != 0 {
		t.Errorf("framebuffer left bound: %d", st.boundFBO)
	}
}

func TestRenderViewTwiceIsIdempotent(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	planet, geom := bodyAt("planet", mgl64.Vec3{0, 0, -1e9}, 1e8)
	sc.AddEntity(planet)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	proj := standardProjection()
	if status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), proj, viewport1000(), nil); status != StatusOK {
		t.Fatalf("first RenderView: %v", status)
	}
	firstSpans := append([]depthBufferSpan(nil), e.mergedDepthSpans...)

	if status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), proj, viewport1000(), nil); status != StatusOK {
		t.Fatalf("second RenderView: %v", status)
	}

	if len(firstSpans) != len(e.mergedDepthSpans) {
		t.Fatalf("span count changed between identical views: %d vs %d", len(firstSpans), len(e.mergedDepthSpans))
	}
	for i := range firstSpans {
		if firstSpans[i] != e.mergedDepthSpans[i] {
			t.Errorf("span %d differs between identical views: %+v vs %+v", i, firstSpans[i], e.mergedDepthSpans[i])
		}
	}
	if geom.renders != 2 {
		t.Errorf("geometry rendered %d times over two views, want 2", geom.renders)
	}
}

func TestSizeCullSkipsSubpixelGeometry(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	// 10 m body at 1e9 m: hopelessly subpixel.
	speck, geom := bodyAt("speck", mgl64.Vec3{0, 0, -1e9}, 10)
	sc.AddEntity(speck)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil)
	if status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(e.visibleItems) != 0 {
		t.Errorf("visible items = %d, want 0 (size-culled)", len(e.visibleItems))
	}
	if geom.renders != 0 {
		t.Errorf("subpixel geometry rendered %d times", geom.renders)
	}
}

func TestVisualizerAdjustToFront(t *testing.T) {
	e, _, _ := newTestEngine()

	sc := scene.NewScene()
	planet, _ := bodyAt("planet", mgl64.Vec3{0, 0, -1e9}, 1e8)
	markerGeom := &testGeometry{radius: 1e7, policy: scene.PreventClipping}
	planet.SetVisualizer("marker", &testVisualizer{geometry: markerGeom, adjust: scene.AdjustToFront})
	sc.AddEntity(planet)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil)
	if status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(e.visibleItems) != 2 {
		t.Fatalf("visible items = %d, want 2 (planet + marker)", len(e.visibleItems))
	}

	var planetItem, markerItem *visibleItem
	for i := range e.visibleItems {
		if e.visibleItems[i].geometry == markerGeom {
			markerItem = &e.visibleItems[i]
		} else {
			planetItem = &e.visibleItems[i]
		}
	}
	if planetItem == nil || markerItem == nil {
		t.Fatal("missing planet or marker item")
	}

	// The marker was pulled toward the camera by (z - r) / z.
	wantFactor := (1e9 - 1e8) / 1e9
	gotFactor := markerItem.cameraRelativePosition.Len() / planetItem.cameraRelativePosition.Len()
	if math.Abs(gotFactor-wantFactor) > 1e-5 {
		t.Errorf("marker depth adjustment factor = %g, want %g", gotFactor, wantFactor)
	}
	if markerItem.farDistance >= planetItem.farDistance {
		t.Errorf("marker far %g should be nearer than planet far %g",
			markerItem.farDistance, planetItem.farDistance)
	}
}

func TestVisualizersDisabled(t *testing.T) {
	e, _, _ := newTestEngine()
	e.SetVisualizersEnabled(false)

	sc := scene.NewScene()
	planet, _ := bodyAt("planet", mgl64.Vec3{0, 0, -1e9}, 1e8)
	markerGeom := &testGeometry{radius: 1e7, policy: scene.PreventClipping}
	planet.SetVisualizer("marker", &testVisualizer{geometry: markerGeom})
	sc.AddEntity(planet)

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	if status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil); status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(e.visibleItems) != 1 {
		t.Errorf("visible items = %d, want 1 with visualizers disabled", len(e.visibleItems))
	}
}

func TestSkyLayersRenderInDrawOrder(t *testing.T) {
	e, _, _ := newTestEngine()

	var order []int
	sc := scene.NewScene()
	sc.SetSkyLayer("stars", &testSkyLayer{order: 2, log: &order})
	sc.SetSkyLayer("grid", &testSkyLayer{order: 1, log: &order})
	sc.SetSkyLayer("hidden", &testSkyLayer{order: 0, visibleOff: true, log: &order})

	if status := e.BeginViewSet(sc, 0); status != StatusOK {
		t.Fatalf("BeginViewSet: %v", status)
	}
	defer e.EndViewSet()

	if status := e.RenderView(nil, mgl64.Vec3{}, mgl64.QuatIdent(), standardProjection(), viewport1000(), nil); status != StatusOK {
		t.Fatalf("RenderView: %v", status)
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("sky layer draw order = %v, want [1 2]", order)
	}
}

type testSkyLayer struct {
	order      int
	visibleOff bool
	log        *[]int
}

func (l *testSkyLayer) Render(rc scene.RenderContext) { *l.log = append(*l.log, l.order) }
func (l *testSkyLayer) IsVisible() bool               { return !l.visibleOff }
func (l *testSkyLayer) DrawOrder() int                { return l.order }

func TestRenderCubeMapNilCubeMap(t *testing.T) {
	e, _, _ := newTestEngine()

	status := e.RenderCubeMap(nil, mgl64.Vec3{}, nil, MinimumNearDistance, MaximumFarDistance, mgl64.QuatIdent())
	if status != StatusBadParameter {
		t.Errorf("RenderCubeMap(nil map) = %v, want %v", status, StatusBadParameter)
	}
}
