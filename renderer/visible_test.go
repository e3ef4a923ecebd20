package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/scene"
)

// addItem drives addVisibleItem directly with a camera at the origin
// looking down -Z.
func addItem(e *Engine, geom scene.Geometry, cameraSpace mgl32.Vec3, nearAdjust float32) {
	position := mgl64.Vec3{float64(cameraSpace.X()), float64(cameraSpace.Y()), float64(cameraSpace.Z())}
	e.addVisibleItem(scene.NewEntity("test"), geom,
		position, position, cameraSpace, mgl32.QuatIdent(), nearAdjust)
}

func TestPreserveDepthPrecisionNearFloor(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	// A near-plane rule of zero forces the policy floor to take over.
	geom := &testGeometry{
		radius: 1e6,
		policy: scene.PreserveDepthPrecision,
		nearFn: func(mgl32.Vec3) float32 { return 0 },
	}
	addItem(e, geom, mgl32.Vec3{0, 0, -1e8}, 1)

	if len(e.visibleItems) != 1 {
		t.Fatalf("items = %d, want 1", len(e.visibleItems))
	}
	// Floor: boundingRadius * MinimumNearFarRatio * 2
	want := float32(1e6) * minimumNearFarRatio * 2
	if got := e.visibleItems[0].nearDistance; got != want {
		t.Errorf("near = %g, want policy floor %g", got, want)
	}
}

func TestPreventClippingNearFloor(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{
		radius: 1e6,
		policy: scene.PreventClipping,
		nearFn: func(mgl32.Vec3) float32 { return 0 },
	}
	addItem(e, geom, mgl32.Vec3{0, 0, -1e8}, 1)

	if len(e.visibleItems) != 1 {
		t.Fatalf("items = %d, want 1", len(e.visibleItems))
	}
	if got := e.visibleItems[0].nearDistance; got != minimumNearPlaneDistance {
		t.Errorf("near = %g, want hardware minimum %g", got, minimumNearPlaneDistance)
	}
}

func TestNearAdjustPullsNearPlaneInward(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{radius: 1e6, policy: scene.PreserveDepthPrecision}
	nearAdjust := float32(0.6)
	addItem(e, geom, mgl32.Vec3{0, 0, -1e8}, nearAdjust)

	if len(e.visibleItems) != 1 {
		t.Fatalf("items = %d, want 1", len(e.visibleItems))
	}
	want := (1e8 - 1e6) * nearAdjust
	if got := e.visibleItems[0].nearDistance; math.Abs(float64(got-want))/float64(want) > 1e-5 {
		t.Errorf("near = %g, want %g", got, want)
	}
}

func TestItemBehindCameraRejected(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{radius: 10, policy: scene.PreserveDepthPrecision}
	addItem(e, geom, mgl32.Vec3{0, 0, 1e6}, 1)

	if len(e.visibleItems) != 0 || len(e.splittableItems) != 0 {
		t.Errorf("item behind the camera was accepted")
	}
}

func TestSplittableRoutedSeparately(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{
		radius: 1e8,
		policy: scene.SplitToPreventClipping,
		nearFn: func(mgl32.Vec3) float32 { return 0 },
	}
	addItem(e, geom, mgl32.Vec3{0, 0, -1e7}, 1)

	if len(e.visibleItems) != 0 {
		t.Errorf("splittable item landed in the normal list")
	}
	if len(e.splittableItems) != 1 {
		t.Fatalf("splittable items = %d, want 1", len(e.splittableItems))
	}
}

func TestFarDistanceIncludesBoundingRadius(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{radius: 250, policy: scene.PreserveDepthPrecision}
	addItem(e, geom, mgl32.Vec3{0, 0, -1000}, 1)

	if len(e.visibleItems) != 1 {
		t.Fatalf("items = %d, want 1", len(e.visibleItems))
	}
	if got := e.visibleItems[0].farDistance; got != 1250 {
		t.Errorf("far = %g, want 1250", got)
	}
}

func TestOffAxisItemFlaggedOutsideFrustum(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{
		radius: 10,
		policy: scene.PreserveDepthPrecision,
		nearFn: func(mgl32.Vec3) float32 { return 0 },
	}
	// 60° fov: half-width at z = -1000 is about 577; x = 5000 is far out.
	addItem(e, geom, mgl32.Vec3{5000, 0, -1000}, 1)

	if len(e.visibleItems) != 1 {
		t.Fatalf("items = %d, want 1", len(e.visibleItems))
	}
	if !e.visibleItems[0].outsideFrustum {
		t.Error("off-axis item not flagged outside the frustum")
	}
}

func TestOnAxisItemInsideFrustum(t *testing.T) {
	e, _, _ := newTestEngine()
	e.viewFrustum = standardProjection().Frustum()

	geom := &testGeometry{radius: 10, policy: scene.PreserveDepthPrecision}
	addItem(e, geom, mgl32.Vec3{0, 0, -1000}, 1)

	if len(e.visibleItems) != 1 {
		t.Fatalf("items = %d, want 1", len(e.visibleItems))
	}
	if e.visibleItems[0].outsideFrustum {
		t.Error("on-axis item flagged outside the frustum")
	}
}
