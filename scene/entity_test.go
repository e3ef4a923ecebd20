package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestEntityVisibilityWindow(t *testing.T) {
	e := NewEntity("probe")
	e.StartTime = 100
	e.EndTime = 200

	if e.IsVisible(50) {
		t.Error("visible before start time")
	}
	if !e.IsVisible(150) {
		t.Error("not visible inside window")
	}
	if e.IsVisible(200) {
		t.Error("visible at exclusive end time")
	}

	e.SetVisible(false)
	if e.IsVisible(150) {
		t.Error("visible after SetVisible(false)")
	}
}

func TestEntityUnboundedLifetime(t *testing.T) {
	e := NewEntity("star")
	if !e.IsVisible(-1e9) || !e.IsVisible(1e9) {
		t.Error("entity without a time window should always be visible")
	}
}

func TestVisualizerTable(t *testing.T) {
	e := NewEntity("planet")
	v1 := &stubVisualizer{}
	v2 := &stubVisualizer{}

	e.SetVisualizer("marker", v1)
	e.SetVisualizer("axes", v2)
	if !e.HasVisualizers() {
		t.Fatal("HasVisualizers = false after attaching")
	}
	if e.Visualizer("marker") != v1 || e.Visualizer("axes") != v2 {
		t.Error("visualizer lookup by tag failed")
	}

	// Replacement keeps the original slot.
	v3 := &stubVisualizer{}
	e.SetVisualizer("marker", v3)
	all := e.Visualizers()
	if len(all) != 2 || all[0] != Visualizer(v3) || all[1] != Visualizer(v2) {
		t.Errorf("replacement broke ordering: %v", all)
	}

	e.RemoveVisualizer("marker")
	if e.Visualizer("marker") != nil {
		t.Error("visualizer still present after removal")
	}
	if len(e.Visualizers()) != 1 {
		t.Error("wrong visualizer count after removal")
	}
}

func TestCircularOrbitPeriodicity(t *testing.T) {
	orbit := CircularOrbit{
		Center: mgl64.Vec3{100, 0, 0},
		Radius: 10,
		Period: 60,
	}

	p0 := orbit.Position(0)
	p1 := orbit.Position(60)
	if p0.Sub(p1).Len() > 1e-9 {
		t.Errorf("orbit not periodic: %v vs %v", p0, p1)
	}

	quarter := orbit.Position(15)
	want := mgl64.Vec3{100, 10, 0}
	if quarter.Sub(want).Len() > 1e-9 {
		t.Errorf("quarter-period position = %v, want %v", quarter, want)
	}

	for _, tt := range []float64{0, 7, 33} {
		p := orbit.Position(tt)
		if r := p.Sub(orbit.Center).Len(); math.Abs(r-orbit.Radius) > 1e-9 {
			t.Errorf("t=%g: radius = %g, want %g", tt, r, orbit.Radius)
		}
	}
}

type stubVisualizer struct{}

func (s *stubVisualizer) IsVisible() bool    { return true }
func (s *stubVisualizer) Geometry() Geometry { return nil }
func (s *stubVisualizer) Orientation(host *Entity, t float64) mgl64.Quat {
	return mgl64.QuatIdent()
}
func (s *stubVisualizer) DepthAdjustment() DepthAdjustment { return NoAdjustment }
