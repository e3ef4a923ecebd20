package main

import (
	"fmt"
	stdmath "math"
	"os"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl64"

	"astro-render/core"
	"astro-render/geometry"
	"astro-render/renderer"
	"astro-render/scene"
)

const (
	planetRadius     = 6.0e6 // meters
	moonRadius       = 1.7e6
	moonOrbitRadius  = 3.8e8
	observerAltitude = 2.0e7
)

// buildScene assembles a small planetary system: a planet with a marker, a
// moon on a circular orbit with its trajectory drawn, and a shadow-casting
// beacon light near the planet.
func buildScene(modelPath string) *scene.Scene {
	sc := scene.NewScene()

	planet := scene.NewEntity("planet")
	planet.Trajectory = scene.FixedPoint{1.5e11, 0, 0}
	planet.Rotation = scene.UniformRotation{
		Axis: mgl64.Vec3{0, 0, 1},
		Rate: 2 * stdmath.Pi / 86400,
	}

	var planetGeom *geometry.MeshGeometry
	if modelPath != "" {
		g, err := geometry.LoadMeshGeometry(modelPath)
		if err != nil {
			fmt.Printf("model load failed, using sphere: %v\n", err)
		} else {
			planetGeom = g
		}
	}
	if planetGeom == nil {
		planetGeom = geometry.NewMeshGeometry(geometry.NewSphereMesh(planetRadius, 48, 32))
		planetGeom.Material.Diffuse = core.Color{R: 0.45, G: 0.55, B: 0.75, A: 1}
	}
	planet.Geometry = planetGeom
	planet.SetVisualizer("marker", geometry.NewMarker(planetRadius*0.3, core.ColorYellow))
	sc.AddEntity(planet)

	moonOrbit := scene.CircularOrbit{
		Center: mgl64.Vec3{1.5e11, 0, 0},
		Radius: moonOrbitRadius,
		Period: 27.3 * 86400,
	}

	moon := scene.NewEntity("moon")
	moon.Trajectory = moonOrbit
	moonGeom := geometry.NewMeshGeometry(geometry.NewSphereMesh(moonRadius, 32, 24))
	moonGeom.Material.Diffuse = core.Color{R: 0.6, G: 0.6, B: 0.58, A: 1}
	moon.Geometry = moonGeom
	sc.AddEntity(moon)

	// The orbit path is splittable geometry: it spans a huge depth range
	// and is redrawn in every depth span it crosses.
	orbitPath := scene.NewEntity("moon orbit")
	orbitPath.Trajectory = scene.FixedPoint{1.5e11, 0, 0}
	orbitPath.Geometry = geometry.NewTrajectoryGeometry(moonOrbit,
		mgl64.Vec3{1.5e11, 0, 0}, 0, 27.3*86400, 256)
	sc.AddEntity(orbitPath)

	beacon := scene.NewEntity("beacon")
	beacon.Trajectory = scene.FixedPoint{1.5e11 + 2.5e7, 0, 0}
	beaconLight := scene.NewLightSource()
	beaconLight.SetRange(1.0e8)
	beaconLight.SetSpectrum(core.Color{R: 1, G: 0.7, B: 0.4, A: 1})
	beaconLight.SetShadowCaster(true)
	beacon.Light = beaconLight
	beacon.Geometry = geometry.NewBillboardGeometry(5.0e5, core.Color{R: 1, G: 0.8, B: 0.5, A: 0.9})
	sc.AddEntity(beacon)

	sc.SetSkyLayer("background", geometry.NewGradientSkyLayer())

	return sc
}

func main() {
	modelPath := ""
	if len(os.Args) > 1 {
		modelPath = os.Args[1]
	}

	config := core.DefaultWindowConfig()
	config.Title = "Astro Render Demo"
	window, err := core.NewWindow(config)
	if err != nil {
		fmt.Printf("window: %v\n", err)
		os.Exit(1)
	}
	defer window.Destroy()

	engine := renderer.NewEngine()
	if !engine.InitializeGraphics() {
		fmt.Println("graphics initialization failed")
		os.Exit(1)
	}
	if engine.InitializeShadowMaps(2048, 1) {
		engine.SetShadowsEnabled(true)
	}
	engine.InitializeOmniShadowMaps(512, 1)
	engine.SetAmbientLight(core.Color{R: 0.03, G: 0.03, B: 0.05, A: 1})

	sc := buildScene(modelPath)

	planet := sc.Entities()[0]
	observer := scene.NewObserver(planet)
	observer.Position = mgl64.Vec3{0, -(planetRadius + observerAltitude), 0}
	observer.Orientation = mgl64.QuatRotate(stdmath.Pi/2, mgl64.Vec3{1, 0, 0})

	fieldOfView := 60.0 * stdmath.Pi / 180
	simulationTime := 0.0

	gl.ClearColor(0, 0, 0, 1)

	for !window.ShouldClose() {
		window.PollEvents()
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		if window.IsKeyPressed(core.KeyEscape) {
			break
		}
		// Arrow keys turn the observer's view about the world Z axis
		if window.IsKeyPressed(core.KeyLeft) {
			observer.Orientation = mgl64.QuatRotate(0.01, mgl64.Vec3{0, 0, 1}).Mul(observer.Orientation)
		}
		if window.IsKeyPressed(core.KeyRight) {
			observer.Orientation = mgl64.QuatRotate(-0.01, mgl64.Vec3{0, 0, 1}).Mul(observer.Orientation)
		}

		width, height := window.GetFramebufferSize()

		if status := engine.BeginViewSet(sc, simulationTime); status != renderer.StatusOK {
			fmt.Printf("begin view set: %v\n", status)
			break
		}
		if status := engine.RenderViewSimple(observer, fieldOfView, width, height); status != renderer.StatusOK {
			fmt.Printf("render view: %v\n", status)
		}
		engine.EndViewSet()

		window.SwapBuffers()
		simulationTime += 60
	}
}
