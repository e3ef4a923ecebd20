package geometry

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"astro-render/core"
	"astro-render/internal/opengl"
	"astro-render/scene"
)

// GradientSkyLayer is a procedural backdrop: a zenith and ground tone with
// an exponential glow band at the horizon. It renders as a single
// fullscreen triangle whose fragments reconstruct their view direction
// from the inverse view-projection, so no vertex data is needed at all.
// Sky layers draw with depth writes and depth testing off, behind all
// scene geometry.
type GradientSkyLayer struct {
	ZenithColor  core.Color
	HorizonColor core.Color
	GroundColor  core.Color

	// HorizonSharpness sets how quickly the horizon band fades with
	// altitude; larger values give a tighter band.
	HorizonSharpness float32

	visible   bool
	drawOrder int

	prog           uint32
	vao            uint32
	invViewProjLoc int32
	zenithLoc      int32
	horizonLoc     int32
	groundLoc      int32
	sharpnessLoc   int32
	initDone       bool
	initFailed     bool
}

// The vertex stage emits one triangle large enough to cover the viewport,
// indexed purely by gl_VertexID.
const skyVertSrc = `
#version 410 core
out vec2 ndc;

void main() {
    const vec2 corners[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    ndc = corners[gl_VertexID];
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

// The fragment stage unprojects its NDC position to a world-space view ray
// (the sky modelview is rotation only, so the camera sits at the origin of
// that space) and shades by altitude: a base tone above or below the
// horizon, blended with the horizon color by an exponential falloff.
const skyFragSrc = `
#version 410 core
in vec2 ndc;
out vec4 outColor;

uniform mat4  uInvViewProj;
uniform vec3  uZenith;
uniform vec3  uHorizon;
uniform vec3  uGround;
uniform float uHorizonSharpness;

void main() {
    vec4 p = uInvViewProj * vec4(ndc, 1.0, 1.0);
    vec3 dir = normalize(p.xyz / p.w);

    float altitude = dir.y;
    vec3 base = altitude >= 0.0 ? uZenith : uGround;
    float band = exp(-abs(altitude) * uHorizonSharpness);
    outColor = vec4(mix(base, uHorizon, band), 1.0);
}
` + "\x00"

// NewGradientSkyLayer creates a deep-space gradient: near-black zenith and
// ground with a faint band at the horizon.
func NewGradientSkyLayer() *GradientSkyLayer {
	return &GradientSkyLayer{
		ZenithColor:      core.Color{R: 0.01, G: 0.01, B: 0.03, A: 1},
		HorizonColor:     core.Color{R: 0.05, G: 0.05, B: 0.10, A: 1},
		GroundColor:      core.Color{R: 0.01, G: 0.01, B: 0.02, A: 1},
		HorizonSharpness: 6,
		visible:          true,
	}
}

func (l *GradientSkyLayer) SetVisible(visible bool) { l.visible = visible }
func (l *GradientSkyLayer) IsVisible() bool         { return l.visible }

func (l *GradientSkyLayer) SetDrawOrder(order int) { l.drawOrder = order }
func (l *GradientSkyLayer) DrawOrder() int         { return l.drawOrder }

func (l *GradientSkyLayer) init() error {
	prog, err := opengl.CompileProgram(skyVertSrc, skyFragSrc)
	if err != nil {
		return fmt.Errorf("sky shader: %w", err)
	}
	l.prog = prog
	l.invViewProjLoc = gl.GetUniformLocation(prog, gl.Str("uInvViewProj\x00"))
	l.zenithLoc = gl.GetUniformLocation(prog, gl.Str("uZenith\x00"))
	l.horizonLoc = gl.GetUniformLocation(prog, gl.Str("uHorizon\x00"))
	l.groundLoc = gl.GetUniformLocation(prog, gl.Str("uGround\x00"))
	l.sharpnessLoc = gl.GetUniformLocation(prog, gl.Str("uHorizonSharpness\x00"))

	// The triangle comes from gl_VertexID; the VAO exists only because
	// core profile refuses to draw without one bound.
	gl.GenVertexArrays(1, &l.vao)
	return nil
}

// Render draws the gradient over the whole viewport.
func (l *GradientSkyLayer) Render(rc scene.RenderContext) {
	if l.initFailed {
		return
	}
	if !l.initDone {
		l.initDone = true
		if err := l.init(); err != nil {
			fmt.Printf("sky layer disabled: %v\n", err)
			l.initFailed = true
			return
		}
	}

	viewProj := rc.Projection().Matrix().Mul4(rc.ModelView())
	invViewProj := viewProj.Inv()

	gl.UseProgram(l.prog)
	gl.UniformMatrix4fv(l.invViewProjLoc, 1, false, &invViewProj[0])
	gl.Uniform3f(l.zenithLoc, l.ZenithColor.R, l.ZenithColor.G, l.ZenithColor.B)
	gl.Uniform3f(l.horizonLoc, l.HorizonColor.R, l.HorizonColor.G, l.HorizonColor.B)
	gl.Uniform3f(l.groundLoc, l.GroundColor.R, l.GroundColor.G, l.GroundColor.B)
	gl.Uniform1f(l.sharpnessLoc, l.HorizonSharpness)

	gl.BindVertexArray(l.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}
