package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// State is the process-wide OpenGL state the renderer mutates during a
// frame. Routing every state change through one type keeps the
// snapshot/restore discipline in a single place and lets tests substitute a
// recording implementation.
type State struct {
	colorMask [4]bool
}

func NewState() *State {
	return &State{colorMask: [4]bool{true, true, true, true}}
}

func (s *State) DepthRange(near, far float64) {
	gl.DepthRange(near, far)
}

func (s *State) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (s *State) ColorMask(r, g, b, a bool) {
	s.colorMask = [4]bool{r, g, b, a}
	gl.ColorMask(r, g, b, a)
}

// CurrentColorMask queries the current GL color write mask, records it in
// this State and returns it.
func (s *State) CurrentColorMask() [4]bool {
	var mask [4]bool
	gl.GetBooleanv(gl.COLOR_WRITEMASK, &mask[0])
	s.colorMask = mask
	return mask
}

// CullFrontFaces selects which faces are culled: front faces during shadow
// rendering (acne mitigation), back faces otherwise.
func (s *State) CullFrontFaces(front bool) {
	if front {
		gl.CullFace(gl.FRONT)
	} else {
		gl.CullFace(gl.BACK)
	}
}

// FrontFaceCW sets the winding of front faces: clockwise under left-handed
// projections, counterclockwise otherwise.
func (s *State) FrontFaceCW(cw bool) {
	if cw {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}

func (s *State) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (s *State) DepthTest(on bool) {
	if on {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (s *State) CullingEnabled(on bool) {
	if on {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

func (s *State) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (s *State) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// BindFramebuffer binds the named framebuffer object; 0 binds the default
// back buffer.
func (s *State) BindFramebuffer(name uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, name)
}
