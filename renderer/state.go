package renderer

// graphicsState is the process-wide GPU state the renderer mutates while
// drawing a view. Every mutation goes through this interface so that all
// exit paths can restore what they touched and tests can verify the
// restoration with a recording implementation. The production
// implementation is opengl.State.
type graphicsState interface {
	DepthRange(near, far float64)
	Viewport(x, y, width, height int32)
	ColorMask(r, g, b, a bool)
	CurrentColorMask() [4]bool
	CullFrontFaces(front bool)
	FrontFaceCW(cw bool)
	DepthMask(write bool)
	DepthTest(on bool)
	CullingEnabled(on bool)
	Clear(color, depth bool)
	ClearColor(r, g, b, a float32)
	BindFramebuffer(name uint32)
}
