package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Attachment flags describing which render targets a framebuffer owns.
const (
	colorAttachment = 0x1
	depthAttachment = 0x2
)

// Framebuffer wraps an FBO used as a render target. Depth-only
// framebuffers back directional shadow maps; cube-map faces are
// framebuffers whose color target belongs to a CubeMapFramebuffer.
type Framebuffer struct {
	fbo         uint32
	depthTex    uint32
	size        int32
	attachments uint32
}

// Supported reports whether framebuffer objects are available. They always
// are on a 4.1 core context; the query exists so callers can degrade
// gracefully if the context creation path ever changes.
func Supported() bool {
	return true
}

// newShadowDepthTexture allocates a size×size DEPTH_COMPONENT32F texture
// set up for sampling through a comparison (shadow) sampler.
func newShadowDepthTexture(size int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		size, size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	// Depth comparison happens in the sampler; linear filtering then gives
	// hardware PCF over the comparison results.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Geometry outside the shadow volume must never darken, so lookups
	// past the map edge clamp to the farthest depth.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	farthest := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &farthest[0])

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// checkComplete validates the currently bound framebuffer.
func checkComplete(target string) error {
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%s incomplete (status 0x%04X)", target, status)
	}
	return nil
}

// NewDepthOnlyFramebuffer creates a size×size FBO whose only attachment is
// a shadow-comparison depth texture.
func NewDepthOnlyFramebuffer(size int) (*Framebuffer, error) {
	fb := &Framebuffer{
		size:        int32(size),
		attachments: depthAttachment,
		depthTex:    newShadowDepthTexture(int32(size)),
	}

	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.depthTex, 0)

	// With no color attachment, GL must not expect any draw buffer.
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	err := checkComplete("depth-only framebuffer")
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if err != nil {
		fb.Destroy()
		return nil, err
	}

	return fb, nil
}

// Bind makes this framebuffer the render target.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
}

// Unbind restores the default back buffer as the render target.
func Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Valid reports whether the framebuffer was successfully created and has
// not been destroyed.
func (fb *Framebuffer) Valid() bool {
	return fb != nil && fb.fbo != 0
}

// HasColor reports whether the framebuffer owns a color target.
func (fb *Framebuffer) HasColor() bool {
	return fb.attachments&colorAttachment != 0
}

// HasDepthTexture reports whether the framebuffer owns a sampleable depth
// texture (cube faces use a shared renderbuffer instead).
func (fb *Framebuffer) HasDepthTexture() bool {
	return fb.attachments&depthAttachment != 0 && fb.depthTex != 0
}

// Name returns the GL framebuffer object name.
func (fb *Framebuffer) Name() uint32 {
	if fb == nil {
		return 0
	}
	return fb.fbo
}

// DepthTexture returns the depth texture handle, or 0 for framebuffers
// without their own depth texture.
func (fb *Framebuffer) DepthTexture() uint32 {
	return fb.depthTex
}

// Size returns the framebuffer edge length in pixels.
func (fb *Framebuffer) Size() int {
	return int(fb.size)
}

// Destroy frees GPU resources.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.depthTex != 0 {
		gl.DeleteTextures(1, &fb.depthTex)
		fb.depthTex = 0
	}
}
