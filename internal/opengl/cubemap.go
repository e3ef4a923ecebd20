package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// CubeMapFramebuffer is a six-face cube map render target with a
// single-channel float32 (R32F) color format and a shared depth
// renderbuffer. Omnidirectional shadow maps store the light-to-fragment
// distance in the red channel; reflection captures reuse the same layout.
type CubeMapFramebuffer struct {
	colorTex uint32
	depthRB  uint32
	faces    [6]*Framebuffer
	size     int32
}

// CubeMapsSupported reports whether float cube-map render targets are
// available. Always true on a 4.1 core context.
func CubeMapsSupported() bool {
	return true
}

// NewCubeMapFramebuffer creates a size×size R32F cube map with one
// framebuffer per face, all sharing a single depth renderbuffer.
func NewCubeMapFramebuffer(size int) (*CubeMapFramebuffer, error) {
	cm := &CubeMapFramebuffer{size: int32(size)}

	gl.GenTextures(1, &cm.colorTex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.colorTex)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	for face := 0; face < 6; face++ {
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face), 0, gl.R32F,
			int32(size), int32(size), 0, gl.RED, gl.FLOAT, nil)
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	gl.GenRenderbuffers(1, &cm.depthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, cm.depthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(size), int32(size))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	for face := 0; face < 6; face++ {
		fb := &Framebuffer{size: int32(size), attachments: colorAttachment}
		gl.GenFramebuffers(1, &fb.fbo)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face), cm.colorTex, 0)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, cm.depthRB)

		if err := checkComplete(fmt.Sprintf("cube face %d", face)); err != nil {
			gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
			cm.faces[face] = fb
			cm.Destroy()
			return nil, err
		}
		cm.faces[face] = fb
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return cm, nil
}

// Face returns the framebuffer that renders into the given cube face
// (0..5, ordered +X, -X, +Y, -Y, +Z, -Z).
func (cm *CubeMapFramebuffer) Face(face int) *Framebuffer {
	if face < 0 || face >= 6 {
		return nil
	}
	return cm.faces[face]
}

// ColorTexture returns the cube-map texture handle.
func (cm *CubeMapFramebuffer) ColorTexture() uint32 {
	return cm.colorTex
}

// Size returns the cube-map edge length in pixels.
func (cm *CubeMapFramebuffer) Size() int {
	return int(cm.size)
}

// Valid reports whether all six faces were created successfully.
func (cm *CubeMapFramebuffer) Valid() bool {
	if cm == nil {
		return false
	}
	for _, fb := range cm.faces {
		if !fb.Valid() {
			return false
		}
	}
	return true
}

// Destroy frees GPU resources.
func (cm *CubeMapFramebuffer) Destroy() {
	for i, fb := range cm.faces {
		if fb != nil {
			fb.Destroy()
			cm.faces[i] = nil
		}
	}
	if cm.depthRB != 0 {
		gl.DeleteRenderbuffers(1, &cm.depthRB)
		cm.depthRB = 0
	}
	if cm.colorTex != 0 {
		gl.DeleteTextures(1, &cm.colorTex)
		cm.colorTex = 0
	}
}
