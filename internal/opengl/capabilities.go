package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// MaxTextureSize returns the largest supported 2D texture edge length.
func MaxTextureSize() int {
	var v int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &v)
	return int(v)
}

// MaxCubeMapSize returns the largest supported cube-map face edge length.
func MaxCubeMapSize() int {
	var v int32
	gl.GetIntegerv(gl.MAX_CUBE_MAP_TEXTURE_SIZE, &v)
	return int(v)
}
