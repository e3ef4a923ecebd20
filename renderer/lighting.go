package renderer

import "astro-render/scene"

// ReflectionRegion is a volume of space sharing one reflection cube map.
type ReflectionRegion struct {
	Region  scene.BoundingSphere
	CubeMap uint32
}

// LightingEnvironment carries the per-view lighting extras that are not
// part of the scene itself, currently reflection cube maps captured with
// RenderCubeMap.
type LightingEnvironment struct {
	ReflectionRegions []ReflectionRegion
}

// Reset clears the environment for reuse.
func (l *LightingEnvironment) Reset() {
	l.ReflectionRegions = l.ReflectionRegions[:0]
}
