package scene

import "astro-render/core"

// LightSource is a point light attached to an entity. The primary
// directional light (the sun) is not a LightSource; the renderer supplies it
// implicitly.
type LightSource struct {
	luminosity   float32
	spectrum     core.Color
	lightRange   float32
	shadowCaster bool
}

// NewLightSource creates a white light with zero range that casts no
// shadows.
func NewLightSource() *LightSource {
	return &LightSource{luminosity: 1, spectrum: core.ColorWhite}
}

func (l *LightSource) Luminosity() float32     { return l.luminosity }
func (l *LightSource) SetLuminosity(v float32) { l.luminosity = v }

func (l *LightSource) Spectrum() core.Color     { return l.spectrum }
func (l *LightSource) SetSpectrum(c core.Color) { l.spectrum = c }

// Range is the distance beyond which the light has no visible influence.
func (l *LightSource) Range() float32     { return l.lightRange }
func (l *LightSource) SetRange(r float32) { l.lightRange = r }

func (l *LightSource) IsShadowCaster() bool      { return l.shadowCaster }
func (l *LightSource) SetShadowCaster(cast bool) { l.shadowCaster = cast }
