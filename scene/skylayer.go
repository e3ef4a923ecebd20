package scene

// SkyLayer is a backdrop drawn behind all scene geometry with depth writes
// disabled: star fields, coordinate grids, constellation figures. Layers
// render in ascending draw order.
type SkyLayer interface {
	Render(rc RenderContext)
	IsVisible() bool
	DrawOrder() int
}
