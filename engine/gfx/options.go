package gfx

import "github.com/hubastard/gosu/engine/colors"

// DrawOptions are the optional parameters of Image.Draw and Image.DrawRot.
type DrawOptions struct {
	ScaleX, ScaleY float64
	Color          colors.Color
	Blend          BlendMode

	// CenterX and CenterY pick the rotation center relative to the image
	// size; only DrawRot uses them.
	CenterX, CenterY float64
}

type DrawOption func(*DrawOptions)

// NewDrawOptions applies opts over the defaults: unscaled, white, default
// blending, centered.
func NewDrawOptions(opts ...DrawOption) DrawOptions {
	o := DrawOptions{
		ScaleX:  1,
		ScaleY:  1,
		Color:   colors.White,
		Blend:   BlendDefault,
		CenterX: 0.5,
		CenterY: 0.5,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithScale scales the image; negative factors mirror it.
func WithScale(sx, sy float64) DrawOption {
	return func(o *DrawOptions) { o.ScaleX, o.ScaleY = sx, sy }
}

// WithColor multiplies the image with c.
func WithColor(c colors.Color) DrawOption {
	return func(o *DrawOptions) { o.Color = c }
}

func WithBlend(m BlendMode) DrawOption {
	return func(o *DrawOptions) { o.Blend = m }
}

// WithCenter sets the rotation center, (0, 0) being the top-left corner and
// (1, 1) the bottom-right one.
func WithCenter(cx, cy float64) DrawOption {
	return func(o *DrawOptions) { o.CenterX, o.CenterY = cx, cy }
}
