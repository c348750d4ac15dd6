package gfx

import (
	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
)

// Corner is a quad corner: a position and the color at it.
type Corner struct {
	X, Y  float64
	Color colors.Color
}

// Quad lists four corners as top-left, top-right, bottom-left, bottom-right.
type Quad [4]Corner

// RectQuad builds the axis-aligned quad (x, y)-(x+w, y+h) in one color.
func RectQuad(x, y, w, h float64, c colors.Color) Quad {
	return Quad{
		{X: x, Y: y, Color: c},
		{X: x + w, Y: y, Color: c},
		{X: x, Y: y + h, Color: c},
		{X: x + w, Y: y + h, Color: c},
	}
}

// lerp interpolates the quad bilinearly at (u, v) in [0..1]².
func (q Quad) lerp(u, v float64) Corner {
	left := Corner{
		X:     q[0].X + (q[2].X-q[0].X)*v,
		Y:     q[0].Y + (q[2].Y-q[0].Y)*v,
		Color: q[0].Color.Lerp(q[2].Color, v),
	}
	right := Corner{
		X:     q[1].X + (q[3].X-q[1].X)*v,
		Y:     q[1].Y + (q[3].Y-q[1].Y)*v,
		Color: q[1].Color.Lerp(q[3].Color, v),
	}
	return Corner{
		X:     left.X + (right.X-left.X)*u,
		Y:     left.Y + (right.Y-left.Y)*u,
		Color: left.Color.Lerp(right.Color, u),
	}
}

// DrawableKind names the variant behind a Drawable.
type DrawableKind uint8

const (
	KindEmpty DrawableKind = iota
	KindChunk
	KindTiled
	KindMacro
	KindCustom
)

func (k DrawableKind) String() string {
	switch k {
	case KindChunk:
		return "chunk"
	case KindTiled:
		return "tiled"
	case KindMacro:
		return "macro"
	case KindCustom:
		return "custom"
	default:
		return "empty"
	}
}

// TextureInfo locates a drawable on its device texture.
type TextureInfo struct {
	Texture                  DeviceTexture
	Left, Top, Right, Bottom float64
}

// Drawable is the image data behind an Image. The set of implementations is
// closed: chunks on an atlas texture, tiled grids of chunks, recorded
// macros, the empty drawable, and user code wrapped by NewCustomDrawable.
type Drawable interface {
	Kind() DrawableKind
	Width() int
	Height() int

	// Draw maps the drawable onto q and queues it on t at z.
	Draw(t *Target, q Quad, z ZPos, mode BlendMode)

	ToBitmap() (*bitmap.Bitmap, error)

	// TextureInfo is only available for single-chunk drawables.
	TextureInfo() (TextureInfo, bool)

	// Release gives up the drawable's texture space. Later calls are no-ops.
	Release()

	sealed()
}

// Empty is the zero-sized drawable. Drawing it does nothing.
var Empty Drawable = emptyDrawable{}

type emptyDrawable struct{}

func (emptyDrawable) Kind() DrawableKind                  { return KindEmpty }
func (emptyDrawable) Width() int                          { return 0 }
func (emptyDrawable) Height() int                         { return 0 }
func (emptyDrawable) Draw(*Target, Quad, ZPos, BlendMode) {}
func (emptyDrawable) ToBitmap() (*bitmap.Bitmap, error)   { return bitmap.New(0, 0), nil }
func (emptyDrawable) TextureInfo() (TextureInfo, bool)    { return TextureInfo{}, false }
func (emptyDrawable) Release()                            {}
func (emptyDrawable) sealed()                             {}

// CustomDrawer is user drawing code that can stand in for image data.
type CustomDrawer interface {
	Width() int
	Height() int
	Draw(t *Target, q Quad, z ZPos, mode BlendMode)
}

type customDrawable struct {
	g *Graphics
	CustomDrawer
}

// NewCustomDrawable wraps d so it can back an Image. ToBitmap renders it
// through g.
func NewCustomDrawable(g *Graphics, d CustomDrawer) Drawable {
	return &customDrawable{g: g, CustomDrawer: d}
}

func (c *customDrawable) Kind() DrawableKind               { return KindCustom }
func (c *customDrawable) TextureInfo() (TextureInfo, bool) { return TextureInfo{}, false }
func (c *customDrawable) Release()                         {}
func (c *customDrawable) sealed()                          {}

func (c *customDrawable) ToBitmap() (*bitmap.Bitmap, error) {
	return renderDrawable(c.g, c)
}

// renderDrawable draws d unscaled into an offscreen target of its size.
func renderDrawable(g *Graphics, d Drawable) (*bitmap.Bitmap, error) {
	w, h := d.Width(), d.Height()
	return g.renderBitmap(w, h, func() {
		d.Draw(g.Target(), RectQuad(0, 0, float64(w), float64(h), colors.White), 0, BlendDefault)
	})
}
