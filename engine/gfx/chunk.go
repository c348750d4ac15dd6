package gfx

import (
	"fmt"
	"image"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/gfx/atlas"
)

// uvRect is a normalized sub-rectangle of a texture.
type uvRect struct {
	Left, Top, Right, Bottom float64
}

// uvFromPixels converts a pixel rectangle within a size x size texture.
func uvFromPixels(x, y, w, h, size int) uvRect {
	s := float64(size)
	return uvRect{
		Left:   float64(x) / s,
		Top:    float64(y) / s,
		Right:  float64(x+w) / s,
		Bottom: float64(y+h) / s,
	}
}

// chunkDrawable is image data living in one block of an atlas texture. The
// visible region excludes the padding border around the block.
type chunkDrawable struct {
	tex     *Texture
	block   atlas.Block
	padding int

	x, y, w, h int
	uv         uvRect

	// Subimages share the root chunk's block and keep it alive.
	root     *chunkDrawable
	refs     int
	released bool
}

func newChunk(t *Texture, b atlas.Block, padding int) *chunkDrawable {
	c := &chunkDrawable{
		tex:     t,
		block:   b,
		padding: padding,
		x:       b.Left + padding,
		y:       b.Top + padding,
		w:       b.Width - 2*padding,
		h:       b.Height - 2*padding,
		refs:    1,
	}
	c.uv = uvFromPixels(c.x, c.y, c.w, c.h, t.size)
	return c
}

func (c *chunkDrawable) Kind() DrawableKind { return KindChunk }
func (c *chunkDrawable) Width() int         { return c.w }
func (c *chunkDrawable) Height() int        { return c.h }
func (c *chunkDrawable) sealed()            {}

func (c *chunkDrawable) Draw(t *Target, q Quad, z ZPos, mode BlendMode) {
	t.drawTextured(q, c.tex, c.uv, z, mode)
}

func (c *chunkDrawable) ToBitmap() (*bitmap.Bitmap, error) {
	return c.tex.ReadRegion(c.x, c.y, c.w, c.h)
}

func (c *chunkDrawable) TextureInfo() (TextureInfo, bool) {
	return TextureInfo{
		Texture: c.tex.dev,
		Left:    c.uv.Left,
		Top:     c.uv.Top,
		Right:   c.uv.Right,
		Bottom:  c.uv.Bottom,
	}, true
}

// subimage returns a chunk showing r (relative to c) on the same texture.
func (c *chunkDrawable) subimage(r image.Rectangle) (*chunkDrawable, error) {
	if !r.In(image.Rect(0, 0, c.w, c.h)) || r.Empty() {
		return nil, fmt.Errorf("%w: %v in %dx%d", ErrRegionOutOfBounds, r, c.w, c.h)
	}
	root := c
	if c.root != nil {
		root = c.root
	}
	root.refs++
	sub := &chunkDrawable{
		tex:   c.tex,
		block: root.block,
		x:     c.x + r.Min.X,
		y:     c.y + r.Min.Y,
		w:     r.Dx(),
		h:     r.Dy(),
		root:  root,
	}
	sub.uv = uvFromPixels(sub.x, sub.y, sub.w, sub.h, c.tex.size)
	return sub, nil
}

func (c *chunkDrawable) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.root != nil {
		c.root.unref()
		return
	}
	c.unref()
}

func (c *chunkDrawable) unref() {
	c.refs--
	if c.refs == 0 {
		c.tex.free(c.block)
	}
}
