package gfx

import (
	"image"

	"github.com/hubastard/gosu/engine/bitmap"
)

// tiledDrawable is an image larger than one texture, cut into a row-major
// grid of parts that are each within the maximum texture size.
type tiledDrawable struct {
	w, h         int
	partW, partH int
	cols, rows   int
	parts        []Drawable
}

func newTiled(g *Graphics, src *bitmap.Bitmap, r image.Rectangle, partW, partH int, flags ImageFlags) (*tiledDrawable, error) {
	td := &tiledDrawable{
		w:     r.Dx(),
		h:     r.Dy(),
		partW: partW,
		partH: partH,
		cols:  (r.Dx() + partW - 1) / partW,
		rows:  (r.Dy() + partH - 1) / partH,
	}
	td.parts = make([]Drawable, 0, td.cols*td.rows)
	for row := 0; row < td.rows; row++ {
		for col := 0; col < td.cols; col++ {
			// Seams between parts are always hard; outer edges keep the
			// caller's flags.
			local := flags&Retro | Tileable
			if col == 0 {
				local = local&^TileableLeft | flags&TileableLeft
			}
			if col == td.cols-1 {
				local = local&^TileableRight | flags&TileableRight
			}
			if row == 0 {
				local = local&^TileableTop | flags&TileableTop
			}
			if row == td.rows-1 {
				local = local&^TileableBottom | flags&TileableBottom
			}
			x0 := r.Min.X + col*partW
			y0 := r.Min.Y + row*partH
			part := image.Rect(x0, y0, min(x0+partW, r.Max.X), min(y0+partH, r.Max.Y))
			d, err := g.createAtlasDrawable(src, part, local)
			if err != nil {
				td.Release()
				return nil, err
			}
			td.parts = append(td.parts, d)
		}
	}
	return td, nil
}

func (td *tiledDrawable) Kind() DrawableKind               { return KindTiled }
func (td *tiledDrawable) Width() int                       { return td.w }
func (td *tiledDrawable) Height() int                      { return td.h }
func (td *tiledDrawable) TextureInfo() (TextureInfo, bool) { return TextureInfo{}, false }
func (td *tiledDrawable) sealed()                          {}

// Draw spreads q over the parts: each part's corners are the bilinear blend
// of q's corners at the part's relative position, so rotated or skewed quads
// stay seamless.
func (td *tiledDrawable) Draw(t *Target, q Quad, z ZPos, mode BlendMode) {
	w, h := float64(td.w), float64(td.h)
	for row := 0; row < td.rows; row++ {
		for col := 0; col < td.cols; col++ {
			part := td.parts[row*td.cols+col]
			left := float64(col*td.partW) / w
			right := float64(col*td.partW+part.Width()) / w
			top := float64(row*td.partH) / h
			bottom := float64(row*td.partH+part.Height()) / h
			part.Draw(t, Quad{
				q.lerp(left, top),
				q.lerp(right, top),
				q.lerp(left, bottom),
				q.lerp(right, bottom),
			}, z, mode)
		}
	}
}

func (td *tiledDrawable) ToBitmap() (*bitmap.Bitmap, error) {
	out := bitmap.New(td.w, td.h)
	for row := 0; row < td.rows; row++ {
		for col := 0; col < td.cols; col++ {
			b, err := td.parts[row*td.cols+col].ToBitmap()
			if err != nil {
				return nil, err
			}
			out.Insert(b, col*td.partW, row*td.partH)
		}
	}
	return out, nil
}

func (td *tiledDrawable) Release() {
	for _, p := range td.parts {
		p.Release()
	}
	td.parts = nil
	td.rows, td.cols = 0, 0
}
