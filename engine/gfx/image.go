package gfx

import (
	"fmt"
	"image"

	"github.com/hubastard/gosu/engine/bitmap"
)

// Image is a drawable picture. Copies of an *Image share the same image
// data, which stays on the GPU until Release.
type Image struct {
	g    *Graphics
	data Drawable
}

// NewImage uploads the whole of src.
func NewImage(g *Graphics, src *bitmap.Bitmap, flags ImageFlags) (*Image, error) {
	return NewImageFromRect(g, src, src.Bounds(), flags)
}

// NewImageFromRect uploads the r region of src.
func NewImageFromRect(g *Graphics, src *bitmap.Bitmap, r image.Rectangle, flags ImageFlags) (*Image, error) {
	d, err := g.CreateDrawable(src, r, flags)
	if err != nil {
		return nil, err
	}
	return &Image{g: g, data: d}, nil
}

// ImageFromDrawable wraps existing image data, such as a recording.
func ImageFromDrawable(g *Graphics, d Drawable) *Image {
	return &Image{g: g, data: d}
}

// LoadImage reads an image file (PNG, JPEG or BMP) and uploads it.
func LoadImage(g *Graphics, path string, flags ImageFlags) (*Image, error) {
	b, err := bitmap.Load(path)
	if err != nil {
		return nil, err
	}
	return NewImage(g, b, flags)
}

// LoadTiles cuts src into a grid of tiles, row by row. A negative tile size
// is a tile count instead: -4 splits that dimension into four tiles.
// Leftover pixels at the right and bottom are ignored.
func LoadTiles(g *Graphics, src *bitmap.Bitmap, tileW, tileH int, flags ImageFlags) ([]*Image, error) {
	if tileW < 0 {
		tileW = src.Width() / -tileW
	}
	if tileH < 0 {
		tileH = src.Height() / -tileH
	}
	if tileW <= 0 || tileH <= 0 || tileW > src.Width() || tileH > src.Height() {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrRegionOutOfBounds, tileW, tileH)
	}
	cols, rows := src.Width()/tileW, src.Height()/tileH
	tiles := make([]*Image, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r := image.Rect(x*tileW, y*tileH, (x+1)*tileW, (y+1)*tileH)
			img, err := NewImageFromRect(g, src, r, flags)
			if err != nil {
				for _, t := range tiles {
					t.Release()
				}
				return nil, fmt.Errorf("tile %d,%d: %w", x, y, err)
			}
			tiles = append(tiles, img)
		}
	}
	return tiles, nil
}

func (img *Image) Width() int  { return img.data.Width() }
func (img *Image) Height() int { return img.data.Height() }

// Data returns the image data behind img.
func (img *Image) Data() Drawable { return img.data }

// Draw draws img with its top-left corner at (x, y).
func (img *Image) Draw(x, y float64, z ZPos, opts ...DrawOption) {
	o := NewDrawOptions(opts...)
	w := float64(img.data.Width()) * o.ScaleX
	h := float64(img.data.Height()) * o.ScaleY
	img.data.Draw(img.g.Target(), RectQuad(x, y, w, h, o.Color), z, o.Blend)
}

// DrawRot draws img rotated by angle degrees (clockwise) around (x, y).
// The point of the image placed at (x, y) is chosen with WithCenter and
// defaults to the middle.
func (img *Image) DrawRot(x, y float64, z ZPos, angle float64, opts ...DrawOption) {
	o := NewDrawOptions(opts...)
	sizeX := float64(img.data.Width()) * o.ScaleX
	sizeY := float64(img.data.Height()) * o.ScaleY
	offX, offY := OffsetX(angle, 1), OffsetY(angle, 1)

	// Vectors from (x, y) to the centers of the rotated edges.
	leftX, leftY := offY*sizeX*o.CenterX, -offX*sizeX*o.CenterX
	rightX, rightY := -offY*sizeX*(1-o.CenterX), offX*sizeX*(1-o.CenterX)
	topX, topY := offX*sizeY*o.CenterY, offY*sizeY*o.CenterY
	bottomX, bottomY := -offX*sizeY*(1-o.CenterY), -offY*sizeY*(1-o.CenterY)

	c := o.Color
	img.data.Draw(img.g.Target(), Quad{
		{X: x + leftX + topX, Y: y + leftY + topY, Color: c},
		{X: x + rightX + topX, Y: y + rightY + topY, Color: c},
		{X: x + leftX + bottomX, Y: y + leftY + bottomY, Color: c},
		{X: x + rightX + bottomX, Y: y + rightY + bottomY, Color: c},
	}, z, o.Blend)
}

// DrawAsQuad maps img onto an arbitrary quad.
func (img *Image) DrawAsQuad(q Quad, z ZPos, mode BlendMode) {
	img.data.Draw(img.g.Target(), q, z, mode)
}

// Subimage returns a view of r within img that shares its texture space.
// Only images living on a single texture support it.
func (img *Image) Subimage(r image.Rectangle) (*Image, error) {
	c, ok := img.data.(*chunkDrawable)
	if !ok {
		return nil, fmt.Errorf("%w: %s image", ErrNoSubimage, img.data.Kind())
	}
	sub, err := c.subimage(r)
	if err != nil {
		return nil, err
	}
	return &Image{g: img.g, data: sub}, nil
}

// ToBitmap reads the image data back from the GPU.
func (img *Image) ToBitmap() (*bitmap.Bitmap, error) {
	return img.data.ToBitmap()
}

// Release frees the image data. Drawing img afterwards is undefined.
func (img *Image) Release() {
	img.data.Release()
}
