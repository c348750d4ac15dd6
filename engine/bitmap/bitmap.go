package bitmap

import (
	"image"

	"github.com/hubastard/gosu/engine/colors"
)

// Bitmap is a rectangular buffer of colors, row-major with a top-left origin.
type Bitmap struct {
	width, height int
	pixels        []colors.Color
}

func New(width, height int) *Bitmap {
	b := &Bitmap{}
	b.Resize(width, height)
	return b
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }

// Pixels exposes the backing slice; len == Width()*Height().
func (b *Bitmap) Pixels() []colors.Color { return b.pixels }

func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *Bitmap) Pixel(x, y int) colors.Color { return b.pixels[y*b.width+x] }

func (b *Bitmap) SetPixel(x, y int, c colors.Color) { b.pixels[y*b.width+x] = c }

// Resize changes the dimensions, keeping the overlapping top-left content and
// filling new pixels with colors.None.
func (b *Bitmap) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		return
	}
	next := make([]colors.Color, width*height)
	for y := 0; y < min(height, b.height); y++ {
		copy(next[y*width:y*width+min(width, b.width)], b.pixels[y*b.width:])
	}
	b.width, b.height, b.pixels = width, height, next
}

// Insert copies all of src into b with its top-left corner at (x, y).
func (b *Bitmap) Insert(src *Bitmap, x, y int) {
	b.InsertRect(src, x, y, src.Bounds())
}

// InsertRect copies the r region of src into b at (x, y). Parts that fall
// outside either bitmap are skipped.
func (b *Bitmap) InsertRect(src *Bitmap, x, y int, r image.Rectangle) {
	clipped := r.Intersect(src.Bounds())
	if clipped.Empty() {
		return
	}
	x += clipped.Min.X - r.Min.X
	y += clipped.Min.Y - r.Min.Y
	r = clipped
	dst := image.Rect(x, y, x+r.Dx(), y+r.Dy()).Intersect(b.Bounds())
	if dst.Empty() {
		return
	}
	sx := r.Min.X + dst.Min.X - x
	sy := r.Min.Y + dst.Min.Y - y
	for row := 0; row < dst.Dy(); row++ {
		from := (sy+row)*src.width + sx
		to := (dst.Min.Y+row)*b.width + dst.Min.X
		copy(b.pixels[to:to+dst.Dx()], src.pixels[from:from+dst.Dx()])
	}
}

// SubImage returns a copy of the r region.
func (b *Bitmap) SubImage(r image.Rectangle) *Bitmap {
	out := New(r.Dx(), r.Dy())
	out.InsertRect(b, 0, 0, r)
	return out
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{width: b.width, height: b.height, pixels: make([]colors.Color, len(b.pixels))}
	copy(out.pixels, b.pixels)
	return out
}
