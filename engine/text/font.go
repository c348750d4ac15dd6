package text

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/gfx"
)

// glyph is one character rendered as a white, alpha-covered image as tall as
// the line and as wide as its advance.
type glyph struct {
	img     *gfx.Image
	advance float64
	// left is where the image starts relative to the pen, negative for
	// glyphs that reach back past it.
	left    int
}

// Font draws text with per-character images that are created on first use.
type Font struct {
	g       *gfx.Graphics
	face    font.Face
	flags   gfx.ImageFlags
	height  int
	ascent  int
	descent int
	glyphs  map[rune]*glyph
}

// NewFont parses TrueType/OpenType data. height is the line height in
// pixels.
func NewFont(g *gfx.Graphics, ttf []byte, height int, flags gfx.ImageFlags) (*Font, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(height), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	m := face.Metrics()
	return &Font{
		g:       g,
		face:    face,
		flags:   flags,
		height:  m.Height.Ceil(),
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
		glyphs:  make(map[rune]*glyph),
	}, nil
}

// LoadFont reads a font file.
func LoadFont(g *gfx.Graphics, path string, height int, flags gfx.ImageFlags) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewFont(g, data, height, flags)
}

// DefaultFont uses the built-in Go Regular face.
func DefaultFont(g *gfx.Graphics, height int) (*Font, error) {
	return NewFont(g, goregular.TTF, height, gfx.Smooth)
}

// Height is the distance between two baselines.
func (f *Font) Height() int { return f.height }

// Ascent is the distance from the top of a line to its baseline.
func (f *Font) Ascent() int { return f.ascent }

// Glyphs returns how many characters have images so far.
func (f *Font) Glyphs() int { return len(f.glyphs) }

// Close releases the glyph images and the face.
func (f *Font) Close() error {
	for _, gl := range f.glyphs {
		if gl.img != nil {
			gl.img.Release()
		}
	}
	clear(f.glyphs)
	return f.face.Close()
}

func (f *Font) advance(r rune) float64 {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		adv, _ = f.face.GlyphAdvance(' ')
	}
	return fix(adv)
}

func (f *Font) kern(prev, r rune) float64 {
	if prev < 0 {
		return 0
	}
	return fix(f.face.Kern(prev, r))
}

// TextWidth measures the widest line of s, unscaled.
func (f *Font) TextWidth(s string) float64 {
	var width, line float64
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			width = max(width, line)
			line, prev = 0, -1
			continue
		}
		line += f.kern(prev, r) + f.advance(r)
		prev = r
	}
	return max(width, line)
}

// Draw draws s with its top-left corner at (x, y). Newlines start a new line
// one Height further down. Scale and color options apply to every
// character.
func (f *Font) Draw(s string, x, y float64, z gfx.ZPos, opts ...gfx.DrawOption) error {
	o := gfx.NewDrawOptions(opts...)
	penX, penY := x, y
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			penX = x
			penY += float64(f.height) * o.ScaleY
			prev = -1
			continue
		}
		penX += f.kern(prev, r) * o.ScaleX
		gl, err := f.glyph(r)
		if err != nil {
			return err
		}
		if gl.img != nil {
			gl.img.Draw(penX+float64(gl.left)*o.ScaleX, penY, z, opts...)
		}
		penX += gl.advance * o.ScaleX
		prev = r
	}
	return nil
}

func (f *Font) glyph(r rune) (*glyph, error) {
	if gl, ok := f.glyphs[r]; ok {
		return gl, nil
	}
	gl := &glyph{advance: f.advance(r)}
	b, left := f.renderGlyph(r)
	if b.Width() > 0 {
		img, err := gfx.NewImage(f.g, b, f.flags)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", r, err)
		}
		gl.img, gl.left = img, left
	}
	f.glyphs[r] = gl
	return gl, nil
}

func (f *Font) renderGlyph(r rune) (*bitmap.Bitmap, int) {
	bounds, adv, ok := f.face.GlyphBounds(r)
	if !ok {
		return bitmap.New(0, 0), 0
	}
	left := min(0, bounds.Min.X.Floor())
	w := max(adv.Ceil(), bounds.Max.X.Ceil()) - left
	if w <= 0 {
		return bitmap.New(0, 0), 0
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, f.height))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: f.face,
		Dot:  fixed.P(-left, f.ascent),
	}
	d.DrawString(string(r))
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			return bitmap.FromImage(dst), left
		}
	}
	return bitmap.New(0, 0), 0
}

func fix(v fixed.Int26_6) float64 { return float64(v) / 64 }
