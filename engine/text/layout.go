package text

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/gfx"
)

// Align positions wrapped lines inside the layout width.
type Align uint8

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
	// AlignJustify stretches the gaps of every line but the last one of a
	// paragraph to fill the width.
	AlignJustify
)

// Span is a word placed on a line, X relative to the line start.
type Span struct {
	Text  string
	X     float64
	Width float64
}

// Line is one laid-out line of text.
type Line struct {
	Spans []Span
	// Width is the extent from the first span's start to the last span's
	// end.
	Width float64
}

// Layout breaks s into lines no wider than width (0 disables wrapping) and
// positions the words according to align. Newlines start new paragraphs;
// runs of spaces collapse into one. A single word wider than width gets a
// line of its own.
func (f *Font) Layout(s string, width float64, align Align) []Line {
	space := f.advance(' ')
	var lines []Line
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, Line{})
			continue
		}

		var cur []Span
		natural := 0.0
		flush := func(last bool) {
			lines = append(lines, place(cur, natural, space, width, align, last))
			cur, natural = nil, 0
		}
		for _, w := range words {
			ww := f.TextWidth(w)
			next := ww
			if len(cur) > 0 {
				next = natural + space + ww
			}
			if width > 0 && len(cur) > 0 && next > width {
				flush(false)
				next = ww
			}
			cur = append(cur, Span{Text: w, Width: ww})
			natural = next
		}
		flush(true)
	}
	return lines
}

// place assigns X positions to the words of one line.
func place(words []Span, natural, space, width float64, align Align, last bool) Line {
	gap := space
	start := 0.0
	if width > 0 {
		switch align {
		case AlignRight:
			start = width - natural
		case AlignCenter:
			start = (width - natural) / 2
		case AlignJustify:
			if !last && len(words) > 1 {
				gap += (width - natural) / float64(len(words)-1)
			}
		}
	}
	x := start
	for i := range words {
		words[i].X = x
		x += words[i].Width + gap
	}
	return Line{Spans: words, Width: x - gap - start}
}

// RenderText rasterizes s into a bitmap of white text with alpha coverage,
// one Height per line. With width 0 the bitmap is as wide as the widest
// line.
func (f *Font) RenderText(s string, width int, align Align) *bitmap.Bitmap {
	lines := f.Layout(s, float64(width), align)
	w := width
	if w <= 0 {
		for _, l := range lines {
			w = max(w, int(l.Width+0.999))
		}
	}
	h := len(lines) * f.height
	if w <= 0 || h <= 0 {
		return bitmap.New(max(w, 0), max(h, 0))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{Dst: dst, Src: image.White, Face: f.face}
	for i, l := range lines {
		baseline := i*f.height + f.ascent
		for _, sp := range l.Spans {
			d.Dot = fixed.Point26_6{X: fixed.Int26_6(sp.X * 64), Y: fixed.I(baseline)}
			d.DrawString(sp.Text)
		}
	}
	return bitmap.FromImage(dst)
}

// TextImage renders s once into an image, which is cheaper to draw than
// Font.Draw for static text.
func (f *Font) TextImage(s string, width int, align Align, flags gfx.ImageFlags) (*gfx.Image, error) {
	return gfx.NewImage(f.g, f.RenderText(s, width, align), flags)
}
