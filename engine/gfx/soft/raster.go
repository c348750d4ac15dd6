package soft

import (
	"math"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
)

type rect struct{ x0, y0, x1, y1 int }

func (r rect) intersect(o rect) rect {
	return rect{max(r.x0, o.x0), max(r.y0, o.y0), min(r.x1, o.x1), min(r.y1, o.y1)}
}

// rgba is a color with channels in [0..1].
type rgba struct{ r, g, b, a float64 }

func toRGBA(c colors.Color) rgba {
	return rgba{float64(c.Red()) / 255, float64(c.Green()) / 255, float64(c.Blue()) / 255, float64(c.Alpha()) / 255}
}

func (c rgba) mul(o rgba) rgba { return rgba{c.r * o.r, c.g * o.g, c.b * o.b, c.a * o.a} }

func (c rgba) scale(f float64) rgba { return rgba{c.r * f, c.g * f, c.b * f, c.a * f} }

func (c rgba) add(o rgba) rgba { return rgba{c.r + o.r, c.g + o.g, c.b + o.b, c.a + o.a} }

type surface struct {
	w, h int
	pix  []byte
}

func newSurface(w, h int) *surface {
	return &surface{w: w, h: h, pix: make([]byte, w*h*4)}
}

func (s *surface) fill(c colors.Color) {
	for i := 0; i < len(s.pix); i += 4 {
		s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3] = c.Red(), c.Green(), c.Blue(), c.Alpha()
	}
}

func (s *surface) bitmap() *bitmap.Bitmap {
	b := bitmap.New(s.w, s.h)
	px := b.Pixels()
	for i := range px {
		px[i] = colors.RGBA(s.pix[i*4], s.pix[i*4+1], s.pix[i*4+2], s.pix[i*4+3])
	}
	return b
}

func to8(v float64) byte {
	return byte(math.Round(min(max(v, 0), 1) * 255))
}

// blend writes src over the pixel at (x, y). Default mode is
// (SRC_ALPHA, ONE_MINUS_SRC_ALPHA) for color and (ONE, ONE_MINUS_SRC_ALPHA)
// for alpha; additive is (SRC_ALPHA, ONE).
func (s *surface) blend(x, y int, src rgba, mode gfx.BlendMode) {
	i := (y*s.w + x) * 4
	dst := rgba{float64(s.pix[i]) / 255, float64(s.pix[i+1]) / 255, float64(s.pix[i+2]) / 255, float64(s.pix[i+3]) / 255}
	var out rgba
	switch mode {
	case gfx.BlendAdditive:
		out = dst.add(src.scale(src.a))
		out.a = dst.a + src.a*src.a
	default:
		out = src.scale(src.a).add(dst.scale(1 - src.a))
		out.a = src.a + dst.a*(1-src.a)
	}
	s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3] = to8(out.r), to8(out.g), to8(out.b), to8(out.a)
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether pixels exactly on edge a->b belong to the
// triangle, for clockwise (on screen) winding.
func topLeft(a, b gfx.Vertex) bool {
	return (a.Y == b.Y && b.X > a.X) || b.Y < a.Y
}

func (s *surface) triangle(v0, v1, v2 gfx.Vertex, tex *Texture, clip rect, mode gfx.BlendMode) {
	area := edge(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	box := rect{
		int(math.Floor(min(v0.X, v1.X, v2.X))),
		int(math.Floor(min(v0.Y, v1.Y, v2.Y))),
		int(math.Ceil(max(v0.X, v1.X, v2.X))),
		int(math.Ceil(max(v0.Y, v1.Y, v2.Y))),
	}.intersect(clip)

	c0, c1, c2 := toRGBA(v0.Color), toRGBA(v1.Color), toRGBA(v2.Color)
	tl0, tl1, tl2 := topLeft(v1, v2), topLeft(v2, v0), topLeft(v0, v1)

	for y := box.y0; y < box.y1; y++ {
		py := float64(y) + 0.5
		for x := box.x0; x < box.x1; x++ {
			px := float64(x) + 0.5
			w0 := edge(v1.X, v1.Y, v2.X, v2.Y, px, py)
			w1 := edge(v2.X, v2.Y, v0.X, v0.Y, px, py)
			w2 := edge(v0.X, v0.Y, v1.X, v1.Y, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 ||
				(w0 == 0 && !tl0) || (w1 == 0 && !tl1) || (w2 == 0 && !tl2) {
				continue
			}
			l0, l1, l2 := w0/area, w1/area, w2/area
			c := c0.scale(l0).add(c1.scale(l1)).add(c2.scale(l2))
			if tex != nil {
				u := v0.U*l0 + v1.U*l1 + v2.U*l2
				v := v0.V*l0 + v1.V*l1 + v2.V*l2
				c = tex.sample(u, v).mul(c)
			}
			s.blend(x, y, c, mode)
		}
	}
}

// line plots one pixel per step along the major axis.
func (s *surface) line(a, b gfx.Vertex, clip rect, mode gfx.BlendMode) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy))))
	ca, cb := toRGBA(a.Color), toRGBA(b.Color)
	for i := 0; i < steps; i++ {
		t := (float64(i) + 0.5) / float64(steps)
		x := int(math.Floor(a.X + dx*t))
		y := int(math.Floor(a.Y + dy*t))
		if x < clip.x0 || x >= clip.x1 || y < clip.y0 || y >= clip.y1 {
			continue
		}
		s.blend(x, y, ca.scale(1-t).add(cb.scale(t)), mode)
	}
}

func (t *Texture) texel(x, y int) rgba {
	x = min(max(x, 0), t.size-1)
	y = min(max(y, 0), t.size-1)
	i := (y*t.size + x) * 4
	return rgba{float64(t.pix[i]) / 255, float64(t.pix[i+1]) / 255, float64(t.pix[i+2]) / 255, float64(t.pix[i+3]) / 255}
}

// sample reads the texture at normalized (u, v), nearest for retro textures
// and bilinear otherwise, clamping at the edges.
func (t *Texture) sample(u, v float64) rgba {
	fx, fy := u*float64(t.size), v*float64(t.size)
	if t.retro {
		return t.texel(int(math.Floor(fx)), int(math.Floor(fy)))
	}
	fx, fy = fx-0.5, fy-0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	ax, ay := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	top := t.texel(ix, iy).scale(1 - ax).add(t.texel(ix+1, iy).scale(ax))
	bottom := t.texel(ix, iy+1).scale(1 - ax).add(t.texel(ix+1, iy+1).scale(ax))
	return top.scale(1 - ay).add(bottom.scale(ay))
}
