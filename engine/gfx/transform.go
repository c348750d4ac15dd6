package gfx

import "math"

// Transform is a 2D affine matrix stored as {a, b, c, d, e, f}, mapping
// (x, y) to (a*x + c*y + e, b*x + d*y + f).
type Transform [6]float64

func Identity() Transform { return Transform{1, 0, 0, 1, 0, 0} }

func Translate(x, y float64) Transform { return Transform{1, 0, 0, 1, x, y} }

func Scale(sx, sy float64) Transform { return Transform{sx, 0, 0, sy, 0, 0} }

// ScaleAround scales relative to the point (cx, cy).
func ScaleAround(sx, sy, cx, cy float64) Transform {
	return Translate(-cx, -cy).Then(Scale(sx, sy)).Then(Translate(cx, cy))
}

// Rotate turns by angle degrees, clockwise on a y-down screen.
func Rotate(angle float64) Transform {
	s, c := math.Sincos(angle * math.Pi / 180)
	return Transform{c, s, -s, c, 0, 0}
}

// RotateAround rotates by angle degrees around (cx, cy).
func RotateAround(angle, cx, cy float64) Transform {
	return Translate(-cx, -cy).Then(Rotate(angle)).Then(Translate(cx, cy))
}

// Apply maps a point.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// Then returns the transform that applies t first and o second.
func (t Transform) Then(o Transform) Transform {
	return Transform{
		o[0]*t[0] + o[2]*t[1],
		o[1]*t[0] + o[3]*t[1],
		o[0]*t[2] + o[2]*t[3],
		o[1]*t[2] + o[3]*t[3],
		o[0]*t[4] + o[2]*t[5] + o[4],
		o[1]*t[4] + o[3]*t[5] + o[5],
	}
}

// Invert returns the inverse transform; ok is false for singular matrices.
func (t Transform) Invert() (Transform, bool) {
	det := t[0]*t[3] - t[1]*t[2]
	if det == 0 {
		return Transform{}, false
	}
	inv := 1 / det
	a, b, c, d := t[3]*inv, -t[1]*inv, -t[2]*inv, t[0]*inv
	return Transform{a, b, c, d, -(a*t[4] + c*t[5]), -(b*t[4] + d*t[5])}, true
}

// OffsetX is the horizontal part of a radius-long vector pointing at angle
// degrees, where 0 points up and angles grow clockwise.
func OffsetX(angle, radius float64) float64 {
	return math.Sin(angle*math.Pi/180) * radius
}

// OffsetY is the vertical counterpart of OffsetX.
func OffsetY(angle, radius float64) float64 {
	return -math.Cos(angle*math.Pi/180) * radius
}

// quadMap maps the rectangle (0,0)-(w,h) onto an arbitrary quad. It is
// affine when the quad is a parallelogram and projective otherwise.
type quadMap struct {
	w, h             float64
	a, b, c, d, e, f float64
	g, k             float64
}

func newQuadMap(w, h float64, q Quad) quadMap {
	// Unit square corners: p0=(0,0) TL, p1=(1,0) TR, p2=(1,1) BR, p3=(0,1) BL.
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[3].X, q[3].Y
	x3, y3 := q[2].X, q[2].Y

	m := quadMap{w: w, h: h}
	sx := x0 - x1 + x2 - x3
	sy := y0 - y1 + y2 - y3
	den := (x1-x2)*(y3-y2) - (x3-x2)*(y1-y2)
	if (sx == 0 && sy == 0) || den == 0 {
		m.a, m.b, m.c = x1-x0, x3-x0, x0
		m.d, m.e, m.f = y1-y0, y3-y0, y0
		return m
	}
	m.g = (sx*(y3-y2) - (x3-x2)*sy) / den
	m.k = ((x1-x2)*sy - sx*(y1-y2)) / den
	m.a, m.b, m.c = x1-x0+m.g*x1, x3-x0+m.k*x3, x0
	m.d, m.e, m.f = y1-y0+m.g*y1, y3-y0+m.k*y3, y0
	return m
}

// apply maps (x, y) in rectangle space and also returns the normalized
// (u, v) used to interpolate corner colors.
func (m quadMap) apply(x, y float64) (px, py, u, v float64) {
	u, v = x/m.w, y/m.h
	den := m.g*u + m.k*v + 1
	px = (m.a*u + m.b*v + m.c) / den
	py = (m.d*u + m.e*v + m.f) / den
	return px, py, u, v
}
