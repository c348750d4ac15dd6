package gfx

import (
	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
)

// macroDrawable replays the ops captured by Graphics.Record. Its ops are in
// issue order and in recording coordinates; it holds a reference on every
// texture they sample.
type macroDrawable struct {
	g        *Graphics
	w, h     int
	ops      []DrawOp
	textures []*Texture
	released bool
}

func newMacro(g *Graphics, w, h int, ops []DrawOp) *macroDrawable {
	m := &macroDrawable{g: g, w: w, h: h, ops: ops}
	seen := make(map[*Texture]bool)
	for i := range ops {
		// Z and clip are decided again when the macro is drawn.
		ops[i].z = 0
		ops[i].clipped, ops[i].clip = false, ClipRect{}
		if t := ops[i].texture; t != nil && !seen[t] {
			seen[t] = true
			t.retain()
			m.textures = append(m.textures, t)
		}
	}
	return m
}

func (m *macroDrawable) Kind() DrawableKind               { return KindMacro }
func (m *macroDrawable) Width() int                       { return m.w }
func (m *macroDrawable) Height() int                      { return m.h }
func (m *macroDrawable) TextureInfo() (TextureInfo, bool) { return TextureInfo{}, false }
func (m *macroDrawable) sealed()                          {}

// Ops returns the number of recorded primitives.
func (m *macroDrawable) Ops() int { return len(m.ops) }

// Draw maps the recorded (0,0)-(w,h) area onto q. Vertex colors are
// modulated by q's interpolated corner colors. BlendAdditive forces additive
// blending; BlendDefault keeps each op's recorded mode.
func (m *macroDrawable) Draw(t *Target, q Quad, z ZPos, mode BlendMode) {
	if m.released || m.w == 0 || m.h == 0 {
		return
	}
	qm := newQuadMap(float64(m.w), float64(m.h), q)
	tinted := q[0].Color != colors.White || q[1].Color != colors.White ||
		q[2].Color != colors.White || q[3].Color != colors.White

	for i := range m.ops {
		op := &m.ops[i]
		var verts [4]Vertex
		for k := 0; k < op.count; k++ {
			v := op.vertices[k]
			x, y, u, vv := qm.apply(v.X, v.Y)
			v.X, v.Y = x, y
			if tinted {
				v.Color = v.Color.Multiply(q.lerp(u, vv).Color)
			}
			verts[k] = v
		}
		blend := op.blend
		if mode == BlendAdditive {
			blend = BlendAdditive
		}
		t.pushVertices(op.count, verts, op.texture, z, blend)
	}
}

func (m *macroDrawable) ToBitmap() (*bitmap.Bitmap, error) {
	return renderDrawable(m.g, m)
}

func (m *macroDrawable) Release() {
	if m.released {
		return
	}
	m.released = true
	for _, t := range m.textures {
		t.release()
	}
	m.textures = nil
	m.ops = nil
}
