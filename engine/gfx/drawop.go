package gfx

// ZPos orders draw operations; higher values are drawn later, on top.
type ZPos = float64

// DrawOp is one queued primitive: up to four vertices, an optional texture,
// a blend mode, the clip rectangle in effect when it was pushed, and its Z.
// It is not modified after it is built.
type DrawOp struct {
	count    int
	vertices [4]Vertex
	texture  *Texture
	blend    BlendMode
	clipped  bool
	clip     ClipRect
	z        ZPos
}

func (op *DrawOp) Z() ZPos                { return op.z }
func (op *DrawOp) VertexCount() int       { return op.count }
func (op *DrawOp) Vertex(i int) Vertex    { return op.vertices[i] }
func (op *DrawOp) Blend() BlendMode       { return op.blend }
func (op *DrawOp) Texture() *Texture      { return op.texture }
func (op *DrawOp) Clip() (ClipRect, bool) { return op.clip, op.clipped }

func (op *DrawOp) primitive() Primitive {
	p := Primitive{
		Count:    op.count,
		Vertices: op.vertices,
		Blend:    op.blend,
		Clipped:  op.clipped,
		Clip:     op.clip,
	}
	if op.texture != nil {
		p.Texture = op.texture.dev
	}
	return p
}

// batchesWith reports whether the device can keep accumulating next into the
// same batch as op.
func (op *DrawOp) batchesWith(next *DrawOp) bool {
	return next.texture == op.texture &&
		next.blend == op.blend &&
		next.clipped == op.clipped &&
		next.clip == op.clip &&
		(next.count == 2) == (op.count == 2)
}

// perform issues op; next is the op issued right after it in the same span,
// or nil.
func (op *DrawOp) perform(dev Device, next *DrawOp) {
	p := op.primitive()
	dev.Draw(&p, next == nil || !op.batchesWith(next))
}
