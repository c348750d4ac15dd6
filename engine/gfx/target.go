package gfx

import (
	"fmt"
	"math"

	"github.com/hubastard/gosu/engine/colors"
)

// Target is where draw calls go: a queue plus the transform stack applied to
// everything pushed onto it. The frame, each recording and each offscreen
// render get their own Target.
type Target struct {
	queue      *DrawOpQueue
	transforms []Transform
	recording  bool
}

func newTarget(clipScale int, base Transform, recording bool) *Target {
	return &Target{
		queue:      NewDrawOpQueue(clipScale),
		transforms: []Transform{base},
		recording:  recording,
	}
}

// reset prepares a reused target for the next frame.
func (t *Target) reset(base Transform, clipScale int) {
	t.queue.Reset()
	t.queue.clips.scale = clipScale
	t.transforms = append(t.transforms[:0], base)
}

// Queue exposes the underlying draw-op queue.
func (t *Target) Queue() *DrawOpQueue { return t.queue }

// Recording reports whether t captures a macro.
func (t *Target) Recording() bool { return t.recording }

// Current is the composed transform applied to pushed vertices.
func (t *Target) Current() Transform { return t.transforms[len(t.transforms)-1] }

// PushTransform applies m before everything already on the stack.
func (t *Target) PushTransform(m Transform) {
	t.transforms = append(t.transforms, m.Then(t.Current()))
}

// PopTransform undoes the latest PushTransform.
func (t *Target) PopTransform() {
	if len(t.transforms) <= 1 {
		panic(fmt.Errorf("%w: pop without push", ErrUnbalancedTransform))
	}
	t.transforms = t.transforms[:len(t.transforms)-1]
}

// BeginClip clips to the rectangle (x, y, w, h) in the current coordinate
// system. Under rotation the clip is the transformed rectangle's bounding
// box.
func (t *Target) BeginClip(x, y, w, h float64) {
	cur := t.Current()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		px, py := cur.Apply(p[0], p[1])
		minX, maxX = min(minX, px), max(maxX, px)
		minY, maxY = min(minY, py), max(maxY, py)
	}
	t.queue.BeginClip(minX, minY, maxX-minX, maxY-minY)
}

func (t *Target) EndClip() { t.queue.EndClip() }

// Schedule queues custom graphics code at z. Recordings cannot replay code,
// so scheduling on a recording target panics.
func (t *Target) Schedule(z ZPos, fn func()) {
	if t.recording {
		panic(ErrCodeInRecording)
	}
	t.queue.Schedule(z, fn)
}

func (t *Target) DrawLine(x1, y1 float64, c1 colors.Color, x2, y2 float64, c2 colors.Color, z ZPos, mode BlendMode) {
	t.pushVertices(2, [4]Vertex{
		{X: x1, Y: y1, Color: c1},
		{X: x2, Y: y2, Color: c2},
	}, nil, z, mode)
}

func (t *Target) DrawTriangle(a, b, c Corner, z ZPos, mode BlendMode) {
	t.pushVertices(3, [4]Vertex{
		{X: a.X, Y: a.Y, Color: a.Color},
		{X: b.X, Y: b.Y, Color: b.Color},
		{X: c.X, Y: c.Y, Color: c.Color},
	}, nil, z, mode)
}

func (t *Target) DrawQuad(q Quad, z ZPos, mode BlendMode) {
	var verts [4]Vertex
	for i, c := range q {
		verts[i] = Vertex{X: c.X, Y: c.Y, Color: c.Color}
	}
	t.pushVertices(4, verts, nil, z, mode)
}

func (t *Target) drawTextured(q Quad, tex *Texture, uv uvRect, z ZPos, mode BlendMode) {
	t.pushVertices(4, [4]Vertex{
		{X: q[0].X, Y: q[0].Y, U: uv.Left, V: uv.Top, Color: q[0].Color},
		{X: q[1].X, Y: q[1].Y, U: uv.Right, V: uv.Top, Color: q[1].Color},
		{X: q[2].X, Y: q[2].Y, U: uv.Left, V: uv.Bottom, Color: q[2].Color},
		{X: q[3].X, Y: q[3].Y, U: uv.Right, V: uv.Bottom, Color: q[3].Color},
	}, tex, z, mode)
}

// pushVertices transforms the first count vertices and queues them as one op.
func (t *Target) pushVertices(count int, verts [4]Vertex, tex *Texture, z ZPos, mode BlendMode) {
	cur := t.Current()
	for i := 0; i < count; i++ {
		verts[i].X, verts[i].Y = cur.Apply(verts[i].X, verts[i].Y)
	}
	t.queue.Push(DrawOp{
		count:    count,
		vertices: verts,
		texture:  tex,
		blend:    mode,
		z:        z,
	})
}
