package gfx

import (
	"cmp"
	"fmt"
	"slices"
)

type scheduledCode struct {
	z  ZPos
	fn func()
}

// FlushStats counts what one flush issued.
type FlushStats struct {
	Ops          int
	Batches      int
	CustomBlocks int
}

// DrawOpQueue collects the draw ops and custom code of one frame, recording
// or render target, and issues them in Z order. Ops with equal Z are issued
// in the order they were pushed.
type DrawOpQueue struct {
	ops      []DrawOp
	code     []scheduledCode
	clips    clipStack
	dropped  int
	flushing bool
}

// NewDrawOpQueue creates an empty queue. clipScale converts clip rectangles
// from window points to framebuffer pixels.
func NewDrawOpQueue(clipScale int) *DrawOpQueue {
	return &DrawOpQueue{clips: clipStack{scale: clipScale}}
}

// Len returns the number of pending ops.
func (q *DrawOpQueue) Len() int { return len(q.ops) }

// Scheduled returns the number of pending custom code blocks.
func (q *DrawOpQueue) Scheduled() int { return len(q.code) }

// Dropped returns how many ops were discarded as fully clipped since the
// last flush.
func (q *DrawOpQueue) Dropped() int { return q.dropped }

// Push stamps op with the effective clip rectangle and appends it. Ops pushed
// while the clip stack has clipped everything away are dropped; Push reports
// whether op was kept.
func (q *DrawOpQueue) Push(op DrawOp) bool {
	q.mustNotFlush()
	switch q.clips.state {
	case ClipEverything:
		q.dropped++
		return false
	case ClipActive:
		op.clipped, op.clip = true, q.clips.effective
	default:
		op.clipped, op.clip = false, ClipRect{}
	}
	q.ops = append(q.ops, op)
	return true
}

// Schedule runs fn during the flush, after every op with a lower Z and before
// every op with an equal or higher Z. Blocks with equal Z run in the order
// they were scheduled.
func (q *DrawOpQueue) Schedule(z ZPos, fn func()) {
	q.mustNotFlush()
	q.code = append(q.code, scheduledCode{z: z, fn: fn})
}

// BeginClip pushes a clip rectangle in window points.
func (q *DrawOpQueue) BeginClip(x, y, width, height float64) {
	q.mustNotFlush()
	q.clips.push(x, y, width, height)
}

// EndClip pops the most recent clip rectangle. Calling it without a matching
// BeginClip panics.
func (q *DrawOpQueue) EndClip() {
	q.mustNotFlush()
	q.clips.pop()
}

// EffectiveClip returns the intersection of all clip rectangles in
// framebuffer pixels; the rectangle is only meaningful for ClipActive.
func (q *DrawOpQueue) EffectiveClip() (ClipRect, ClipState) {
	return q.clips.effective, q.clips.state
}

// ClipDepth returns the number of unmatched BeginClip calls.
func (q *DrawOpQueue) ClipDepth() int { return q.clips.depth() }

// Flush sorts the pending ops by Z, issues them to dev interleaved with the
// scheduled code, and clears the queue.
func (q *DrawOpQueue) Flush(dev Device) FlushStats {
	q.mustNotFlush()
	q.flushing = true
	defer func() {
		q.flushing = false
		q.Reset()
	}()

	var st FlushStats
	q.sort()
	ops := q.ops
	for _, c := range q.code {
		n := 0
		for n < len(ops) && ops[n].z < c.z {
			n++
		}
		q.issue(dev, ops[:n], &st)
		ops = ops[n:]
		dev.RunCustom(c.fn)
		st.CustomBlocks++
	}
	q.issue(dev, ops, &st)
	return st
}

// Reset discards pending ops and code. The clip stack is kept.
func (q *DrawOpQueue) Reset() {
	clear(q.ops)
	q.ops = q.ops[:0]
	clear(q.code)
	q.code = q.code[:0]
	q.dropped = 0
}

// compile returns the pending ops in issue order for a macro. Custom code
// cannot be replayed, so its presence panics.
func (q *DrawOpQueue) compile() []DrawOp {
	if len(q.code) > 0 {
		panic(fmt.Errorf("%w: %d block(s) pending", ErrCodeInRecording, len(q.code)))
	}
	q.sort()
	return slices.Clone(q.ops)
}

func (q *DrawOpQueue) sort() {
	slices.SortStableFunc(q.ops, func(a, b DrawOp) int { return cmp.Compare(a.z, b.z) })
	slices.SortStableFunc(q.code, func(a, b scheduledCode) int { return cmp.Compare(a.z, b.z) })
}

func (q *DrawOpQueue) issue(dev Device, ops []DrawOp, st *FlushStats) {
	for i := range ops {
		var next *DrawOp
		if i+1 < len(ops) {
			next = &ops[i+1]
		}
		ops[i].perform(dev, next)
		if next == nil || !ops[i].batchesWith(next) {
			st.Batches++
		}
	}
	st.Ops += len(ops)
}

func (q *DrawOpQueue) mustNotFlush() {
	if q.flushing {
		panic(ErrQueueBusy)
	}
}
