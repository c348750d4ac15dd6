package gfx

import (
	"fmt"
	"math"
)

// ClipState describes the effective clipping of a queue.
type ClipState uint8

const (
	// ClipNone means no clip rectangle is active.
	ClipNone ClipState = iota
	// ClipActive means ops are clipped to the effective rectangle.
	ClipActive
	// ClipEverything means the nested rectangles do not intersect; pushed
	// ops are dropped.
	ClipEverything
)

// clipStack keeps the nested clip rectangles (in window points) and caches
// their intersection scaled to framebuffer pixels.
type clipStack struct {
	rects     []ClipRect
	scale     int
	effective ClipRect
	state     ClipState
}

func (s *clipStack) push(x, y, w, h float64) {
	left, top := int(math.Round(x)), int(math.Round(y))
	r := ClipRect{
		X:      left,
		Y:      top,
		Width:  int(math.Round(x+w)) - left,
		Height: int(math.Round(y+h)) - top,
	}
	s.rects = append(s.rects, r)
	s.update()
}

func (s *clipStack) pop() {
	if len(s.rects) == 0 {
		panic(fmt.Errorf("%w: end without begin", ErrUnbalancedClip))
	}
	s.rects = s.rects[:len(s.rects)-1]
	s.update()
}

func (s *clipStack) depth() int { return len(s.rects) }

func (s *clipStack) update() {
	if len(s.rects) == 0 {
		s.state = ClipNone
		return
	}
	left, top := math.MinInt, math.MinInt
	right, bottom := math.MaxInt, math.MaxInt
	for _, r := range s.rects {
		left = max(left, r.X)
		top = max(top, r.Y)
		right = min(right, r.X+r.Width)
		bottom = min(bottom, r.Y+r.Height)
		if left >= right || top >= bottom {
			s.state = ClipEverything
			return
		}
	}
	f := max(s.scale, 1)
	s.effective = ClipRect{X: left * f, Y: top * f, Width: (right - left) * f, Height: (bottom - top) * f}
	s.state = ClipActive
}
