// Package ui lays out and draws simple overlay panels: nested views with
// padding and flow direction, and text labels.
package ui

import (
	"math"

	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/text"
)

type SizeMode int

const (
	SizeModeFit SizeMode = iota
	SizeModeFixed
	SizeModeExpand
)

// Constraints bound the size of an element. A zero maximum is unbounded.
type Constraints struct {
	Min [2]float64
	Max [2]float64
}

type LayoutResult struct {
	Size [2]float64
}

// Context carries what elements need to lay out and draw themselves.
type Context struct {
	Graphics    *gfx.Graphics
	Viewport    [4]float64 // x, y, width, height
	DefaultFont *text.Font
	Z           gfx.ZPos
}

type UIElement interface {
	Node() *Base
	Layout(ctx *Context, constraints Constraints) LayoutResult
	Draw(ctx *Context)
}

type Base struct {
	parent    UIElement
	children  []UIElement
	position  [2]float64
	size      [2]float64
	color     colors.Color
	widthMod  SizeMode
	heightMod SizeMode
	widthVal  float64
	heightVal float64
	padding   [4]float64 // left, top, right, bottom
}

func (b *Base) Parent() UIElement       { return b.parent }
func (b *Base) Children() []UIElement   { return b.children }
func (b *Base) Pos() (x, y float64)     { return b.position[0], b.position[1] }
func (b *Base) Size() (w, h float64)    { return b.size[0], b.size[1] }
func (b *Base) SetPos(x, y float64)     { b.position = [2]float64{x, y} }
func (b *Base) SetSize(w, h float64)    { b.size = [2]float64{w, h} }
func (b *Base) SetColor(c colors.Color) { b.color = c }
func (b *Base) Padding() [4]float64     { return b.padding }
func (b *Base) SetPadding(l, t, r, btm float64) {
	b.padding = [4]float64{l, t, r, btm}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func resolveConstraint(limit float64) float64 {
	if limit == 0 {
		return math.MaxFloat64
	}
	return limit
}

func (b *Base) resolveAxis(mode SizeMode, fixed, content, lo, hi float64) float64 {
	switch mode {
	case SizeModeFixed:
		if fixed > 0 {
			return clamp(fixed, lo, resolveConstraint(hi))
		}
		return clamp(content, lo, resolveConstraint(hi))
	case SizeModeExpand:
		return clamp(resolveConstraint(hi), lo, resolveConstraint(hi))
	default:
		return clamp(content, lo, resolveConstraint(hi))
	}
}

func (b *Base) innerPosition() (float64, float64) {
	return b.position[0] + b.padding[0], b.position[1] + b.padding[1]
}

// ------ Helper ------

// Common implements the chainable setters shared by all elements.
type Common[T any] struct {
	owner T
	base  Base
}

func NewCommon[T any](owner T) Common[T] {
	return Common[T]{owner: owner}
}

func (c *Common[T]) Node() *Base              { return &c.base }
func (c *Common[T]) Position(x, y float64) T  { c.base.SetPos(x, y); return c.owner }
func (c *Common[T]) Color(col colors.Color) T { c.base.SetColor(col); return c.owner }

func (c *Common[T]) WidthFit() T {
	c.base.widthMod = SizeModeFit
	return c.owner
}

func (c *Common[T]) WidthFixed(width float64) T {
	c.base.widthMod = SizeModeFixed
	c.base.widthVal = width
	return c.owner
}

func (c *Common[T]) WidthExpand() T {
	c.base.widthMod = SizeModeExpand
	return c.owner
}

func (c *Common[T]) HeightFit() T {
	c.base.heightMod = SizeModeFit
	return c.owner
}

func (c *Common[T]) HeightFixed(height float64) T {
	c.base.heightMod = SizeModeFixed
	c.base.heightVal = height
	return c.owner
}

func (c *Common[T]) HeightExpand() T {
	c.base.heightMod = SizeModeExpand
	return c.owner
}

func (c *Common[T]) Padding(all float64) T {
	c.base.SetPadding(all, all, all, all)
	return c.owner
}

func (c *Common[T]) Padding2(horizontal, vertical float64) T {
	c.base.SetPadding(horizontal, vertical, horizontal, vertical)
	return c.owner
}

func (c *Common[T]) Padding4(left, top, right, bottom float64) T {
	c.base.SetPadding(left, top, right, bottom)
	return c.owner
}

func (c *Common[T]) Children(kids ...UIElement) T {
	c.base.children = append(c.base.children, kids...)
	for _, k := range kids {
		k.Node().parent = any(c.owner).(UIElement)
	}
	return c.owner
}
