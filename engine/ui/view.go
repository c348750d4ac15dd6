package ui

import (
	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
)

type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

type LayoutDirection int

const (
	LayoutHorizontal LayoutDirection = iota
	LayoutVertical
)

// UIView stacks its children along one axis.
type UIView struct {
	Common[*UIView]
	gap        float64
	mainAlign  Align
	crossAlign Align
	flow       LayoutDirection
}

func View(children ...UIElement) *UIView {
	v := &UIView{
		gap:        10,
		mainAlign:  AlignStart,
		crossAlign: AlignStart,
	}
	v.Common = NewCommon(v)
	return v.Children(children...)
}

func (l *UIView) BgColor(color colors.Color) *UIView              { l.base.color = color; return l }
func (l *UIView) FlowDirection(direction LayoutDirection) *UIView { l.flow = direction; return l }
func (l *UIView) Gap(g float64) *UIView                           { l.gap = g; return l }
func (l *UIView) AlignMain(a Align) *UIView                       { l.mainAlign = a; return l }
func (l *UIView) AlignCross(a Align) *UIView                      { l.crossAlign = a; return l }

func (l *UIView) mode(axis int) SizeMode {
	if axis == 0 {
		return l.base.widthMod
	}
	return l.base.heightMod
}

func (l *UIView) fixed(axis int) float64 {
	if axis == 0 {
		return l.base.widthVal
	}
	return l.base.heightVal
}

func childMode(b *Base, axis int) SizeMode {
	if axis == 0 {
		return b.widthMod
	}
	return b.heightMod
}

func (l *UIView) Layout(ctx *Context, constraints Constraints) LayoutResult {
	main := int(l.flow) // 0 = x, 1 = y
	cross := 1 - main
	pad := l.base.Padding()
	padding := func(axis int) float64 { return pad[axis] + pad[axis+2] }

	var innerMax [2]float64
	for axis := range 2 {
		innerMax[axis] = max(0, resolveConstraint(constraints.Max[axis])-padding(axis))
	}

	children := l.base.children
	sizes := make([][2]float64, len(children))
	var mainSum, maxCross float64
	expandCount := 0
	childConstraints := Constraints{Max: innerMax}
	for i, child := range children {
		sizes[i] = child.Layout(ctx, childConstraints).Size
		if childMode(child.Node(), main) == SizeModeExpand {
			sizes[i][main] = 0
			expandCount++
		}
		if childMode(child.Node(), cross) == SizeModeExpand {
			sizes[i][cross] = 0
		}
		mainSum += sizes[i][main]
		maxCross = max(maxCross, sizes[i][cross])
	}
	gapTotal := 0.0
	if len(children) > 1 {
		gapTotal = l.gap * float64(len(children)-1)
	}

	var outer [2]float64
	outer[main] = l.base.resolveAxis(l.mode(main), l.fixed(main), mainSum+gapTotal+padding(main),
		constraints.Min[main], constraints.Max[main])
	outer[cross] = l.base.resolveAxis(l.mode(cross), l.fixed(cross), maxCross+padding(cross),
		constraints.Min[cross], constraints.Max[cross])
	l.base.SetSize(outer[0], outer[1])
	innerMain := max(0, outer[main]-padding(main))
	innerCross := max(0, outer[cross]-padding(cross))

	// Extra space along the main axis goes to expanding children.
	remaining := max(0, innerMain-mainSum-gapTotal)
	if expandCount > 0 {
		share := remaining / float64(expandCount)
		for i, child := range children {
			if childMode(child.Node(), main) == SizeModeExpand {
				sizes[i][main] += share
			}
		}
		remaining = 0
	}

	cursor := 0.0
	switch l.mainAlign {
	case AlignCenter:
		cursor = remaining / 2
	case AlignEnd:
		cursor = remaining
	}

	var origin [2]float64
	origin[0], origin[1] = l.base.innerPosition()
	for i, child := range children {
		size := sizes[i]
		node := child.Node()
		if l.crossAlign == AlignStretch || childMode(node, cross) == SizeModeExpand {
			size[cross] = innerCross
		}
		size[cross] = clamp(size[cross], 0, innerCross)

		var pos [2]float64
		pos[main] = origin[main] + cursor
		pos[cross] = origin[cross]
		switch l.crossAlign {
		case AlignCenter:
			pos[cross] += (innerCross - size[cross]) / 2
		case AlignEnd:
			pos[cross] += innerCross - size[cross]
		}
		node.SetPos(pos[0], pos[1])
		node.SetSize(size[0], size[1])
		// Children lay out their own descendants relative to their
		// final position.
		child.Layout(ctx, Constraints{Min: size, Max: size})
		cursor += size[main] + l.gap
	}

	return LayoutResult{Size: l.base.size}
}

func (l *UIView) Draw(ctx *Context) {
	if l.base.parent == nil {
		l.base.SetPos(ctx.Viewport[0], ctx.Viewport[1])
		l.Layout(ctx, Constraints{Max: [2]float64{ctx.Viewport[2], ctx.Viewport[3]}})
	}

	if l.base.color.Alpha() > 0 {
		x, y := l.base.Pos()
		w, h := l.base.Size()
		ctx.Graphics.DrawRect(x, y, w, h, l.base.color, ctx.Z, gfx.BlendDefault)
	}

	for _, c := range l.base.children {
		c.Draw(ctx)
	}
}
