package ui

import (
	"math"

	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/text"
)

type UILabel struct {
	Common[*UILabel]
	text     string
	font     *text.Font
	wrap     bool
	align    text.Align
	maxWidth float64
	lines    []text.Line
}

func Label(str string) *UILabel {
	l := &UILabel{text: str}
	l.Common = NewCommon(l)
	l.base.color = colors.White
	return l
}

func (l *UILabel) Font(font *text.Font) *UILabel { l.font = font; return l }
func (l *UILabel) Wrap(enabled bool) *UILabel    { l.wrap = enabled; return l }
func (l *UILabel) Align(a text.Align) *UILabel   { l.align = a; return l }
func (l *UILabel) MaxWidth(width float64) *UILabel {
	l.maxWidth = width
	if width > 0 {
		l.wrap = true
	}
	return l
}

func (l *UILabel) Layout(ctx *Context, constraints Constraints) LayoutResult {
	if l.font == nil {
		l.font = ctx.DefaultFont
	}
	if l.font == nil {
		return LayoutResult{}
	}

	padding := l.base.Padding()
	limit := 0.0
	if l.wrap {
		limit = resolveConstraint(constraints.Max[0])
		if limit == math.MaxFloat64 {
			limit = 0
		}
		if l.maxWidth > 0 && (limit == 0 || l.maxWidth < limit) {
			limit = l.maxWidth
		}
		if limit > 0 {
			limit = max(1, limit-padding[0]-padding[2])
		}
	}

	l.lines = nil
	var contentW, contentH float64
	if l.text != "" {
		l.lines = l.font.Layout(l.text, limit, l.align)
		for _, line := range l.lines {
			contentW = max(contentW, line.Width)
		}
		if limit > 0 && l.align != text.AlignLeft {
			contentW = limit
		}
		contentH = float64(len(l.lines) * l.font.Height())
	}

	width := l.base.resolveAxis(l.base.widthMod, l.base.widthVal, contentW+padding[0]+padding[2], constraints.Min[0], constraints.Max[0])
	height := l.base.resolveAxis(l.base.heightMod, l.base.heightVal, contentH+padding[1]+padding[3], constraints.Min[1], constraints.Max[1])
	l.base.SetSize(width, height)
	return LayoutResult{Size: [2]float64{width, height}}
}

func (l *UILabel) Draw(ctx *Context) {
	if l.font == nil || l.base.color.Alpha() == 0 {
		return
	}
	padding := l.base.Padding()
	x := l.base.position[0] + padding[0]
	y := l.base.position[1] + padding[1]
	for i, line := range l.lines {
		ly := y + float64(i*l.font.Height())
		for _, sp := range line.Spans {
			if err := l.font.Draw(sp.Text, x+sp.X, ly, ctx.Z, gfx.WithColor(l.base.color)); err != nil {
				gfx.Logger().Warn("ui: label draw failed", "text", sp.Text, "err", err)
				return
			}
		}
	}
}
