package gfx

import "github.com/hubastard/gosu/engine/colors"

// resolution maps the logical drawing area onto the physical window,
// keeping the aspect ratio and centering the result. Unused space becomes
// black bars.
type resolution struct {
	logicalW, logicalH   int
	physicalW, physicalH int
	scale                float64
	offX, offY           float64
}

func newResolution(logicalW, logicalH, physicalW, physicalH int) resolution {
	r := resolution{
		logicalW:  logicalW,
		logicalH:  logicalH,
		physicalW: physicalW,
		physicalH: physicalH,
		scale:     1,
	}
	if logicalW <= 0 || logicalH <= 0 {
		return r
	}
	sx := float64(physicalW) / float64(logicalW)
	sy := float64(physicalH) / float64(logicalH)
	r.scale = min(sx, sy)
	r.offX = (float64(physicalW) - float64(logicalW)*r.scale) / 2
	r.offY = (float64(physicalH) - float64(logicalH)*r.scale) / 2
	return r
}

// base is the outermost transform of every frame.
func (r resolution) base() Transform {
	return Scale(r.scale, r.scale).Then(Translate(r.offX, r.offY))
}

// bars returns the letterbox rectangles in physical coordinates.
func (r resolution) bars() []Quad {
	pw, ph := float64(r.physicalW), float64(r.physicalH)
	var out []Quad
	if r.offX > 0 {
		out = append(out,
			RectQuad(0, 0, r.offX, ph, colors.Black),
			RectQuad(pw-r.offX, 0, r.offX, ph, colors.Black))
	}
	if r.offY > 0 {
		out = append(out,
			RectQuad(0, 0, pw, r.offY, colors.Black),
			RectQuad(0, ph-r.offY, pw, r.offY, colors.Black))
	}
	return out
}
