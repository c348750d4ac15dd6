package gfx

import (
	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
)

// Colors are packed ARGB words whose byte layout depends on the host. These
// two functions are the only places pixels cross into device byte order,
// which is always R,G,B,A.

func packRGBA(b *bitmap.Bitmap) []byte {
	px := b.Pixels()
	out := make([]byte, len(px)*4)
	for i, c := range px {
		out[i*4+0] = c.Red()
		out[i*4+1] = c.Green()
		out[i*4+2] = c.Blue()
		out[i*4+3] = c.Alpha()
	}
	return out
}

func unpackRGBA(pix []byte, width, height int) *bitmap.Bitmap {
	b := bitmap.New(width, height)
	px := b.Pixels()
	for i := range px {
		if i*4+3 >= len(pix) {
			break
		}
		px[i] = colors.RGBA(pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3])
	}
	return b
}
