package glbackend

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/gosu/engine/gfx"
)

// Texture is a square RGBA8 GL texture.
type Texture struct {
	id    uint32
	size  int
	retro bool
}

func newTexture(size int, retro bool, pix []byte) *Texture {
	t := &Texture{size: size, retro: retro}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	filter := int32(gl.LINEAR)
	if retro {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	var ptr unsafe.Pointer
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	return t
}

// ID returns the GL texture name, for custom GL code.
func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Upload(x, y, width, height int, pix []byte) {
	if t.id == 0 || len(pix) == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(width), int32(height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
}

func (t *Texture) Download() ([]byte, error) {
	if t.id == 0 {
		return nil, errors.New("gl: texture released")
	}
	pix := make([]byte, t.size*t.size*4)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix, nil
}

func (t *Texture) Release() {
	if t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	gfx.Logger().Debug("gl: texture deleted", "size", t.size)
}
