package gfx

import (
	"fmt"
	"image"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/gfx/atlas"
)

// Texture is one square device surface shared by every chunk allocated on
// it. Each live chunk holds a reference; the surface is released with the
// last one. The Graphics registry does not count as a reference.
type Texture struct {
	dev   DeviceTexture
	size  int
	retro bool
	alloc *atlas.Allocator
	refs  int
	dead  bool
}

func newTexture(d Device, size int, retro bool) (*Texture, error) {
	dt, err := d.NewTexture(size, retro)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %w", ErrTextureCreate, size, size, err)
	}
	Logger().Debug("gfx: texture created", "size", size, "retro", retro)
	return &Texture{dev: dt, size: size, retro: retro, alloc: atlas.New(size)}, nil
}

func (t *Texture) Size() int   { return t.size }
func (t *Texture) Retro() bool { return t.retro }

// Alive reports whether the device surface still exists.
func (t *Texture) Alive() bool { return !t.dead }

// Device returns the backing device texture.
func (t *Texture) Device() DeviceTexture { return t.dev }

// Blocks returns the number of live allocations.
func (t *Texture) Blocks() int { return t.alloc.Len() }

// tryAlloc places src (already padded) on the texture and uploads it. It
// returns nil when the texture has no room, which is not an error.
func (t *Texture) tryAlloc(src *bitmap.Bitmap, padding int) *chunkDrawable {
	if t.dead {
		return nil
	}
	b, ok := t.alloc.Alloc(src.Width(), src.Height())
	if !ok {
		return nil
	}
	t.dev.Upload(b.Left, b.Top, b.Width, b.Height, packRGBA(src))
	t.refs++
	return newChunk(t, b, padding)
}

// free returns a block to the allocator and drops the chunk's reference.
func (t *Texture) free(b atlas.Block) {
	t.alloc.Free(b)
	t.release()
}

func (t *Texture) retain() { t.refs++ }

func (t *Texture) release() {
	t.refs--
	if t.refs > 0 || t.dead {
		return
	}
	t.dead = true
	t.dev.Release()
	Logger().Debug("gfx: texture released", "size", t.size)
}

// ReadRegion copies a region of the texture into a new bitmap. The device
// reads back the whole surface, so this is slow.
func (t *Texture) ReadRegion(x, y, width, height int) (*bitmap.Bitmap, error) {
	pix, err := t.dev.Download()
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	full := unpackRGBA(pix, t.size, t.size)
	return full.SubImage(image.Rect(x, y, x+width, y+height)), nil
}
