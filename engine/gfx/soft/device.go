// Package soft is a gfx.Device that rasterizes on the CPU. It follows the
// OpenGL backend's conventions (pixel centers at +0.5, top-left fill rule,
// the same blend equations) so headless renders match what the GPU shows.
package soft

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
)

// DefaultMaxTextureSize matches the minimum every GL 3.3 driver supports.
const DefaultMaxTextureSize = 4096

var ErrTextureSize = errors.New("soft: unsupported texture size")

// Device renders into an in-memory RGBA framebuffer.
type Device struct {
	maxSize int
	screen  *surface
	target  *surface
	prims   int
}

var _ gfx.Device = (*Device)(nil)

// New creates a device; maxTextureSize <= 0 selects DefaultMaxTextureSize.
func New(maxTextureSize int) *Device {
	if maxTextureSize <= 0 {
		maxTextureSize = DefaultMaxTextureSize
	}
	return &Device{maxSize: maxTextureSize}
}

func (d *Device) MaxTextureSize() int { return d.maxSize }

func (d *Device) NewTexture(size int, retro bool) (gfx.DeviceTexture, error) {
	if size <= 0 || size > d.maxSize {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTextureSize, size, d.maxSize)
	}
	return &Texture{size: size, retro: retro, pix: make([]byte, size*size*4)}, nil
}

func (d *Device) BeginFrame(width, height int, clear colors.Color) {
	if d.screen == nil || d.screen.w != width || d.screen.h != height {
		d.screen = newSurface(width, height)
	}
	d.screen.fill(clear)
	d.target = d.screen
	d.prims = 0
}

func (d *Device) EndFrame() { d.target = nil }

func (d *Device) Draw(p *gfx.Primitive, endBatch bool) {
	if d.target == nil {
		gfx.Logger().Warn("soft: draw outside of frame or render target")
		return
	}
	d.prims++
	var tex *Texture
	if t, ok := p.Texture.(*Texture); ok && !t.released {
		tex = t
	}
	clip := rect{0, 0, d.target.w, d.target.h}
	if p.Clipped {
		clip = clip.intersect(rect{p.Clip.X, p.Clip.Y, p.Clip.X + p.Clip.Width, p.Clip.Y + p.Clip.Height})
	}
	switch p.Count {
	case 2:
		d.target.line(p.Vertices[0], p.Vertices[1], clip, p.Blend)
	case 3:
		d.target.triangle(p.Vertices[0], p.Vertices[1], p.Vertices[2], tex, clip, p.Blend)
	case 4:
		d.target.triangle(p.Vertices[0], p.Vertices[1], p.Vertices[2], tex, clip, p.Blend)
		d.target.triangle(p.Vertices[1], p.Vertices[3], p.Vertices[2], tex, clip, p.Blend)
	}
}

// RunCustom has no device state to restore.
func (d *Device) RunCustom(fn func()) { fn() }

func (d *Device) RenderTarget(width, height int, body func()) ([]byte, error) {
	prev := d.target
	d.target = newSurface(width, height)
	defer func() { d.target = prev }()
	body()
	return slices.Clone(d.target.pix), nil
}

// Primitives returns how many primitives were drawn since BeginFrame.
func (d *Device) Primitives() int { return d.prims }

// Screen copies the last frame.
func (d *Device) Screen() *bitmap.Bitmap {
	if d.screen == nil {
		return bitmap.New(0, 0)
	}
	return d.screen.bitmap()
}

// Texture is a size x size RGBA texture in memory.
type Texture struct {
	size     int
	retro    bool
	pix      []byte
	released bool
}

func (t *Texture) Upload(x, y, width, height int, pix []byte) {
	for row := 0; row < height; row++ {
		dst := ((y+row)*t.size + x) * 4
		copy(t.pix[dst:dst+width*4], pix[row*width*4:(row+1)*width*4])
	}
}

func (t *Texture) Download() ([]byte, error) {
	if t.released {
		return nil, errors.New("soft: texture released")
	}
	return slices.Clone(t.pix), nil
}

func (t *Texture) Release() {
	t.released = true
	t.pix = nil
}
