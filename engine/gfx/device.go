package gfx

import "github.com/hubastard/gosu/engine/colors"

// BlendMode selects the blend equation used for a primitive.
type BlendMode uint8

const (
	// BlendDefault is source-over alpha blending.
	BlendDefault BlendMode = iota
	// BlendAdditive adds the alpha-weighted source to the destination.
	BlendAdditive
)

func (m BlendMode) String() string {
	switch m {
	case BlendAdditive:
		return "additive"
	default:
		return "default"
	}
}

// ClipRect is a scissor rectangle in framebuffer pixels, top-left origin.
type ClipRect struct {
	X, Y, Width, Height int
}

// Vertex is one corner of a primitive as handed to a Device. X and Y are in
// target coordinates, U and V in normalized texture space.
type Vertex struct {
	X, Y  float64
	U, V  float64
	Color colors.Color
}

// Primitive is a line (2 vertices), triangle (3) or quad (4, ordered
// top-left, top-right, bottom-left, bottom-right).
type Primitive struct {
	Count    int
	Vertices [4]Vertex
	Texture  DeviceTexture
	Blend    BlendMode
	Clipped  bool
	Clip     ClipRect
}

// Device is the GPU binding the queue issues primitives to. All calls happen
// on the thread that owns the graphics context.
type Device interface {
	// MaxTextureSize is the largest texture edge the device supports.
	MaxTextureSize() int

	// NewTexture creates a size x size RGBA texture. Retro textures sample
	// with nearest-neighbor filtering.
	NewTexture(size int, retro bool) (DeviceTexture, error)

	// BeginFrame starts drawing to the screen, sized in window points.
	BeginFrame(width, height int, clear colors.Color)
	EndFrame()

	// Draw issues one primitive. endBatch is true when the next primitive
	// does not share state with this one (or there is none), so the device
	// must submit what it has accumulated.
	Draw(p *Primitive, endBatch bool)

	// RunCustom executes user code with raw access to the graphics API and
	// restores the device's own state afterwards.
	RunCustom(fn func())

	// RenderTarget redirects everything body draws into an offscreen
	// width x height surface and returns its pixels (R,G,B,A bytes,
	// row-major, top-left origin).
	RenderTarget(width, height int, body func()) ([]byte, error)
}

// DeviceTexture is one texture surface on a Device.
type DeviceTexture interface {
	// Upload replaces the width x height region at (x, y). pix holds
	// R,G,B,A bytes, row-major.
	Upload(x, y, width, height int, pix []byte)

	// Download reads the whole surface back.
	Download() ([]byte, error)

	Release()
}
