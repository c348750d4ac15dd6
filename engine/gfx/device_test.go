package gfx

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gosu/engine/colors"
)

type fakeTexture struct {
	size     int
	pix      []byte
	released bool
}

func (t *fakeTexture) Upload(x, y, w, h int, pix []byte) {
	for row := 0; row < h; row++ {
		dst := ((y+row)*t.size + x) * 4
		copy(t.pix[dst:dst+w*4], pix[row*w*4:(row+1)*w*4])
	}
}

func (t *fakeTexture) Download() ([]byte, error) { return slices.Clone(t.pix), nil }
func (t *fakeTexture) Release()                  { t.released = true }

// call is one thing a flush did: issue a primitive or run custom code.
type call struct {
	prim      Primitive
	endBatch  bool
	custom    bool
	offscreen bool
}

type fakeDevice struct {
	maxSize      int
	textures     []*fakeTexture
	calls        []call
	frames       int
	inFrame      bool
	offscreen    int
	renderFill   colors.Color
	failTextures bool
}

func newFakeDevice(maxSize int) *fakeDevice {
	return &fakeDevice{maxSize: maxSize, renderFill: colors.Cyan}
}

func (d *fakeDevice) MaxTextureSize() int { return d.maxSize }

func (d *fakeDevice) NewTexture(size int, retro bool) (DeviceTexture, error) {
	if d.failTextures {
		return nil, errors.New("out of video memory")
	}
	t := &fakeTexture{size: size, pix: make([]byte, size*size*4)}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeDevice) BeginFrame(width, height int, clear colors.Color) {
	d.frames++
	d.inFrame = true
}

func (d *fakeDevice) EndFrame() { d.inFrame = false }

func (d *fakeDevice) Draw(p *Primitive, endBatch bool) {
	d.calls = append(d.calls, call{prim: *p, endBatch: endBatch, offscreen: d.offscreen > 0})
}

func (d *fakeDevice) RunCustom(fn func()) {
	d.calls = append(d.calls, call{custom: true})
	fn()
}

func (d *fakeDevice) RenderTarget(width, height int, body func()) ([]byte, error) {
	d.offscreen++
	defer func() { d.offscreen-- }()
	body()
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = d.renderFill.Red(), d.renderFill.Green(), d.renderFill.Blue(), d.renderFill.Alpha()
	}
	return pix, nil
}

// prims returns the issued primitives, skipping custom code.
func (d *fakeDevice) prims() []Primitive {
	var out []Primitive
	for _, c := range d.calls {
		if !c.custom {
			out = append(out, c.prim)
		}
	}
	return out
}

// colorsIssued lists the first vertex color of every call; custom code
// shows up as colors.None.
func (d *fakeDevice) colorsIssued() []colors.Color {
	out := make([]colors.Color, 0, len(d.calls))
	for _, c := range d.calls {
		if c.custom {
			out = append(out, colors.None)
			continue
		}
		out = append(out, c.prim.Vertices[0].Color)
	}
	return out
}

func (d *fakeDevice) reset() { d.calls = nil }

// assertPanicsIs checks that fn panics with an error matching target.
func assertPanicsIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}

// rectOp builds an untextured quad op whose color doubles as its id.
func rectOp(id colors.Color, z ZPos) DrawOp {
	op := DrawOp{count: 4, z: z}
	for i := range op.vertices {
		op.vertices[i].Color = id
	}
	return op
}
