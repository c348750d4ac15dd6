// Package glbackend implements gfx.Device on OpenGL 3.3 core. The GL context
// must be current on the calling thread for every method.
package glbackend

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
)

// Vertex: pos2 + color4 + uv2 => 8 floats
const floatsPerVertex = 8

// Upper bound on vertices per draw call; larger batches are split.
const maxBatchVertices = 6 * 8192

var ErrFramebuffer = errors.New("gl: incomplete framebuffer")

type renderTarget struct {
	fbo           uint32
	width, height int // projection, in points
	fbW, fbH      int // viewport and scissor, in pixels
}

// Device draws gfx primitives with one shader program and a streaming
// vertex buffer. Consecutive primitives that share texture, blend mode and
// clip rectangle go out in a single draw call.
type Device struct {
	program uint32
	uProj   int32
	uTex    int32
	vao     uint32
	vbo     uint32
	white   *Texture
	maxSize int

	fbW, fbH int
	target   renderTarget

	verts     []float32
	mode      uint32
	batchOpen bool
	drawCalls int
}

var _ gfx.Device = (*Device)(nil)

// New compiles the shader program and sets up the vertex buffer.
func New() (*Device, error) {
	d := &Device{
		verts: make([]float32, 0, maxBatchVertices*floatsPerVertex),
		mode:  gl.TRIANGLES,
	}
	var err error
	d.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	d.uProj = gl.GetUniformLocation(d.program, gl.Str("uProj\x00"))
	d.uTex = gl.GetUniformLocation(d.program, gl.Str("uTex\x00"))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	const stride = floatsPerVertex * 4 // bytes
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	// Untextured primitives sample a 1x1 white texture.
	d.white = newTexture(1, true, []byte{255, 255, 255, 255})

	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	d.maxSize = int(maxSize)

	gfx.Logger().Info("gl: device ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"max_texture_size", d.maxSize)
	d.restoreState()
	return d, nil
}

// Shutdown deletes the GL objects owned by the device.
func (d *Device) Shutdown() {
	d.white.Release()
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
	}
}

// SetFramebufferSize sets the window's size in pixels, which differs from
// its size in points on high-DPI displays.
func (d *Device) SetFramebufferSize(w, h int) { d.fbW, d.fbH = w, h }

// DrawCalls returns the number of GL draw calls since BeginFrame.
func (d *Device) DrawCalls() int { return d.drawCalls }

func (d *Device) MaxTextureSize() int { return d.maxSize }

func (d *Device) NewTexture(size int, retro bool) (gfx.DeviceTexture, error) {
	if size <= 0 || size > d.maxSize {
		return nil, fmt.Errorf("gl: texture size %d outside 1..%d", size, d.maxSize)
	}
	t := newTexture(size, retro, nil)
	if code := gl.GetError(); code != gl.NO_ERROR {
		t.Release()
		return nil, fmt.Errorf("gl: glTexImage2D failed: 0x%x", code)
	}
	return t, nil
}

func (d *Device) BeginFrame(width, height int, clear colors.Color) {
	fbW, fbH := d.fbW, d.fbH
	if fbW <= 0 || fbH <= 0 {
		fbW, fbH = width, height
	}
	d.target = renderTarget{width: width, height: height, fbW: fbW, fbH: fbH}
	d.drawCalls = 0
	d.bindTarget()
	c := clear.Floats()
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) EndFrame() { d.submit() }

func (d *Device) Draw(p *gfx.Primitive, endBatch bool) {
	mode := uint32(gl.TRIANGLES)
	if p.Count == 2 {
		mode = gl.LINES
	}
	if !d.batchOpen {
		d.beginBatch(p)
		d.mode = mode
	}
	switch p.Count {
	case 2:
		d.appendVertex(p.Vertices[0])
		d.appendVertex(p.Vertices[1])
	case 3:
		d.appendVertex(p.Vertices[0])
		d.appendVertex(p.Vertices[1])
		d.appendVertex(p.Vertices[2])
	case 4:
		// TL, TR, BL + TR, BR, BL
		d.appendVertex(p.Vertices[0])
		d.appendVertex(p.Vertices[1])
		d.appendVertex(p.Vertices[2])
		d.appendVertex(p.Vertices[1])
		d.appendVertex(p.Vertices[3])
		d.appendVertex(p.Vertices[2])
	}
	if endBatch || len(d.verts) >= maxBatchVertices*floatsPerVertex {
		d.submit()
	}
}

// RunCustom hands the GL context to fn and resets the state it may have
// changed.
func (d *Device) RunCustom(fn func()) {
	d.submit()
	defer d.restoreState()
	fn()
}

func (d *Device) RenderTarget(width, height int, body func()) ([]byte, error) {
	d.submit()

	var tex, fbo uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	prev := d.target
	defer func() {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		d.target = prev
		d.bindTarget()
	}()

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("%w: status 0x%x", ErrFramebuffer, status)
	}

	d.target = renderTarget{fbo: fbo, width: width, height: height, fbW: width, fbH: height}
	d.bindTarget()
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	body()
	d.submit()

	pix := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	flipRows(pix, width*4, height)
	return pix, nil
}

// --- internals ---

func (d *Device) beginBatch(p *gfx.Primitive) {
	switch p.Blend {
	case gfx.BlendAdditive:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	}

	if p.Clipped {
		c := p.Clip
		gl.Enable(gl.SCISSOR_TEST)
		// GL's scissor origin is the bottom-left corner.
		gl.Scissor(int32(c.X), int32(d.target.fbH-c.Y-c.Height), int32(c.Width), int32(c.Height))
	} else {
		gl.Disable(gl.SCISSOR_TEST)
	}

	id := d.white.id
	if t, ok := p.Texture.(*Texture); ok && t.id != 0 {
		id = t.id
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	d.batchOpen = true
}

func (d *Device) appendVertex(v gfx.Vertex) {
	c := v.Color.Floats()
	d.verts = append(d.verts,
		float32(v.X), float32(v.Y),
		c[0], c[1], c[2], c[3],
		float32(v.U), float32(v.V),
	)
}

func (d *Device) submit() {
	d.batchOpen = false
	if len(d.verts) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(d.verts)*4, gl.Ptr(d.verts), gl.STREAM_DRAW)
	gl.DrawArrays(d.mode, 0, int32(len(d.verts)/floatsPerVertex))
	d.drawCalls++
	d.verts = d.verts[:0]
}

func (d *Device) bindTarget() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.target.fbo)
	gl.Viewport(0, 0, int32(d.target.fbW), int32(d.target.fbH))
	if d.target.width > 0 && d.target.height > 0 {
		proj := ortho(float32(d.target.width), float32(d.target.height))
		gl.UseProgram(d.program)
		gl.UniformMatrix4fv(d.uProj, 1, false, &proj[0])
	}
}

func (d *Device) restoreState() {
	gl.UseProgram(d.program)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(d.uTex, 0)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	d.bindTarget()
}

// flipRows turns GL's bottom-up rows into top-down order in place.
func flipRows(pix []byte, stride, rows int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
