package gfx

import (
	"fmt"
	"image"
	"slices"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
)

// Minimum edge of a tileable square that gets its own texture.
const dedicatedTextureMin = 64

// Stats describes the most recent frame plus the frame counter.
type Stats struct {
	Frames       int
	Ops          int
	Dropped      int
	Batches      int
	CustomBlocks int
	Textures     int
}

func (s *Stats) add(f FlushStats, dropped int) {
	s.Ops += f.Ops
	s.Batches += f.Batches
	s.CustomBlocks += f.CustomBlocks
	s.Dropped += dropped
}

// Graphics is the entry point for drawing. It owns the atlas textures, the
// frame queue and the stack of active targets (frame, recordings,
// offscreen renders). It must only be used from the thread that owns the
// device.
type Graphics struct {
	dev      Device
	cfg      Config
	res      resolution
	textures []*Texture
	targets  []*Target
	frame    *Target
	inFrame  bool
	stats    Stats
}

// New creates a Graphics drawing to a width x height window on dev.
func New(dev Device, width, height int, cfg Config) *Graphics {
	cfg = cfg.withDefaults()
	g := &Graphics{
		dev: dev,
		cfg: cfg,
		res: newResolution(width, height, width, height),
	}
	g.frame = newTarget(cfg.ClipScale, g.res.base(), false)
	Logger().Info("gfx: graphics created",
		"width", width, "height", height,
		"texture_size", g.atlasSize(), "clip_scale", cfg.ClipScale)
	return g
}

// Device returns the device g draws to.
func (g *Graphics) Device() Device { return g.dev }

// Width and Height return the logical drawing area.
func (g *Graphics) Width() int  { return g.res.logicalW }
func (g *Graphics) Height() int { return g.res.logicalH }

// PhysicalSize returns the window size passed to the device.
func (g *Graphics) PhysicalSize() (int, int) { return g.res.physicalW, g.res.physicalH }

// SetResolution sets the logical drawing area and the physical window size.
// The logical area is scaled uniformly to fit and centered; the remainder is
// covered by black bars at the end of each frame.
func (g *Graphics) SetResolution(logicalW, logicalH, physicalW, physicalH int) {
	g.res = newResolution(logicalW, logicalH, physicalW, physicalH)
}

// SetClipScale changes the point-to-pixel factor used for clip rectangles,
// for example when the window moves to a display with another content scale.
func (g *Graphics) SetClipScale(scale int) {
	g.cfg.ClipScale = max(scale, 1)
}

// ScreenToLogical converts a window position to logical coordinates.
func (g *Graphics) ScreenToLogical(x, y float64) (float64, float64) {
	inv, ok := g.res.base().Invert()
	if !ok {
		return x, y
	}
	return inv.Apply(x, y)
}

// MaxTextureSize is the largest image edge that fits on one atlas texture.
func (g *Graphics) MaxTextureSize() int { return g.atlasSize() }

func (g *Graphics) atlasSize() int {
	return min(g.cfg.TextureSize, g.dev.MaxTextureSize())
}

// Stats returns counters for the current or last finished frame.
func (g *Graphics) Stats() Stats {
	s := g.stats
	for _, t := range g.textures {
		if t.Alive() {
			s.Textures++
		}
	}
	return s
}

// BeginFrame starts a frame, clearing the window to clear. Frames cannot be
// nested.
func (g *Graphics) BeginFrame(clear colors.Color) {
	if g.inFrame {
		panic(ErrNestedFrame)
	}
	g.inFrame = true
	g.stats = Stats{Frames: g.stats.Frames + 1}
	g.frame.reset(g.res.base(), g.cfg.ClipScale)
	g.targets = append(g.targets, g.frame)
	g.dev.BeginFrame(g.res.physicalW, g.res.physicalH, clear)
}

// EndFrame flushes everything queued during the frame, covers the letterbox
// area and presents.
func (g *Graphics) EndFrame() {
	if !g.inFrame {
		panic(fmt.Errorf("%w: end without begin", ErrNoFrame))
	}
	if len(g.targets) == 0 || g.targets[len(g.targets)-1] != g.frame {
		panic(fmt.Errorf("%w: frame ended inside a recording or render", ErrNestedFrame))
	}
	if d := g.frame.queue.ClipDepth(); d != 0 {
		panic(fmt.Errorf("%w: %d clip(s) still open at end of frame", ErrUnbalancedClip, d))
	}
	if n := len(g.frame.transforms); n != 1 {
		panic(fmt.Errorf("%w: %d transform(s) still pushed at end of frame", ErrUnbalancedTransform, n-1))
	}

	g.Flush()
	if bars := g.res.bars(); len(bars) > 0 {
		g.frame.transforms[0] = Identity()
		for _, q := range bars {
			g.frame.DrawQuad(q, 0, BlendDefault)
		}
		g.Flush()
	}

	g.targets = g.targets[:len(g.targets)-1]
	g.inFrame = false
	g.dev.EndFrame()
	Logger().Debug("gfx: frame",
		"n", g.stats.Frames, "ops", g.stats.Ops, "batches", g.stats.Batches,
		"dropped", g.stats.Dropped, "custom", g.stats.CustomBlocks)
}

// Flush issues everything queued in the frame so far. Anything drawn
// afterwards appears on top, whatever its Z. Outside of the frame target
// (while recording or rendering) it does nothing.
func (g *Graphics) Flush() {
	if !g.inFrame || len(g.targets) == 0 || g.targets[len(g.targets)-1] != g.frame {
		return
	}
	dropped := g.frame.queue.Dropped()
	g.stats.add(g.frame.queue.Flush(g.dev), dropped)
}

// Target returns the target draw calls currently go to.
func (g *Graphics) Target() *Target {
	if len(g.targets) == 0 {
		panic(ErrNoFrame)
	}
	return g.targets[len(g.targets)-1]
}

// Clip restricts drawing in body to the rectangle (x, y, w, h) in current
// coordinates. Nested clips intersect.
func (g *Graphics) Clip(x, y, w, h float64, body func()) {
	t := g.Target()
	t.BeginClip(x, y, w, h)
	defer t.EndClip()
	body()
}

// Transform applies m to everything drawn in body, before any transform
// that is already active.
func (g *Graphics) Transform(m Transform, body func()) {
	t := g.Target()
	t.PushTransform(m)
	defer t.PopTransform()
	body()
}

func (g *Graphics) Translate(x, y float64, body func()) {
	g.Transform(Translate(x, y), body)
}

// Scale scales body around (cx, cy).
func (g *Graphics) Scale(sx, sy, cx, cy float64, body func()) {
	g.Transform(ScaleAround(sx, sy, cx, cy), body)
}

// Rotate rotates body clockwise by angle degrees around (cx, cy).
func (g *Graphics) Rotate(angle, cx, cy float64, body func()) {
	g.Transform(RotateAround(angle, cx, cy), body)
}

// Schedule runs fn at z during the flush, with raw access to the device.
// It panics while recording.
func (g *Graphics) Schedule(z ZPos, fn func()) {
	g.Target().Schedule(z, fn)
}

func (g *Graphics) DrawLine(x1, y1 float64, c1 colors.Color, x2, y2 float64, c2 colors.Color, z ZPos, mode BlendMode) {
	g.Target().DrawLine(x1, y1, c1, x2, y2, c2, z, mode)
}

func (g *Graphics) DrawTriangle(a, b, c Corner, z ZPos, mode BlendMode) {
	g.Target().DrawTriangle(a, b, c, z, mode)
}

func (g *Graphics) DrawQuad(q Quad, z ZPos, mode BlendMode) {
	g.Target().DrawQuad(q, z, mode)
}

func (g *Graphics) DrawRect(x, y, w, h float64, c colors.Color, z ZPos, mode BlendMode) {
	g.Target().DrawQuad(RectQuad(x, y, w, h, c), z, mode)
}

// Record captures everything body draws into a width x height macro
// drawable instead of the screen. Recordings cannot be nested and cannot
// schedule custom code. Clip rectangles set inside body are not kept: the
// macro replays unclipped unless the caller clips around the draw.
func (g *Graphics) Record(width, height int, body func()) Drawable {
	for _, t := range g.targets {
		if t.recording {
			panic(ErrNestedRecording)
		}
	}
	t := g.runTarget(newTarget(1, Identity(), true), body)
	return newMacro(g, width, height, t.queue.compile())
}

// Render draws body into an offscreen width x height image.
func (g *Graphics) Render(width, height int, body func(), flags ImageFlags) (*Image, error) {
	b, err := g.renderBitmap(width, height, body)
	if err != nil {
		return nil, err
	}
	return NewImage(g, b, flags)
}

func (g *Graphics) renderBitmap(width, height int, body func()) (*bitmap.Bitmap, error) {
	t := g.runTarget(newTarget(1, Identity(), false), body)
	if width <= 0 || height <= 0 {
		t.queue.Reset()
		return bitmap.New(max(width, 0), max(height, 0)), nil
	}
	pix, err := g.dev.RenderTarget(width, height, func() {
		dropped := t.queue.Dropped()
		g.stats.add(t.queue.Flush(g.dev), dropped)
	})
	if err != nil {
		t.queue.Reset()
		return nil, fmt.Errorf("render %dx%d: %w", width, height, err)
	}
	return unpackRGBA(pix, width, height), nil
}

// runTarget makes t current while body runs and checks it is left balanced.
func (g *Graphics) runTarget(t *Target, body func()) *Target {
	g.targets = append(g.targets, t)
	func() {
		defer func() { g.targets = g.targets[:len(g.targets)-1] }()
		body()
	}()
	if d := t.queue.ClipDepth(); d != 0 {
		panic(fmt.Errorf("%w: %d clip(s) still open", ErrUnbalancedClip, d))
	}
	return t
}

// CreateDrawable uploads the r region of src. Images larger than one
// texture are split into a tiled drawable; an empty region yields Empty.
func (g *Graphics) CreateDrawable(src *bitmap.Bitmap, r image.Rectangle, flags ImageFlags) (Drawable, error) {
	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > src.Width() || r.Max.Y > src.Height() {
		return nil, fmt.Errorf("%w: %v in %v", ErrRegionOutOfBounds, r, src.Bounds())
	}
	if r.Empty() {
		return Empty, nil
	}
	w, h := r.Dx(), r.Dy()

	// Tileable power-of-two squares get a texture of their own so they
	// can wrap without padding.
	if flags&Tileable == Tileable && w == h && w&(w-1) == 0 &&
		w >= dedicatedTextureMin && w <= g.dev.MaxTextureSize() {
		t, err := newTexture(g.dev, w, flags.retro())
		if err != nil {
			return nil, err
		}
		c := t.tryAlloc(src.SubImage(r), 0)
		if c == nil {
			t.dev.Release()
			return nil, fmt.Errorf("%w: %dx%d dedicated", ErrAtlasInvariant, w, h)
		}
		return c, nil
	}

	if limit := g.atlasSize() - 2; w > limit || h > limit {
		td, err := newTiled(g, src, r, limit, limit, flags)
		if err != nil {
			return nil, err
		}
		return td, nil
	}
	return g.createAtlasDrawable(src, r, flags)
}

// createAtlasDrawable places r, padded by one pixel, on the first texture
// with room, creating a new texture when all are full.
func (g *Graphics) createAtlasDrawable(src *bitmap.Bitmap, r image.Rectangle, flags ImageFlags) (Drawable, error) {
	padded := bitmap.WithBorder(src, r, flags.edges())
	retro := flags.retro()

	g.textures = slices.DeleteFunc(g.textures, func(t *Texture) bool { return !t.Alive() })
	for _, t := range g.textures {
		if t.retro != retro {
			continue
		}
		if c := t.tryAlloc(padded, 1); c != nil {
			return c, nil
		}
	}

	size := g.atlasSize()
	Logger().Debug("gfx: atlas full, adding texture",
		"textures", len(g.textures), "image_w", r.Dx(), "image_h", r.Dy())
	t, err := newTexture(g.dev, size, retro)
	if err != nil {
		return nil, err
	}
	c := t.tryAlloc(padded, 1)
	if c == nil {
		t.dev.Release()
		return nil, fmt.Errorf("%w: %dx%d on %d", ErrAtlasInvariant, padded.Width(), padded.Height(), size)
	}
	g.textures = append(g.textures, t)
	return c, nil
}
