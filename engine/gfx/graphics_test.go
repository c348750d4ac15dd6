package gfx

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
)

func newTestGraphics(t *testing.T) (*Graphics, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice(256)
	return New(dev, 320, 240, Config{TextureSize: 128}), dev
}

func checker(w, h int) *bitmap.Bitmap {
	b := bitmap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetPixel(x, y, colors.RGBA(uint8(x*16), uint8(y*16), uint8(x+y), 255))
		}
	}
	return b
}

func corners(p Primitive) [4][2]float64 {
	var out [4][2]float64
	for i := 0; i < p.Count; i++ {
		out[i] = [2]float64{p.Vertices[i].X, p.Vertices[i].Y}
	}
	return out
}

func TestFrameLifecycle(t *testing.T) {
	g, dev := newTestGraphics(t)

	assertPanicsIs(t, ErrNoFrame, func() { g.DrawRect(0, 0, 1, 1, colors.Red, 0, BlendDefault) })
	assertPanicsIs(t, ErrNoFrame, g.EndFrame)

	g.BeginFrame(colors.Black)
	assertPanicsIs(t, ErrNestedFrame, func() { g.BeginFrame(colors.Black) })
	g.DrawRect(0, 0, 10, 10, colors.Red, 2, BlendDefault)
	g.DrawRect(0, 0, 10, 10, colors.Green, 1, BlendDefault)
	assert.Empty(t, dev.calls)
	g.EndFrame()

	assert.Equal(t, 1, dev.frames)
	assert.False(t, dev.inFrame)
	assert.Equal(t, []colors.Color{colors.Green, colors.Red}, dev.colorsIssued())
	assert.Equal(t, 1, g.Stats().Frames)
	assert.Equal(t, 2, g.Stats().Ops)
}

func TestFlushMidFrame(t *testing.T) {
	g, dev := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	g.DrawRect(0, 0, 1, 1, colors.Red, 10, BlendDefault)
	g.Flush()
	g.DrawRect(0, 0, 1, 1, colors.Green, 0, BlendDefault)
	g.EndFrame()
	assert.Equal(t, []colors.Color{colors.Red, colors.Green}, dev.colorsIssued())
}

func TestTransformComposition(t *testing.T) {
	g, dev := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	g.Translate(10, 0, func() {
		g.Scale(2, 2, 0, 0, func() {
			g.DrawRect(1, 1, 1, 1, colors.Red, 0, BlendDefault)
		})
	})
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 1)
	assert.Equal(t, [4][2]float64{{12, 2}, {14, 2}, {12, 4}, {14, 4}}, corners(p[0]))
}

func TestTransformPoppedOnPanic(t *testing.T) {
	g, _ := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	func() {
		defer func() { _ = recover() }()
		g.Translate(5, 5, func() { panic("boom") })
	}()
	assert.Len(t, g.Target().transforms, 1)
	g.EndFrame()
}

func TestClipFollowsTransform(t *testing.T) {
	g, dev := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	g.Translate(10, 10, func() {
		g.Clip(0, 0, 20, 20, func() {
			g.DrawRect(0, 0, 5, 5, colors.Red, 0, BlendDefault)
		})
	})
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 1)
	assert.True(t, p[0].Clipped)
	assert.Equal(t, ClipRect{X: 10, Y: 10, Width: 20, Height: 20}, p[0].Clip)
}

func TestDisjointClipDropsDraws(t *testing.T) {
	g, dev := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	g.Clip(0, 0, 10, 10, func() {
		g.Clip(20, 20, 10, 10, func() {
			g.DrawRect(0, 0, 5, 5, colors.Red, 0, BlendDefault)
		})
	})
	g.EndFrame()
	assert.Empty(t, dev.prims())
	assert.Equal(t, 1, g.Stats().Dropped)
}

func TestCustomCodeInFrame(t *testing.T) {
	g, dev := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	g.DrawRect(0, 0, 1, 1, colors.Red, 0, BlendDefault)
	g.DrawRect(0, 0, 1, 1, colors.Blue, 10, BlendDefault)
	g.Schedule(5, func() {
		assertPanicsIs(t, ErrQueueBusy, func() { g.DrawRect(0, 0, 1, 1, colors.Green, 0, BlendDefault) })
	})
	g.EndFrame()
	assert.Equal(t, []colors.Color{colors.Red, colors.None, colors.Blue}, dev.colorsIssued())
}

func TestRecordRules(t *testing.T) {
	g, _ := newTestGraphics(t)
	assertPanicsIs(t, ErrNestedRecording, func() {
		g.Record(10, 10, func() {
			g.Record(5, 5, func() {})
		})
	})
	assertPanicsIs(t, ErrCodeInRecording, func() {
		g.Record(10, 10, func() { g.Schedule(0, func() {}) })
	})
	assert.Empty(t, g.targets)
}

func TestRecordedMacroReplays(t *testing.T) {
	g, dev := newTestGraphics(t)
	d := g.Record(10, 10, func() {
		g.DrawRect(0, 0, 10, 10, colors.Red, 5, BlendDefault)
		g.DrawRect(0, 0, 5, 5, colors.Green, 1, BlendDefault)
	})
	require.Equal(t, KindMacro, d.Kind())
	assert.Equal(t, 10, d.Width())
	assert.Equal(t, 10, d.Height())

	img := ImageFromDrawable(g, d)
	g.BeginFrame(colors.Black)
	g.DrawRect(0, 0, 1, 1, colors.Blue, 8, BlendDefault)
	img.Draw(100, 100, 7, WithScale(2, 2))
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 3)
	// Recorded Z order is kept inside the macro; the macro as a whole sits
	// at the Z it was drawn with.
	assert.Equal(t, colors.Green, p[0].Vertices[0].Color)
	assert.Equal(t, colors.Red, p[1].Vertices[0].Color)
	assert.Equal(t, colors.Blue, p[2].Vertices[0].Color)
	assert.Equal(t, [4][2]float64{{100, 100}, {120, 100}, {100, 120}, {120, 120}}, corners(p[1]))
	assert.Equal(t, [4][2]float64{{100, 100}, {110, 100}, {100, 110}, {110, 110}}, corners(p[0]))
}

func TestMacroTintAndBlend(t *testing.T) {
	g, dev := newTestGraphics(t)
	d := g.Record(4, 4, func() {
		g.DrawRect(0, 0, 4, 4, colors.Red, 0, BlendDefault)
	})
	img := ImageFromDrawable(g, d)

	g.BeginFrame(colors.Black)
	img.Draw(0, 0, 0, WithColor(colors.White.WithAlpha(128)), WithBlend(BlendAdditive))
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 1)
	assert.Equal(t, colors.Red.WithAlpha(128), p[0].Vertices[0].Color)
	assert.Equal(t, BlendAdditive, p[0].Blend)
}

func TestMacroTakesClipFromFrame(t *testing.T) {
	g, dev := newTestGraphics(t)
	d := g.Record(4, 4, func() {
		g.DrawRect(0, 0, 4, 4, colors.Red, 0, BlendDefault)
	})
	g.BeginFrame(colors.Black)
	g.Clip(0, 0, 2, 2, func() {
		d.Draw(g.Target(), RectQuad(0, 0, 4, 4, colors.White), 0, BlendDefault)
	})
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 1)
	assert.True(t, p[0].Clipped)
	assert.Equal(t, ClipRect{Width: 2, Height: 2}, p[0].Clip)
}

func TestRecordDropsInnerClip(t *testing.T) {
	g, dev := newTestGraphics(t)
	d := g.Record(4, 4, func() {
		g.Clip(0, 0, 1, 1, func() {
			g.DrawRect(0, 0, 4, 4, colors.Red, 0, BlendDefault)
		})
	})
	g.BeginFrame(colors.Black)
	d.Draw(g.Target(), RectQuad(0, 0, 4, 4, colors.White), 0, BlendDefault)
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 1)
	assert.False(t, p[0].Clipped)
	assert.Equal(t, [4][2]float64{{0, 0}, {4, 0}, {0, 4}, {4, 4}}, corners(p[0]))
}

func TestImagesShareAtlasTexture(t *testing.T) {
	g, dev := newTestGraphics(t)
	a, err := NewImage(g, checker(10, 10), Smooth)
	require.NoError(t, err)
	b, err := NewImage(g, checker(20, 5), Smooth)
	require.NoError(t, err)
	assert.Equal(t, KindChunk, a.Data().Kind())
	assert.Len(t, dev.textures, 1)
	assert.Equal(t, 128, dev.textures[0].size)

	ia, _ := a.Data().TextureInfo()
	ib, _ := b.Data().TextureInfo()
	assert.Same(t, ia.Texture, ib.Texture)

	_, err = NewImage(g, checker(10, 10), Retro)
	require.NoError(t, err)
	assert.Len(t, dev.textures, 2)
	assert.Equal(t, 2, g.Stats().Textures)
}

func TestAtlasOverflowAddsTexture(t *testing.T) {
	g, dev := newTestGraphics(t)
	for i := 0; i < 5; i++ {
		_, err := NewImage(g, checker(100, 100), Smooth)
		require.NoError(t, err)
	}
	assert.Len(t, dev.textures, 5)
}

func TestTextureReleasedWithLastImage(t *testing.T) {
	g, dev := newTestGraphics(t)
	a, err := NewImage(g, checker(10, 10), Smooth)
	require.NoError(t, err)
	b, err := NewImage(g, checker(10, 10), Smooth)
	require.NoError(t, err)

	a.Release()
	a.Release()
	assert.False(t, dev.textures[0].released)
	b.Release()
	assert.True(t, dev.textures[0].released)
	assert.Zero(t, g.Stats().Textures)

	// A fresh texture replaces the released one.
	_, err = NewImage(g, checker(10, 10), Smooth)
	require.NoError(t, err)
	assert.Len(t, dev.textures, 2)
}

func TestMacroKeepsTextureAlive(t *testing.T) {
	g, dev := newTestGraphics(t)
	img, err := NewImage(g, checker(8, 8), Smooth)
	require.NoError(t, err)
	d := g.Record(8, 8, func() { img.Draw(0, 0, 0) })

	img.Release()
	assert.False(t, dev.textures[0].released)
	d.Release()
	assert.True(t, dev.textures[0].released)
}

func TestToBitmapRoundTrip(t *testing.T) {
	g, _ := newTestGraphics(t)
	for _, flags := range []ImageFlags{Smooth, Tileable, Retro | TileableLeft} {
		src := checker(7, 5)
		img, err := NewImage(g, src, flags)
		require.NoError(t, err)
		got, err := img.ToBitmap()
		require.NoError(t, err)
		assert.Equal(t, src.Pixels(), got.Pixels(), "flags %v", flags)
	}
}

func TestImageFromRect(t *testing.T) {
	g, _ := newTestGraphics(t)
	src := checker(16, 16)
	r := image.Rect(3, 4, 11, 9)
	img, err := NewImageFromRect(g, src, r, Smooth)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width())
	assert.Equal(t, 5, img.Height())
	got, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, src.SubImage(r).Pixels(), got.Pixels())

	_, err = NewImageFromRect(g, src, image.Rect(10, 10, 20, 20), Smooth)
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)

	_, err = g.CreateDrawable(checker(10, 10), image.Rect(500, 500, 500, 520), Smooth)
	assert.ErrorIs(t, err, ErrRegionOutOfBounds, "empty regions are still bounds checked")

	empty, err := NewImageFromRect(g, src, image.Rect(4, 4, 4, 9), Smooth)
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, empty.Data().Kind())
}

func TestSubimage(t *testing.T) {
	g, dev := newTestGraphics(t)
	src := checker(8, 8)
	img, err := NewImage(g, src, Smooth)
	require.NoError(t, err)
	sub, err := img.Subimage(image.Rect(2, 2, 6, 6))
	require.NoError(t, err)
	got, err := sub.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, src.SubImage(image.Rect(2, 2, 6, 6)).Pixels(), got.Pixels())

	_, err = img.Subimage(image.Rect(4, 4, 10, 10))
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)

	img.Release()
	assert.False(t, dev.textures[0].released)
	sub.Release()
	assert.True(t, dev.textures[0].released)

	macro := ImageFromDrawable(g, g.Record(1, 1, func() {}))
	_, err = macro.Subimage(image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrNoSubimage)
}

func TestTiledCornersMatchParts(t *testing.T) {
	g, dev := newTestGraphics(t)
	// 126 is the largest part that fits a 128 texture with padding.
	img, err := NewImage(g, checker(252, 252), Smooth)
	require.NoError(t, err)
	require.Equal(t, KindTiled, img.Data().Kind())
	_, ok := img.Data().TextureInfo()
	assert.False(t, ok)

	g.BeginFrame(colors.Black)
	img.Draw(0, 0, 0)
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 4)
	for i, prim := range p {
		x, y := float64(i%2*126), float64(i/2*126)
		assert.Equal(t, corners(Primitive{Count: 4, Vertices: [4]Vertex{
			{X: x, Y: y}, {X: x + 126, Y: y}, {X: x, Y: y + 126}, {X: x + 126, Y: y + 126},
		}}), corners(prim), "part %d", i)
	}
}

func TestTiledToBitmap(t *testing.T) {
	g, _ := newTestGraphics(t)
	src := checker(200, 130)
	img, err := NewImage(g, src, Smooth)
	require.NoError(t, err)
	require.Equal(t, KindTiled, img.Data().Kind())
	got, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, src.Pixels(), got.Pixels())
}

func TestDedicatedTileableTexture(t *testing.T) {
	g, dev := newTestGraphics(t)
	src := checker(64, 64)
	img, err := NewImage(g, src, Tileable)
	require.NoError(t, err)
	require.Len(t, dev.textures, 1)
	assert.Equal(t, 64, dev.textures[0].size)
	info, ok := img.Data().TextureInfo()
	require.True(t, ok)
	assert.Equal(t, TextureInfo{Texture: dev.textures[0], Left: 0, Top: 0, Right: 1, Bottom: 1}, info)
	assert.Zero(t, g.Stats().Textures)

	got, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, src.Pixels(), got.Pixels())
}

func TestTextureCreationFailure(t *testing.T) {
	g, dev := newTestGraphics(t)
	dev.failTextures = true
	_, err := NewImage(g, checker(4, 4), Smooth)
	assert.ErrorIs(t, err, ErrTextureCreate)
}

func TestLetterbox(t *testing.T) {
	g, dev := newTestGraphics(t)
	g.SetResolution(100, 100, 200, 100)
	assert.Equal(t, 100, g.Width())

	g.BeginFrame(colors.Black)
	g.DrawRect(0, 0, 100, 100, colors.Red, 0, BlendDefault)
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 3)
	assert.Equal(t, [4][2]float64{{50, 0}, {150, 0}, {50, 100}, {150, 100}}, corners(p[0]))
	assert.Equal(t, colors.Black, p[1].Vertices[0].Color)
	assert.Equal(t, [4][2]float64{{0, 0}, {50, 0}, {0, 100}, {50, 100}}, corners(p[1]))
	assert.Equal(t, [4][2]float64{{150, 0}, {200, 0}, {150, 100}, {200, 100}}, corners(p[2]))

	x, y := g.ScreenToLogical(60, 10)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestRenderToImage(t *testing.T) {
	g, dev := newTestGraphics(t)
	img, err := g.Render(4, 3, func() {
		g.DrawRect(0, 0, 4, 3, colors.Red, 0, BlendDefault)
		g.Flush()
	}, Smooth)
	require.NoError(t, err)
	require.Len(t, dev.calls, 1)
	assert.True(t, dev.calls[0].offscreen)

	b, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 3, b.Height())
	assert.Equal(t, dev.renderFill, b.Pixel(3, 2))
}

func TestMacroToBitmapRendersOffscreen(t *testing.T) {
	g, dev := newTestGraphics(t)
	d := g.Record(2, 2, func() {
		g.DrawRect(0, 0, 2, 2, colors.Red, 0, BlendDefault)
	})
	b, err := d.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, 2, b.Width())
	require.Len(t, dev.calls, 1)
	assert.True(t, dev.calls[0].offscreen)
}

func TestErrorsWrapSentinels(t *testing.T) {
	g, _ := newTestGraphics(t)
	g.BeginFrame(colors.Black)
	g.Target().BeginClip(0, 0, 1, 1)
	defer func() {
		err, _ := recover().(error)
		assert.True(t, errors.Is(err, ErrUnbalancedClip))
	}()
	g.EndFrame()
}

type solidDrawer struct{ c colors.Color }

func (solidDrawer) Width() int  { return 4 }
func (solidDrawer) Height() int { return 2 }
func (s solidDrawer) Draw(t *Target, q Quad, z ZPos, mode BlendMode) {
	for i := range q {
		q[i].Color = q[i].Color.Multiply(s.c)
	}
	t.DrawQuad(q, z, mode)
}

func TestCustomDrawable(t *testing.T) {
	g, dev := newTestGraphics(t)
	d := NewCustomDrawable(g, solidDrawer{c: colors.Red})
	assert.Equal(t, KindCustom, d.Kind())
	img := ImageFromDrawable(g, d)
	assert.Equal(t, 4, img.Width())

	g.BeginFrame(colors.Black)
	img.Draw(10, 20, 0, WithScale(2, 3))
	g.EndFrame()

	p := dev.prims()
	require.Len(t, p, 1)
	assert.Equal(t, [4][2]float64{{10, 20}, {18, 20}, {10, 26}, {18, 26}}, corners(p[0]))
	assert.Equal(t, colors.Red, p[0].Vertices[0].Color)

	b, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, dev.renderFill, b.Pixel(3, 1))
}
