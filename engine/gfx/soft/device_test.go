package soft_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/gfx/soft"
)

func newGraphics(t *testing.T, w, h int) (*gfx.Graphics, *soft.Device) {
	t.Helper()
	dev := soft.New(256)
	return gfx.New(dev, w, h, gfx.Config{TextureSize: 128}), dev
}

func frame(g *gfx.Graphics, body func()) {
	g.BeginFrame(colors.Black)
	body()
	g.EndFrame()
}

func count(b *bitmap.Bitmap, c colors.Color) int {
	n := 0
	for _, p := range b.Pixels() {
		if p == c {
			n++
		}
	}
	return n
}

func pattern(w, h int) *bitmap.Bitmap {
	b := bitmap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetPixel(x, y, colors.RGBA(uint8(40*x), uint8(40*y), uint8(255-20*x), 255))
		}
	}
	return b
}

func TestRectCoversExactPixels(t *testing.T) {
	g, dev := newGraphics(t, 8, 8)
	frame(g, func() {
		g.DrawRect(2, 2, 4, 4, colors.Red, 0, gfx.BlendDefault)
	})
	screen := dev.Screen()
	assert.Equal(t, 16, count(screen, colors.Red))
	assert.Equal(t, colors.Red, screen.Pixel(2, 2))
	assert.Equal(t, colors.Red, screen.Pixel(5, 5))
	assert.Equal(t, colors.Black, screen.Pixel(6, 6))
	assert.Equal(t, 1, dev.Primitives())
}

func TestQuadDiagonalIsNotBlendedTwice(t *testing.T) {
	g, dev := newGraphics(t, 8, 8)
	half := colors.White.WithAlpha(128)
	frame(g, func() {
		g.DrawRect(0, 0, 8, 8, half, 0, gfx.BlendDefault)
	})
	screen := dev.Screen()
	first := screen.Pixel(0, 0)
	assert.Equal(t, 64, count(screen, first))
	assert.Equal(t, uint8(128), first.Red())
}

func TestZOrderAndClip(t *testing.T) {
	g, dev := newGraphics(t, 8, 8)
	frame(g, func() {
		g.DrawRect(0, 0, 8, 8, colors.Red, 1, gfx.BlendDefault)
		g.Clip(0, 0, 4, 4, func() {
			g.DrawRect(0, 0, 8, 8, colors.Blue, 2, gfx.BlendDefault)
		})
		g.DrawRect(0, 0, 8, 8, colors.Green, 0, gfx.BlendDefault)
	})
	screen := dev.Screen()
	assert.Equal(t, 16, count(screen, colors.Blue))
	assert.Equal(t, 48, count(screen, colors.Red))
	assert.Zero(t, count(screen, colors.Green))
}

func TestAdditiveBlend(t *testing.T) {
	g, dev := newGraphics(t, 2, 2)
	frame(g, func() {
		g.DrawRect(0, 0, 2, 2, colors.Red, 0, gfx.BlendAdditive)
		g.DrawRect(0, 0, 2, 2, colors.Green, 0, gfx.BlendAdditive)
	})
	assert.Equal(t, colors.Yellow, dev.Screen().Pixel(1, 1))
}

func TestLine(t *testing.T) {
	g, dev := newGraphics(t, 8, 8)
	frame(g, func() {
		g.DrawLine(0, 3.5, colors.White, 8, 3.5, colors.White, 0, gfx.BlendDefault)
	})
	screen := dev.Screen()
	assert.Equal(t, 8, count(screen, colors.White))
	for x := 0; x < 8; x++ {
		assert.Equal(t, colors.White, screen.Pixel(x, 3))
	}
}

func TestImagePixelsReachScreen(t *testing.T) {
	for _, flags := range []gfx.ImageFlags{gfx.Smooth, gfx.Retro, gfx.Tileable} {
		g, dev := newGraphics(t, 8, 8)
		src := pattern(5, 4)
		img, err := gfx.NewImage(g, src, flags)
		require.NoError(t, err)
		frame(g, func() { img.Draw(1, 2, 0) })

		want := bitmap.New(8, 8)
		for i := range want.Pixels() {
			want.Pixels()[i] = colors.Black
		}
		want.Insert(src, 1, 2)
		assert.Equal(t, want.Pixels(), dev.Screen().Pixels(), "flags %v", flags)
	}
}

func TestRecordingMatchesDirectDrawing(t *testing.T) {
	g, dev := newGraphics(t, 16, 16)
	img, err := gfx.NewImage(g, pattern(4, 4), gfx.Retro)
	require.NoError(t, err)

	scene := func() {
		g.DrawRect(0, 0, 6, 6, colors.Red, 0, gfx.BlendDefault)
		img.Draw(2, 2, 1)
		g.DrawTriangle(
			gfx.Corner{X: 8, Y: 0, Color: colors.Green},
			gfx.Corner{X: 16, Y: 0, Color: colors.Green},
			gfx.Corner{X: 8, Y: 8, Color: colors.Green},
			2, gfx.BlendDefault)
	}

	frame(g, func() { g.Translate(0, 4, scene) })
	direct := dev.Screen()

	macro := gfx.ImageFromDrawable(g, g.Record(16, 16, scene))
	frame(g, func() { macro.Draw(0, 4, 0) })
	assert.Equal(t, direct.Pixels(), dev.Screen().Pixels())
}

func TestRenderToImage(t *testing.T) {
	g, _ := newGraphics(t, 8, 8)
	img, err := g.Render(4, 2, func() {
		g.DrawRect(0, 0, 2, 2, colors.Red, 0, gfx.BlendDefault)
		g.DrawRect(2, 0, 2, 2, colors.Blue, 0, gfx.BlendDefault)
	}, gfx.Retro)
	require.NoError(t, err)

	b, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, []colors.Color{
		colors.Red, colors.Red, colors.Blue, colors.Blue,
		colors.Red, colors.Red, colors.Blue, colors.Blue,
	}, b.Pixels())
}

func TestMacroToBitmap(t *testing.T) {
	g, _ := newGraphics(t, 8, 8)
	d := g.Record(2, 2, func() {
		g.DrawRect(0, 0, 1, 2, colors.Green, 0, gfx.BlendDefault)
	})
	b, err := d.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, []colors.Color{colors.Green, colors.None, colors.Green, colors.None}, b.Pixels())
}

func TestLetterboxBars(t *testing.T) {
	g, dev := newGraphics(t, 8, 4)
	g.SetResolution(4, 4, 8, 4)
	g.BeginFrame(colors.White)
	g.DrawRect(0, 0, 4, 4, colors.Red, 0, gfx.BlendDefault)
	g.EndFrame()

	screen := dev.Screen()
	assert.Equal(t, colors.Black, screen.Pixel(0, 0))
	assert.Equal(t, colors.Red, screen.Pixel(2, 0))
	assert.Equal(t, colors.Red, screen.Pixel(5, 3))
	assert.Equal(t, colors.Black, screen.Pixel(7, 3))
}

func TestTextureSizeLimit(t *testing.T) {
	dev := soft.New(64)
	_, err := dev.NewTexture(128, false)
	assert.ErrorIs(t, err, soft.ErrTextureSize)
}
