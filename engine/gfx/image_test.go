package gfx

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
)

func drawOnce(t *testing.T, g *Graphics, dev *fakeDevice, fn func()) Primitive {
	t.Helper()
	dev.reset()
	g.BeginFrame(colors.Black)
	fn()
	g.EndFrame()
	p := dev.prims()
	require.Len(t, p, 1)
	return p[0]
}

func assertCorners(t *testing.T, want [4][2]float64, p Primitive) {
	t.Helper()
	got := corners(p)
	for i := range want {
		assert.InDelta(t, want[i][0], got[i][0], 1e-9, "corner %d x", i)
		assert.InDelta(t, want[i][1], got[i][1], 1e-9, "corner %d y", i)
	}
}

func TestImageDraw(t *testing.T) {
	g, dev := newTestGraphics(t)
	img, err := NewImage(g, checker(10, 20), Smooth)
	require.NoError(t, err)

	p := drawOnce(t, g, dev, func() { img.Draw(5, 5, 0) })
	assertCorners(t, [4][2]float64{{5, 5}, {15, 5}, {5, 25}, {15, 25}}, p)
	assert.Equal(t, colors.White, p.Vertices[0].Color)

	p = drawOnce(t, g, dev, func() { img.Draw(5, 5, 0, WithScale(-1, 2), WithColor(colors.Red)) })
	assertCorners(t, [4][2]float64{{5, 5}, {-5, 5}, {5, 45}, {-5, 45}}, p)
	assert.Equal(t, colors.Red, p.Vertices[3].Color)

	// UVs skip the one-pixel padding around the block.
	info, ok := img.Data().TextureInfo()
	require.True(t, ok)
	assert.InDelta(t, 1.0/128, info.Left, 1e-12)
	assert.InDelta(t, info.Left, p.Vertices[0].U, 1e-12)
	assert.InDelta(t, info.Bottom, p.Vertices[3].V, 1e-12)
}

func TestImageDrawRot(t *testing.T) {
	g, dev := newTestGraphics(t)
	img, err := NewImage(g, checker(10, 20), Smooth)
	require.NoError(t, err)

	p := drawOnce(t, g, dev, func() { img.DrawRot(100, 100, 0, 0) })
	assertCorners(t, [4][2]float64{{95, 90}, {105, 90}, {95, 110}, {105, 110}}, p)

	// Clockwise quarter turn around the middle.
	p = drawOnce(t, g, dev, func() { img.DrawRot(100, 100, 0, 90) })
	assertCorners(t, [4][2]float64{{110, 95}, {110, 105}, {90, 95}, {90, 105}}, p)

	// With the center at the top-left corner, angle 0 matches Draw.
	p = drawOnce(t, g, dev, func() { img.DrawRot(7, 3, 0, 0, WithCenter(0, 0), WithScale(2, 1)) })
	assertCorners(t, [4][2]float64{{7, 3}, {27, 3}, {7, 23}, {27, 23}}, p)
}

func TestDrawAsQuad(t *testing.T) {
	g, dev := newTestGraphics(t)
	img, err := NewImage(g, checker(4, 4), Smooth)
	require.NoError(t, err)
	q := Quad{
		{X: 0, Y: 0, Color: colors.Red},
		{X: 10, Y: 2, Color: colors.Green},
		{X: 1, Y: 9, Color: colors.Blue},
		{X: 12, Y: 12, Color: colors.White},
	}
	p := drawOnce(t, g, dev, func() { img.DrawAsQuad(q, 0, BlendAdditive) })
	assertCorners(t, [4][2]float64{{0, 0}, {10, 2}, {1, 9}, {12, 12}}, p)
	assert.Equal(t, colors.Blue, p.Vertices[2].Color)
	assert.Equal(t, BlendAdditive, p.Blend)
}

func TestLoadTiles(t *testing.T) {
	g, _ := newTestGraphics(t)
	src := checker(32, 20)

	tiles, err := LoadTiles(g, src, 8, 10, Retro)
	require.NoError(t, err)
	require.Len(t, tiles, 8)
	assert.Equal(t, 8, tiles[0].Width())

	got, err := tiles[5].ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, src.SubImage(image.Rect(8, 10, 16, 20)).Pixels(), got.Pixels())

	tiles, err = LoadTiles(g, src, -2, -4, Smooth)
	require.NoError(t, err)
	require.Len(t, tiles, 8)
	assert.Equal(t, 16, tiles[0].Width())
	assert.Equal(t, 5, tiles[0].Height())

	_, err = LoadTiles(g, src, 64, 10, Smooth)
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)
}

func TestLoadImage(t *testing.T) {
	g, _ := newTestGraphics(t)
	src := checker(6, 6)
	path := t.TempDir() + "/img.png"
	require.NoError(t, bitmap.Save(src, path))

	img, err := LoadImage(g, path, Smooth)
	require.NoError(t, err)
	got, err := img.ToBitmap()
	require.NoError(t, err)
	assert.Equal(t, src.Pixels(), got.Pixels())

	_, err = LoadImage(g, t.TempDir()+"/missing.png", Smooth)
	assert.Error(t, err)
}
