package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gosu/engine/colors"
)

func assertPoint(t *testing.T, wantX, wantY, x, y float64) {
	t.Helper()
	assert.InDelta(t, wantX, x, 1e-9, "x")
	assert.InDelta(t, wantY, y, 1e-9, "y")
}

func TestTransformThenOrder(t *testing.T) {
	m := Scale(2, 2).Then(Translate(10, 0))
	x, y := m.Apply(1, 1)
	assertPoint(t, 12, 2, x, y)

	m = Translate(10, 0).Then(Scale(2, 2))
	x, y = m.Apply(1, 1)
	assertPoint(t, 22, 2, x, y)
}

func TestRotateIsClockwise(t *testing.T) {
	x, y := Rotate(90).Apply(1, 0)
	assertPoint(t, 0, 1, x, y)

	x, y = RotateAround(180, 5, 5).Apply(0, 0)
	assertPoint(t, 10, 10, x, y)
}

func TestInvert(t *testing.T) {
	m := Rotate(30).Then(Scale(2, 3)).Then(Translate(4, -7))
	inv, ok := m.Invert()
	require.True(t, ok)
	x, y := m.Then(inv).Apply(3, 9)
	assertPoint(t, 3, 9, x, y)

	_, ok = Scale(0, 1).Invert()
	assert.False(t, ok)
}

func TestOffsetAngles(t *testing.T) {
	assertPoint(t, 0, -10, OffsetX(0, 10), OffsetY(0, 10))
	assertPoint(t, 10, 0, OffsetX(90, 10), OffsetY(90, 10))
	assertPoint(t, 0, 10, OffsetX(180, 10), OffsetY(180, 10))
}

func TestQuadMapHitsCorners(t *testing.T) {
	q := Quad{
		{X: 0, Y: 0, Color: colors.White},
		{X: 100, Y: 10, Color: colors.White},
		{X: 5, Y: 50, Color: colors.White},
		{X: 80, Y: 90, Color: colors.White},
	}
	m := newQuadMap(20, 10, q)
	for i, p := range [4][2]float64{{0, 0}, {20, 0}, {0, 10}, {20, 10}} {
		x, y, _, _ := m.apply(p[0], p[1])
		assertPoint(t, q[i].X, q[i].Y, x, y)
	}

	// A parallelogram maps affinely, so the center lands on the centroid.
	m = newQuadMap(2, 2, RectQuad(10, 10, 4, 8, colors.White))
	x, y, u, v := m.apply(1, 1)
	assertPoint(t, 12, 14, x, y)
	assertPoint(t, 0.5, 0.5, u, v)
}
