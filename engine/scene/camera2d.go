// Package scene holds 2D cameras that turn world coordinates into the
// graphics transform stack.
package scene

import (
	"math"

	"github.com/hubastard/gosu/engine/gfx"
)

const minZoom = 0.05

// OrthoCamera2D looks at a point of the world with rotation and zoom. The
// point is shown at the center of the viewport.
type OrthoCamera2D struct {
	Width, Height float64
	X, Y          float64
	RotationRad   float64
	Zoom          float64 // 1 = no zoom
	view          gfx.Transform
	dirty         bool
}

func NewOrtho2D(width, height int) *OrthoCamera2D {
	c := &OrthoCamera2D{Zoom: 1}
	c.SetViewportPixels(width, height)
	c.Recalculate()
	return c
}

func (c *OrthoCamera2D) SetViewportPixels(w, h int) {
	c.Width, c.Height = float64(w), float64(h)
	c.dirty = true
}

func (c *OrthoCamera2D) SetPosition(x, y float64) { c.X, c.Y = x, y; c.dirty = true }
func (c *OrthoCamera2D) Move(dx, dy float64)      { c.X += dx; c.Y += dy; c.dirty = true }
func (c *OrthoCamera2D) Rotate(dRad float64)      { c.RotationRad += dRad; c.dirty = true }
func (c *OrthoCamera2D) SetZoom(z float64) {
	c.Zoom = max(z, minZoom)
	c.dirty = true
}

// View maps world coordinates to viewport coordinates.
func (c *OrthoCamera2D) View() gfx.Transform {
	if c.dirty {
		c.Recalculate()
	}
	return c.view
}

func (c *OrthoCamera2D) Recalculate() {
	c.view = gfx.Translate(-c.X, -c.Y).
		Then(gfx.Rotate(-c.RotationRad * 180 / math.Pi)).
		Then(gfx.Scale(c.Zoom, c.Zoom)).
		Then(gfx.Translate(c.Width/2, c.Height/2))
	c.dirty = false
}

// ScreenToWorld maps a viewport point back into the world.
func (c *OrthoCamera2D) ScreenToWorld(x, y float64) (float64, float64) {
	inv, ok := c.View().Invert()
	if !ok {
		return x, y
	}
	return inv.Apply(x, y)
}

// Apply runs body with the camera's view pushed on the transform stack.
func (c *OrthoCamera2D) Apply(g *gfx.Graphics, body func()) {
	g.Transform(c.View(), body)
}
