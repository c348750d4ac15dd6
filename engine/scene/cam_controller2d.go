package scene

import "github.com/hubastard/gosu/engine/core"

// OrthoController2D: WASD move, Q/E rotate, Z/X zoom in/out, mouse wheel
// zoom.
type OrthoController2D struct {
	MoveSpeed float64 // world units per second at zoom 1
	RotSpeed  float64 // radians per second
	ZoomSpeed float64 // zoom factor per second
	Camera    *OrthoCamera2D
}

func NewOrthoController2D(cam *OrthoCamera2D) *OrthoController2D {
	return &OrthoController2D{
		MoveSpeed: 200,
		RotSpeed:  2.0,
		ZoomSpeed: 1.2,
		Camera:    cam,
	}
}

func (cc *OrthoController2D) Update(in *core.Input, dt float64) {
	speed := cc.MoveSpeed * dt / cc.Camera.Zoom
	rotSpeed := cc.RotSpeed * dt

	// y grows downwards on screen
	if in.IsKeyDown(core.KeyW) {
		cc.Camera.Move(0, -speed)
	}
	if in.IsKeyDown(core.KeyS) {
		cc.Camera.Move(0, speed)
	}
	if in.IsKeyDown(core.KeyA) {
		cc.Camera.Move(-speed, 0)
	}
	if in.IsKeyDown(core.KeyD) {
		cc.Camera.Move(speed, 0)
	}
	if in.IsKeyDown(core.KeyQ) {
		cc.Camera.Rotate(-rotSpeed)
	}
	if in.IsKeyDown(core.KeyE) {
		cc.Camera.Rotate(rotSpeed)
	}
	if in.IsKeyDown(core.KeyZ) {
		cc.Camera.SetZoom(cc.Camera.Zoom * (1 + (cc.ZoomSpeed-1)*dt))
	}
	if in.IsKeyDown(core.KeyX) {
		cc.Camera.SetZoom(cc.Camera.Zoom / (1 + (cc.ZoomSpeed-1)*dt))
	}
}

// HandleEvent zooms on scroll and reports whether it used the event.
func (cc *OrthoController2D) HandleEvent(ev core.Event) bool {
	s, ok := ev.(core.EventScroll)
	if !ok || s.Yoff == 0 {
		return false
	}
	if s.Yoff > 0 {
		cc.Camera.SetZoom(cc.Camera.Zoom * cc.ZoomSpeed)
	} else {
		cc.Camera.SetZoom(cc.Camera.Zoom / cc.ZoomSpeed)
	}
	return true
}
