package core

import (
	"time"

	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/profiler"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/graphics init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // draw inside the frame, interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Graphics *gfx.Graphics
	Input    *Input
	Layers   LayerStack
	Config   Config
	Profiler *profiler.Profiler // nil unless Config.ProfileEvents > 0
	start    time.Time
	frames   uint64
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Frames returns the number of frames drawn so far.
func (e *Engine) Frames() uint64 { return e.frames }

// PushLayer attaches l on top of the stack.
func (e *Engine) PushLayer(l Layer) {
	e.Layers.Push(l)
	l.OnAttach(e)
}

// PopLayer detaches the top layer.
func (e *Engine) PopLayer() (Layer, bool) {
	l, ok := e.Layers.Pop()
	if ok {
		l.OnDetach(e)
	}
	return l, ok
}

// MouseLogical returns the cursor in logical drawing coordinates.
func (e *Engine) MouseLogical() (float64, float64) {
	x, y := e.Input.Mouse()
	return e.Graphics.ScreenToLogical(x, y)
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	// Size is the window's client area in points.
	Size() (int, int)
	// FramebufferSize is the client area in pixels.
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

// EventResize reports the new window size in points.
type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button int
	Down   bool
	Mods   Mod
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyZ
	KeyX
	KeyP
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
