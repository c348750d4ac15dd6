package core

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/profiler"
)

// Stepper converts variable frame times into fixed update steps.
type Stepper struct {
	Tick     time.Duration
	MaxSteps int // prevents the spiral of death
	accum    time.Duration
}

func NewStepper(rate, maxSteps int) *Stepper {
	return &Stepper{Tick: time.Second / time.Duration(rate), MaxSteps: maxSteps}
}

// Advance adds a frame's duration and returns how many fixed updates to run
// and the interpolation factor left over. Time beyond MaxSteps is dropped.
func (s *Stepper) Advance(frame time.Duration) (steps int, alpha float64) {
	s.accum += frame
	for s.accum >= s.Tick && (s.MaxSteps <= 0 || steps < s.MaxSteps) {
		s.accum -= s.Tick
		steps++
	}
	if s.accum >= s.Tick {
		s.accum %= s.Tick
	}
	return steps, float64(s.accum) / float64(s.Tick)
}

// framebufferSizer is implemented by devices that draw to the window in
// pixels rather than points.
type framebufferSizer interface {
	SetFramebufferSize(w, h int)
}

// Run wires the platform window and graphics device and executes the main
// loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newDevice func(Window) (gfx.Device, error)) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if l := cfg.logger(); l != nil {
		gfx.SetLogger(l)
	}
	log := gfx.Logger()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	dev, err := newDevice(win)
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}

	lw, lh := cfg.LogicalSize()
	eng := &Engine{
		Window:   win,
		Graphics: gfx.New(dev, lw, lh, cfg.Graphics),
		Input:    NewInput(),
		Config:   cfg,
		start:    time.Now(),
	}
	if cfg.ProfileEvents > 0 {
		eng.Profiler = profiler.New(cfg.ProfileEvents)
	}
	resize := func() {
		w, h := win.Size()
		fw, fh := win.FramebufferSize()
		if w < 1 || h < 1 || fw < 1 || fh < 1 {
			return
		}
		if s, ok := dev.(framebufferSizer); ok {
			s.SetFramebufferSize(fw, fh)
		}
		eng.Graphics.SetResolution(lw, lh, w, h)
		eng.Graphics.SetClipScale(clipScale(w, fw))
	}
	resize()

	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		switch ev.(type) {
		case EventResize:
			resize()
		case EventCloseRequested:
			win.RequestClose()
		}
		handled := false
		eng.Layers.ForEachReverse(func(l Layer) bool {
			handled = l.OnEvent(eng, ev)
			return handled
		})
		if !handled {
			app.OnEvent(eng, ev)
		}
	})

	log.Info("engine start", "title", cfg.Title, "logical", fmt.Sprintf("%dx%d", lw, lh))
	app.OnStart(eng)

	stepper := NewStepper(cfg.TickRate, cfg.MaxSteps)
	dt := stepper.Tick.Seconds()
	prev := time.Now()
	for !win.ShouldClose() {
		now := time.Now()
		frame := now.Sub(prev)
		prev = now

		// Poll OS events (platform emits via callbacks)
		win.PollEvents()

		endFrame := eng.Profiler.Start("frame")
		steps, alpha := stepper.Advance(frame)
		endUpdate := eng.Profiler.Start("update")
		for range steps {
			app.OnUpdate(eng, dt)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
		}
		endUpdate()

		endRender := eng.Profiler.Start("render")
		eng.Graphics.BeginFrame(cfg.ClearColor)
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		eng.Graphics.EndFrame()
		endRender()
		eng.frames++

		win.SwapBuffers()
		endFrame()
	}

	for eng.Layers.Len() > 0 {
		eng.PopLayer()
	}
	app.OnShutdown(eng)
	log.Info("engine exit", "frames", eng.frames, "uptime", eng.Uptime())
	return nil
}

// clipScale is the integer pixels-per-point factor used for clip rectangles.
// Fractional content scales round to the nearest integer, so clips on a 1.5x
// display are scaled by 2.
func clipScale(points, pixels int) int {
	if points < 1 {
		return 1
	}
	return max(1, int(math.Round(float64(pixels)/float64(points))))
}
