package main

import (
	"flag"
	"log"
	"time"

	"github.com/hubastard/gosu/engine/core"
	"github.com/hubastard/gosu/engine/platform"
	"github.com/hubastard/gosu/engine/text"
)

type App struct {
	lastFrame  time.Time
	tick       int
	font       *text.Font
	layer      *Layer2D
	debugLayer *LayerDebug
}

func (a *App) OnStart(e *core.Engine) {
	var err error
	a.font, err = text.DefaultFont(e.Graphics, 18)
	if err != nil {
		panic(err)
	}

	// push the 2D demo layer
	a.layer = &Layer2D{font: a.font}
	e.PushLayer(a.layer)

	a.debugLayer = &LayerDebug{font: a.font}
	e.PushLayer(a.debugLayer)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++
	a.debugLayer.tick = a.tick
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.debugLayer.frameDuration = now.Sub(a.lastFrame).Seconds() * 1000.0
	}
	a.lastFrame = now
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {}

func (a *App) OnShutdown(e *core.Engine) {
	if a.font != nil {
		_ = a.font.Close()
	}
}

func main() {
	configPath := flag.String("config", "sandbox.toml", "engine config file (TOML)")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ProfileEvents == 0 {
		cfg.ProfileEvents = 1 << 16
	}

	var win *platform.GLFWWindow
	newWindow := func(cfg core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(cfg, nil)
		win = w
		return w, err
	}
	err = core.Run(&App{}, cfg, newWindow, platform.NewGLDevice)
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		log.Fatal(err)
	}
}
