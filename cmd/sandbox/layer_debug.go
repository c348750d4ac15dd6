package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/core"
	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/profiler"
	"github.com/hubastard/gosu/engine/text"
	"github.com/hubastard/gosu/engine/ui"
)

// overlayZ keeps the overlay above the scene.
const overlayZ gfx.ZPos = 1000

// ------- Stats overlay -------
type LayerDebug struct {
	font          *text.Font
	frameDuration float64
	tick          int
}

func (l *LayerDebug) OnAttach(e *core.Engine) {}

func (l *LayerDebug) OnDetach(e *core.Engine) {}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	defer e.Profiler.Start("LayerDebug.OnRender")()

	g := e.Graphics
	stats := g.Stats()
	rt := profiler.ReadRuntime()
	fps := 0.0
	if l.frameDuration > 0 {
		fps = 1000.0 / l.frameDuration
	}

	ui.View(
		ui.View(
			ui.Label(fmt.Sprintf("Tick: %d", l.tick)).Padding4(0, 0, 0, 8).Color(colors.Yellow),
			ui.Label(fmt.Sprintf("%2.3f ms (%.2f FPS)", l.frameDuration, fps)),
			ui.Label("Graphics").Padding4(0, 8, 0, 0).Color(colors.Yellow),
			ui.Label(fmt.Sprintf("Ops: %d (clipped %d)", stats.Ops, stats.Dropped)),
			ui.Label(fmt.Sprintf("Batches: %d", stats.Batches)),
			ui.Label(fmt.Sprintf("Textures: %d", stats.Textures)),
			ui.Label(fmt.Sprintf("Glyphs: %d", l.font.Glyphs())),
			ui.Label("Memory").Padding4(0, 8, 0, 0).Color(colors.Yellow),
			ui.Label(fmt.Sprintf("Heap: %.3f MB", float64(rt.HeapAlloc)/(1<<20))),
			ui.Label(fmt.Sprintf("Allocs: %d", rt.Mallocs)),
			ui.Label(fmt.Sprintf("Goroutines: %d", rt.Goroutines)),
			ui.Label("Ctrl+P dumps a speedscope profile").Color(colors.Gray),
		).
			FlowDirection(ui.LayoutVertical).
			Gap(2).
			Padding(12).
			BgColor(colors.Black.WithAlpha(128)),
	).
		Padding(16).
		FlowDirection(ui.LayoutVertical).
		Draw(&ui.Context{
			Graphics:    g,
			Viewport:    [4]float64{0, 0, float64(g.Width()), float64(g.Height())},
			DefaultFont: l.font,
			Z:           overlayZ,
		})
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	if v, ok := ev.(core.EventKey); ok && v.Down && v.Key == core.KeyP && (v.Mods&core.ModCtrl) != 0 {
		path := filepath.Join(os.TempDir(), "gosu.profile.speedscope.json")
		if err := e.Profiler.SaveSpeedscope(path); err != nil {
			gfx.Logger().Warn("profiler dump failed", "err", err)
		} else {
			gfx.Logger().Info("profiler dump written", "path", path)
		}
		return true
	}
	return false
}
