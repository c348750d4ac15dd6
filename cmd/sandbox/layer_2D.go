package main

import (
	"math"

	"github.com/hubastard/gosu/engine/bitmap"
	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/core"
	"github.com/hubastard/gosu/engine/gfx"
	"github.com/hubastard/gosu/engine/scene"
	"github.com/hubastard/gosu/engine/text"
)

const tileSize = 32

// ------- A simple 2D Layer demo -------
type Layer2D struct {
	cam     *scene.OrthoCamera2D
	ctrl    *scene.OrthoController2D
	font    *text.Font
	tiles   []*gfx.Image
	player  *gfx.Image
	banner  *gfx.Image
	pattern gfx.Drawable
	t       float64
}

// spriteSheet loads sheet.png next to the binary, or paints a 4x4 sheet of
// colored tiles when it is missing.
func spriteSheet() *bitmap.Bitmap {
	if b, err := bitmap.Load("sheet.png"); err == nil {
		return b
	}
	palette := []colors.Color{colors.Red, colors.Green, colors.Blue, colors.Yellow,
		colors.Cyan, colors.Magenta, colors.Gray, colors.White}
	b := bitmap.New(4*tileSize, 4*tileSize)
	for ty := 0; ty < 4; ty++ {
		for tx := 0; tx < 4; tx++ {
			c := palette[(ty*4+tx)%len(palette)]
			for y := 0; y < tileSize; y++ {
				for x := 0; x < tileSize; x++ {
					px := c
					if (x/8+y/8)%2 == 1 {
						px = c.Lerp(colors.Black, 0.4)
					}
					if x == 0 || y == 0 {
						px = colors.Black
					}
					b.SetPixel(tx*tileSize+x, ty*tileSize+y, px)
				}
			}
		}
	}
	return b
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	g := e.Graphics
	l.cam = scene.NewOrtho2D(g.Width(), g.Height())
	l.ctrl = scene.NewOrthoController2D(l.cam)

	var err error
	l.tiles, err = gfx.LoadTiles(g, spriteSheet(), -4, -4, gfx.Tileable|gfx.Retro)
	if err != nil {
		panic(err)
	}
	l.player = l.tiles[5]

	l.banner, err = l.font.TextImage("The quick brown fox jumps over the lazy dog, justified across a fixed width.",
		220, text.AlignJustify, gfx.Smooth)
	if err != nil {
		panic(err)
	}

	// A recorded block of tiles, replayed many times below.
	l.pattern = g.Record(4*tileSize, 2*tileSize, func() {
		for i := 0; i < 8; i++ {
			l.tiles[i].Draw(float64(i%4*tileSize), float64(i/4*tileSize), 0)
		}
	})
}

func (l *Layer2D) OnDetach(e *core.Engine) {
	for _, t := range l.tiles {
		t.Release()
	}
	l.banner.Release()
	l.pattern.Release()
}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e.Input, dt)
	l.t += dt

	if e.Input.IsKeyDown(core.KeyEscape) {
		e.Window.RequestClose()
	}
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	g := e.Graphics
	defer e.Profiler.Start("Layer2D.OnRender")()

	l.cam.Apply(g, func() {
		// ground
		for y := -4; y < 4; y++ {
			for x := -6; x < 6; x++ {
				l.tiles[(x+y+16)%4].Draw(float64(x*tileSize), float64(y*tileSize), 0)
			}
		}

		// macro copies, tinted and stretched
		for i := 0; i < 3; i++ {
			q := gfx.RectQuad(float64(-200+i*140), 160, 128, 64+float64(i)*16,
				colors.White.Lerp(colors.Cyan, float64(i)/2))
			l.pattern.Draw(g.Target(), q, 1, gfx.BlendDefault)
		}

		// spinning sprites above the ground
		angle := l.t * 90
		l.player.DrawRot(0, 0, 2, angle, gfx.WithScale(2, 2))
		l.tiles[9].DrawRot(-120, -60, 2, -angle, gfx.WithCenter(0, 0))
		l.tiles[3].DrawRot(120, -60, 2, angle, gfx.WithBlend(gfx.BlendAdditive),
			gfx.WithColor(colors.White.WithAlpha(160)))
	})

	// a clipped window into a scrolling strip of tiles
	w := float64(g.Width())
	g.Clip(w-260, 40, 220, 80, func() {
		g.DrawRect(w-260, 40, 220, 80, colors.Black.WithAlpha(200), 3, gfx.BlendDefault)
		off := math.Mod(l.t*60, tileSize*4)
		for i := 0; i < 12; i++ {
			l.tiles[i%16].Draw(w-300+float64(i*tileSize)-off, 64, 4)
		}
	})

	l.banner.Draw(w-260, 140, 4, gfx.WithColor(colors.Yellow))
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool {
	return l.ctrl.HandleEvent(ev)
}
