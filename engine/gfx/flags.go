package gfx

import "github.com/hubastard/gosu/engine/bitmap"

// ImageFlags control how image data is filtered and how its edges behave
// when drawn next to each other.
type ImageFlags uint8

const (
	// Smooth is the default: linear filtering, soft edges.
	Smooth ImageFlags = 0

	// TileableLeft and its siblings give that edge a hard border so
	// adjacent images meet without a visible seam.
	TileableLeft ImageFlags = 1 << iota
	TileableTop
	TileableRight
	TileableBottom

	// Retro samples with nearest-neighbor filtering. Retro images never
	// share a texture with smooth ones.
	Retro
)

// Tileable makes all four edges hard.
const Tileable = TileableLeft | TileableTop | TileableRight | TileableBottom

func (f ImageFlags) edges() bitmap.Edges {
	return bitmap.Edges{
		Left:   f&TileableLeft != 0,
		Top:    f&TileableTop != 0,
		Right:  f&TileableRight != 0,
		Bottom: f&TileableBottom != 0,
	}
}

func (f ImageFlags) retro() bool { return f&Retro != 0 }
