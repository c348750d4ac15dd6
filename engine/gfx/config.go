package gfx

// Default atlas texture edge length in pixels.
const DefaultTextureSize = 1024

// Config tunes the graphics facade. Zero fields take defaults.
type Config struct {
	// TextureSize is the edge length of shared atlas textures. It is capped
	// by the device's maximum texture size.
	TextureSize int `toml:"texture_size"`

	// ClipScale converts window points into framebuffer pixels for clip
	// rectangles (2 on most high-DPI displays).
	ClipScale int `toml:"clip_scale"`
}

func (c Config) withDefaults() Config {
	if c.TextureSize <= 0 {
		c.TextureSize = DefaultTextureSize
	}
	if c.ClipScale <= 0 {
		c.ClipScale = 1
	}
	return c
}
