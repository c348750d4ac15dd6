package colors

// Color is a packed 0xAARRGGBB value.
type Color uint32

var (
	None     = Color(0x00000000)
	White    = Color(0xffffffff)
	Red      = Color(0xffff0000)
	Green    = Color(0xff00ff00)
	Blue     = Color(0xff0000ff)
	Black    = Color(0xff000000)
	Magenta  = Color(0xffff00ff)
	Cyan     = Color(0xff00ffff)
	Yellow   = Color(0xffffff00)
	Gray     = Color(0xff808080)
	DarkGray = Color(0xff14191f)
)

// RGBA packs four 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) Alpha() uint8 { return uint8(c >> 24) }
func (c Color) Red() uint8   { return uint8(c >> 16) }
func (c Color) Green() uint8 { return uint8(c >> 8) }
func (c Color) Blue() uint8  { return uint8(c) }

func (c Color) WithAlpha(a uint8) Color {
	return c&0x00ffffff | Color(a)<<24
}

// Floats returns the channels normalized to [0..1] in R,G,B,A order.
func (c Color) Floats() [4]float32 {
	return [4]float32{
		float32(c.Red()) / 255,
		float32(c.Green()) / 255,
		float32(c.Blue()) / 255,
		float32(c.Alpha()) / 255,
	}
}

// Multiply modulates each channel, as fixed-function texturing does.
func (c Color) Multiply(o Color) Color {
	mul := func(a, b uint8) uint8 { return uint8((uint32(a)*uint32(b) + 127) / 255) }
	return RGBA(
		mul(c.Red(), o.Red()),
		mul(c.Green(), o.Green()),
		mul(c.Blue(), o.Blue()),
		mul(c.Alpha(), o.Alpha()),
	)
}

// Lerp blends c towards o by weight t in [0..1], per channel.
func (c Color) Lerp(o Color, t float64) Color {
	mix := func(a, b uint8) uint8 {
		v := float64(a) + (float64(b)-float64(a))*t
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v + 0.5)
	}
	return RGBA(
		mix(c.Red(), o.Red()),
		mix(c.Green(), o.Green()),
		mix(c.Blue(), o.Blue()),
		mix(c.Alpha(), o.Alpha()),
	)
}
