package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannels(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)
	assert.Equal(t, Color(0x78123456), c)
	assert.Equal(t, uint8(0x12), c.Red())
	assert.Equal(t, uint8(0x34), c.Green())
	assert.Equal(t, uint8(0x56), c.Blue())
	assert.Equal(t, uint8(0x78), c.Alpha())
	assert.Equal(t, Color(0xff123456), c.WithAlpha(0xff))
}

func TestMultiply(t *testing.T) {
	assert.Equal(t, Red, Red.Multiply(White))
	assert.Equal(t, None, Red.Multiply(None))
	assert.Equal(t, RGBA(128, 0, 0, 255), Red.Multiply(RGBA(128, 128, 128, 255)))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, Black, Black.Lerp(White, 0))
	assert.Equal(t, White, Black.Lerp(White, 1))
	assert.Equal(t, RGBA(128, 128, 128, 255), Black.Lerp(White, 0.5))
}

func TestFloats(t *testing.T) {
	assert.Equal(t, [4]float32{1, 0, 0, 1}, Red.Floats())
}
