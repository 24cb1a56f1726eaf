package palette

import (
	"image/color"
	"math"
)

// Color is a palette entry. Channels hold the 6-bit VGA range 0..63.
type Color struct {
	R, G, B uint8
}

// Lerp steps c towards other by 1/divisor of the distance, using the same
// truncating 16-bit arithmetic as the palette fades of the game.
func (c Color) Lerp(other Color, divisor int16) Color {
	step := func(a, b uint8) uint8 {
		return uint8((int16(b)-int16(a))/divisor + int16(a))
	}

	return Color{
		R: step(c.R, other.R),
		G: step(c.G, other.G),
		B: step(c.B, other.B),
	}
}

// RGB888 expands the 6-bit channels to 8 bits
func (c Color) RGB888() Color {
	return Color{
		R: expand(c.R),
		G: expand(c.G),
		B: expand(c.B),
	}
}

// RGBA implements color.Color on the expanded channels
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{
		R: expand(c.R),
		G: expand(c.G),
		B: expand(c.B),
		A: math.MaxUint8,
	}.RGBA()
}

func expand(c uint8) uint8 {
	return uint8(255 * uint16(c) / 63)
}
