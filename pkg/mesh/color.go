package mesh

import "math"

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA returns a Color from its channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Array returns the channels as [r, g, b, a].
func (c Color) Array() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}

// ColorFromArray is the inverse of Array.
func ColorFromArray(a [4]uint8) Color {
	return Color{R: a[0], G: a[1], B: a[2], A: a[3]}
}

// Lerp blends each channel from c to other by t, rounding to nearest.
// t is expected in [0, 1].
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: lerpChannel(c.R, other.R, t),
		G: lerpChannel(c.G, other.G, t),
		B: lerpChannel(c.B, other.B, t),
		A: lerpChannel(c.A, other.A, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a) + (float64(b)-float64(a))*t)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
