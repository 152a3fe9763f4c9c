package braille

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit foreground color.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// HSV builds a color from hue in degrees and saturation/value in [0, 1].
func HSV(h, s, v float64) Color {
	return FromColorful(colorful.Hsv(h, s, v))
}

func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Blend mixes c toward o by t in Lab space; t=0 is c, t=1 is o.
func (c Color) Blend(o Color, t float64) Color {
	return FromColorful(c.colorful().BlendLab(o.colorful(), t))
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

var (
	Red    = RGB(255, 0, 0)
	Orange = RGB(255, 165, 0)
	Yellow = RGB(255, 255, 0)
	Green  = RGB(0, 255, 0)
	Cyan   = RGB(0, 255, 255)
	Blue   = RGB(0, 0, 255)
	Purple = RGB(128, 0, 128)
	Pink   = RGB(255, 192, 203)
	Gold   = RGB(255, 215, 0)
	White  = RGB(255, 255, 255)
)
