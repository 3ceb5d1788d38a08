package lines

import (
	"fmt"
	"image/color"
)

// RGBA is a color with float32 components in [0, 1], the layout the color
// buffers store per vertex copy.
type RGBA struct {
	R, G, B, A float32
}

// Black is the default stroke and fill color.
var Black = RGBA{A: 1}

// Color converts c to a standard non-premultiplied color.
func (c RGBA) Color() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// Array returns the components in buffer order.
func (c RGBA) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// ParseHex decodes a "#rrggbb" string (the leading '#' is optional) into the
// RGB channels. Alpha is left at 1; callers that keep a separate global
// alpha apply it afterwards.
func ParseHex(s string) (RGBA, error) {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	var v uint32
	for i := 0; i < len(hex); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		v = v<<4 | d
	}
	return RGBA{
		R: float32(v>>16&255) / 255,
		G: float32(v>>8&255) / 255,
		B: float32(v&255) / 255,
		A: 1,
	}, nil
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return uint32(c - 'A' + 10), true
	}
	return 0, false
}

func unit8(x float32) uint8 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 255
	}
	return uint8(x*255 + 0.5)
}
