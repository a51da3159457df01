package generator

import (
	"image/color"
	"strconv"
	"strings"
)

// RGB is a resolved 24-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA returns c as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Hex renders c as "#rrggbb".
func (c RGB) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

// Palette is the foreground/background pair applied by Recolor.
type Palette struct {
	Foreground RGB
	Background RGB
}

// namedColors maps the supported color names to their canonical hex codes.
var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"red":   "#ff0000",
	"green": "#00ff00",
	"blue":  "#0000ff",
	"navy":  "#000080",
}

// ResolveColor maps a color name (case-insensitive) or a hex code with an
// optional leading '#' to its RGB value.
func ResolveColor(token string) (RGB, error) {
	code, ok := namedColors[strings.ToLower(token)]
	if !ok {
		code = token
	}
	code = strings.TrimPrefix(code, "#")
	if len(code) != 6 {
		return RGB{}, &ValidationError{Label: "color", Value: token}
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(code[2*i:2*i+2], 16, 8)
		if err != nil {
			return RGB{}, &ValidationError{Label: "color", Value: token}
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ResolvePalette resolves the foreground and background tokens together.
func ResolvePalette(fg, bg string) (Palette, error) {
	f, err := ResolveColor(fg)
	if err != nil {
		return Palette{}, err
	}
	b, err := ResolveColor(bg)
	if err != nil {
		return Palette{}, err
	}
	return Palette{Foreground: f, Background: b}, nil
}
