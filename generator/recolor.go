package generator

import (
	"image"
	"image/color"
)

// Recolor maps every pure black pixel of img to the palette foreground and
// every other pixel to the background. Anti-aliased or gray pixels count as
// background. img is left untouched; the result is a new RGBA image with the
// same bounds.
func Recolor(img image.Image, p Palette) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	fg, bg := p.Foreground.RGBA(), p.Background.RGBA()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isBlack(img.At(x, y)) {
				out.SetRGBA(x, y, fg)
			} else {
				out.SetRGBA(x, y, bg)
			}
		}
	}
	return out
}

func isBlack(c color.Color) bool {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return rgba.R == 0 && rgba.G == 0 && rgba.B == 0
}
