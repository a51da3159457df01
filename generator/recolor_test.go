package generator

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestRecolorMapsBlackToForeground(t *testing.T) {
	src := checkerboard(4, 3)
	p := Palette{Foreground: RGB{255, 0, 0}, Background: RGB{0, 0, 128}}

	out := Recolor(src, p)

	assert.Equal(t, src.Bounds(), out.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := p.Background.RGBA()
			if (x+y)%2 == 0 {
				want = p.Foreground.RGBA()
			}
			assert.Equal(t, want, out.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}

	// Source is not modified.
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, src.RGBAAt(0, 0))
}

func TestRecolorTreatsGrayAsBackground(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.Set(0, 0, color.RGBA{0, 0, 0, 255})
	src.Set(1, 0, color.RGBA{1, 1, 1, 255})
	src.Set(2, 0, color.RGBA{128, 128, 128, 255})
	p := Palette{Foreground: RGB{0, 255, 0}, Background: RGB{255, 255, 255}}

	out := Recolor(src, p)

	assert.Equal(t, p.Foreground.RGBA(), out.RGBAAt(0, 0))
	assert.Equal(t, p.Background.RGBA(), out.RGBAAt(1, 0))
	assert.Equal(t, p.Background.RGBA(), out.RGBAAt(2, 0))
}

func TestRecolorPaletted(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.White, color.Black})
	src.SetColorIndex(1, 0, 1)
	p := Palette{Foreground: RGB{0, 0, 255}, Background: RGB{255, 255, 255}}

	out := Recolor(src, p)

	assert.Equal(t, p.Background.RGBA(), out.RGBAAt(0, 0))
	assert.Equal(t, p.Foreground.RGBA(), out.RGBAAt(1, 0))
}

func TestRecolorSecondPassLeavesNoBlack(t *testing.T) {
	p := Palette{Foreground: RGB{0, 0, 255}, Background: RGB{255, 255, 255}}
	once := Recolor(checkerboard(5, 5), p)
	twice := Recolor(once, p)

	// With a non-black foreground nothing is pure black after the first
	// pass, so the second pass has nothing left to map to the foreground.
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, p.Background.RGBA(), twice.RGBAAt(x, y))
		}
	}
}

func TestRecolorZeroPixelIsBlack(t *testing.T) {
	// A fresh RGBA image is transparent black; alpha is ignored.
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	p := Palette{Foreground: RGB{255, 0, 0}, Background: RGB{255, 255, 255}}

	out := Recolor(src, p)

	assert.Equal(t, p.Foreground.RGBA(), out.RGBAAt(0, 0))
}

func TestRecolorNonZeroOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 12))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)
	src.Set(11, 11, color.Black)
	p := Palette{Foreground: RGB{255, 0, 0}, Background: RGB{255, 255, 255}}

	out := Recolor(src, p)

	assert.Equal(t, image.Rect(10, 10, 12, 12), out.Bounds())
	assert.Equal(t, p.Foreground.RGBA(), out.RGBAAt(11, 11))
	assert.Equal(t, p.Background.RGBA(), out.RGBAAt(10, 10))
}
