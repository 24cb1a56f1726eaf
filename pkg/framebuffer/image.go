package framebuffer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ColorTable supplies the display colors for palette indices
type ColorTable interface {
	ColorPalette() color.Palette
}

// Image wraps the surface as a paletted image sharing the pixel data
func (fb *Framebuffer) Image(pal ColorTable) *image.Paletted {
	return &image.Paletted{
		Pix:     fb.pixels,
		Stride:  fb.w,
		Rect:    image.Rect(0, 0, fb.w, fb.h),
		Palette: pal.ColorPalette(),
	}
}

// ScaledImage renders the surface into an RGBA image enlarged by sx, sy
// with nearest neighbour sampling. The game is usually shown at 5x6 to
// restore the 4:3 aspect of the 320x200 mode.
func (fb *Framebuffer) ScaledImage(pal ColorTable, sx, sy int) *image.RGBA {
	src := fb.Image(pal)
	dst := image.NewRGBA(image.Rect(0, 0, fb.w*sx, fb.h*sy))

	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}
