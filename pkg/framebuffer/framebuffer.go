package framebuffer

import (
	"fmt"
)

const (
	// ScreenWidth and ScreenHeight are the dimensions of the VGA mode the
	// game runs in
	ScreenWidth  = 320
	ScreenHeight = 200
)

// Framebuffer is a grid of palette indices
type Framebuffer struct {
	w, h   int
	pixels []byte
}

// New allocates a cleared w*h surface
func New(w, h int) *Framebuffer {
	return &Framebuffer{
		w:      w,
		h:      h,
		pixels: make([]byte, w*h),
	}
}

// NewScreen allocates a surface the size of the game screen
func NewScreen() *Framebuffer {
	return New(ScreenWidth, ScreenHeight)
}

func (fb *Framebuffer) Width() int {
	return fb.w
}

func (fb *Framebuffer) Height() int {
	return fb.h
}

// Bounds returns the surface rectangle
func (fb *Framebuffer) Bounds() Rect {
	return Rect{X0: 0, Y0: 0, X1: int16(fb.w), Y1: int16(fb.h)}
}

// Pixels returns the backing row-major index data
func (fb *Framebuffer) Pixels() []byte {
	return fb.pixels
}

func (fb *Framebuffer) Clear() {
	for i := range fb.pixels {
		fb.pixels[i] = 0
	}
}

// Set writes palette index c at (x, y). Writes outside the surface are dropped.
func (fb *Framebuffer) Set(x, y int, c byte) {
	if x < 0 || y < 0 || x >= fb.w || y >= fb.h {
		return
	}

	fb.pixels[y*fb.w+x] = c
}

// Get returns the palette index at (x, y), 0 outside the surface
func (fb *Framebuffer) Get(x, y int) byte {
	if x < 0 || y < 0 || x >= fb.w || y >= fb.h {
		return 0
	}

	return fb.pixels[y*fb.w+x]
}

// CopyFrom overwrites fb with the contents of other
func (fb *Framebuffer) CopyFrom(other *Framebuffer) error {
	if fb.w != other.w || fb.h != other.h {
		const fmtErr = "copying %dx%d framebuffer into %dx%d"
		return fmt.Errorf(fmtErr, other.w, other.h, fb.w, fb.h)
	}

	copy(fb.pixels, other.pixels)

	return nil
}
