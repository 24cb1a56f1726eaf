package blit

import (
	"fmt"
	"io"

	"github.com/gravestench/dune/pkg/framebuffer"
)

const (
	// PalOffset values at or above Mode8bpp select 8 bits per pixel.
	// Mode8bppTransparent additionally makes index 0 transparent.
	Mode8bpp            = 254
	Mode8bppTransparent = 255
)

// scale codes in 1/256 units: x1.0 x1.125 x1.25 x1.375 x1.5 x1.75 x2.0 x2.5
var scaleFactors = [8]int{0x100, 0x120, 0x140, 0x160, 0x180, 0x1c0, 0x200, 0x280}

// Options describes one draw call
type Options struct {
	X, Y          int16
	Width, Height int
	// Clip restricts writes, intersected with the surface. nil means the
	// whole surface.
	Clip         *framebuffer.Rect
	RLE          bool
	FlipX, FlipY bool
	// Scale selects a shrink factor, 0..7. Only 4bpp sources scale.
	Scale uint8
	// PalOffset is added to 4bpp pixels; for 8bpp it is the mode byte.
	PalOffset uint8
	// Index is written to IndexMap for every drawn pixel when IndexMap is set
	Index    int
	IndexMap *framebuffer.IndexMap
}

func (o *Options) bpp() int {
	if o.PalOffset >= Mode8bpp {
		return 8
	}

	return 4
}

// Draw composites src into fb.
//
// Width and Height must be non-zero. A malformed RLE stream or a source
// too short for its grid aborts the call with an error wrapping
// io.ErrUnexpectedEOF; pixels written before the failure stay written.
func Draw(fb *framebuffer.Framebuffer, src []byte, opts Options) error {
	if opts.Width <= 0 || opts.Width >= 1<<15 || opts.Height <= 0 || opts.Height >= 1<<15 {
		panic(fmt.Sprintf("blit: invalid size %dx%d", opts.Width, opts.Height))
	}

	if int(opts.Scale) >= len(scaleFactors) {
		return fmt.Errorf("blit: invalid scale code %d", opts.Scale)
	}

	bpp := opts.bpp()
	pitch := Pitch(bpp, opts.Width)

	if opts.Scale != 0 && bpp != 4 {
		return nil
	}

	if opts.RLE {
		data, err := UnRLE(src, pitch, opts.Height)
		if err != nil {
			return err
		}

		src = data
	}

	if need := required(bpp, pitch, opts.Width, opts.Height); len(src) < need {
		return fmt.Errorf("blit: %d source bytes for a %dx%d grid: %w", len(src), opts.Width, opts.Height, io.ErrUnexpectedEOF)
	}

	clip := fb.Bounds()
	if opts.Clip != nil {
		clip = clip.Clip(*opts.Clip)
	}

	t := &target{
		fb:       fb,
		clip:     clip,
		index:    opts.Index,
		indexMap: opts.IndexMap,
	}

	switch {
	case opts.Scale != 0:
		draw4bppScaled(t, src, &opts, pitch)
	case bpp == 8:
		draw8bpp(t, src, &opts)
	default:
		draw4bpp(t, src, &opts, pitch)
	}

	return nil
}

func required(bpp, pitch, width, height int) int {
	if bpp == 8 {
		return width * height
	}

	return (height-1)*pitch + (width-1)/2 + 1
}

type target struct {
	fb       *framebuffer.Framebuffer
	clip     framebuffer.Rect
	index    int
	indexMap *framebuffer.IndexMap
}

func (t *target) plot(x, y int, c byte) {
	if !t.clip.Contains(x, y) {
		return
	}

	t.fb.Set(x, y, c)

	if t.indexMap != nil {
		t.indexMap.Set(x, y, t.index)
	}
}

func nibble(src []byte, pitch, x, y int) byte {
	c := src[y*pitch+x/2]
	if x&1 == 0 {
		return c & 0x0f
	}

	return c >> 4
}

func flip(origin, v, size int, flipped bool) int {
	if flipped {
		return origin + size - v - 1
	}

	return origin + v
}

func draw4bpp(t *target, src []byte, o *Options, pitch int) {
	for y := 0; y < o.Height; y++ {
		for x := 0; x < o.Width; x++ {
			c := nibble(src, pitch, x, y)
			if c == 0 {
				continue
			}

			dx := flip(int(o.X), x, o.Width, o.FlipX)
			dy := flip(int(o.Y), y, o.Height, o.FlipY)

			t.plot(dx, dy, c+o.PalOffset)
		}
	}
}

func draw4bppScaled(t *target, src []byte, o *Options, pitch int) {
	factor := scaleFactors[o.Scale]

	dstW := (o.Width << 8) / factor
	dstH := (o.Height << 8) / factor

	srcYfp := 0
	for y := 0; y < dstH; y++ {
		srcXfp := 0
		for x := 0; x < dstW; x++ {
			c := nibble(src, pitch, srcXfp>>8, srcYfp>>8)
			srcXfp += factor

			if c == 0 {
				continue
			}

			dx := flip(int(o.X), x, dstW, o.FlipX)
			dy := flip(int(o.Y), y, dstH, o.FlipY)

			t.plot(dx, dy, c+o.PalOffset)
		}
		srcYfp += factor
	}
}

func draw8bpp(t *target, src []byte, o *Options) {
	transparentZero := o.PalOffset == Mode8bppTransparent

	for y := 0; y < o.Height; y++ {
		for x := 0; x < o.Width; x++ {
			c := src[y*o.Width+x]
			if transparentZero && c == 0 {
				continue
			}

			dx := flip(int(o.X), x, o.Width, o.FlipX)
			dy := flip(int(o.Y), y, o.Height, o.FlipY)

			t.plot(dx, dy, c)
		}
	}
}
