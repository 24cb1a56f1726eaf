package sprite

import (
	"math"

	"github.com/gravestench/dune/internal/binread"
	"github.com/gravestench/dune/pkg/blit"
	"github.com/gravestench/dune/pkg/framebuffer"
)

const (
	headerBytes = 4

	widthMask  = 0x01ff
	flagsMask  = 0xfe00
	heightMask = 0x00ff
	flagRLE    = 0x80
)

// Sprite is a decoded sprite header plus its pixel payload
type Sprite struct {
	width     uint16
	height    uint16
	palOffset uint8
	rle       bool
	data      []byte
}

// Decode decodes a sprite resource.
//
//	| w7 w6 w5 w4 w3 w2 w1 w0 | f6 f5 f4 f3 f2 f1 f0 w8 | h7 .. h0 | m7 .. m0 |
//
// w is the width, f the flags (f6 = RLE), h the height and m the palette
// offset or pixel mode. It reports false when data does not hold a usable
// sprite header.
func Decode(data []byte) (*Sprite, bool) {
	stream := binread.New(data)

	w0, err := stream.U16()
	if err != nil {
		return nil, false
	}

	w1, err := stream.U16()
	if err != nil {
		return nil, false
	}

	s := &Sprite{
		width:     w0 & widthMask,
		height:    w1 & heightMask,
		palOffset: uint8(w1 >> 8),
		rle:       (w0&flagsMask)>>8&flagRLE != 0,
		data:      append([]byte(nil), stream.Rest()...),
	}

	if s.width == 0 || s.height == 0 || s.width > math.MaxInt16 || s.height > math.MaxInt16 {
		return nil, false
	}

	return s, true
}

func (s *Sprite) Width() int {
	return int(s.width)
}

func (s *Sprite) Height() int {
	return int(s.height)
}

// PalOffset returns the palette offset (4bpp) or pixel mode (8bpp)
func (s *Sprite) PalOffset() uint8 {
	return s.palOffset
}

func (s *Sprite) SetPalOffset(palOffset uint8) {
	s.palOffset = palOffset
}

func (s *Sprite) RLE() bool {
	return s.rle
}

// Data returns the pixel payload following the header
func (s *Sprite) Data() []byte {
	return s.data
}

// DrawOptions configures Sprite.Draw
type DrawOptions struct {
	X, Y         int16
	Clip         *framebuffer.Rect
	FlipX, FlipY bool
	Scale        uint8
	// PalOffset overrides the sprite's own palette offset when non-zero
	PalOffset uint8
	Index     int
	IndexMap  *framebuffer.IndexMap
}

// Draw blits the sprite into fb
func (s *Sprite) Draw(fb *framebuffer.Framebuffer, opts DrawOptions) error {
	palOffset := s.palOffset
	if opts.PalOffset != 0 {
		palOffset = opts.PalOffset
	}

	return blit.Draw(fb, s.data, blit.Options{
		X:         opts.X,
		Y:         opts.Y,
		Width:     s.Width(),
		Height:    s.Height(),
		Clip:      opts.Clip,
		RLE:       s.rle,
		FlipX:     opts.FlipX,
		FlipY:     opts.FlipY,
		Scale:     opts.Scale,
		PalOffset: palOffset,
		Index:     opts.Index,
		IndexMap:  opts.IndexMap,
	})
}
