package font

import (
	"fmt"
	"io"

	"github.com/gravestench/dune/pkg/framebuffer"
)

// Layout of the font resource: two tables of 128 glyph widths, then the
// large glyphs (9 rows each) and the small glyphs (7 rows each). Every
// glyph row is one byte, most significant bit leftmost.
const (
	glyphCount = 0x80

	largeWidths = 0x000
	smallWidths = 0x080
	largeGlyphs = 0x100
	smallGlyphs = 0x580

	largeHeight = 9
	smallHeight = 7

	dataSize = smallGlyphs + smallHeight*glyphCount

	maxGlyphWidth = 8
)

type Size uint8

const (
	Small Size = iota
	Large
)

// Height is the number of rows of a glyph
func (s Size) Height() int {
	if s == Large {
		return largeHeight
	}

	return smallHeight
}

type Align uint8

const (
	Left Align = iota
	Center
	Right
)

// Style selects the glyph set, palette index and anchoring of a string
type Style struct {
	Size  Size
	Color byte
	Align Align
}

// Font is the game's bitmap font
type Font struct {
	data []byte
}

// New wraps a font resource
func New(data []byte) (*Font, error) {
	if len(data) < dataSize {
		return nil, fmt.Errorf("font holds %d bytes, need %d: %w", len(data), dataSize, io.ErrUnexpectedEOF)
	}

	return &Font{data: data}, nil
}

// GlyphWidth returns the advance of r. Runes outside the 7-bit range have
// no glyph and a width of 0.
func (f *Font) GlyphWidth(r rune, size Size) int {
	if r < 0 || r >= glyphCount {
		return 0
	}

	if size == Large {
		return int(f.data[largeWidths+int(r)])
	}

	return int(f.data[smallWidths+int(r)])
}

// Measure returns the width of s in pixels
func (f *Font) Measure(s string, size Size) (w int) {
	for _, r := range s {
		w += f.GlyphWidth(r, size)
	}

	return w
}

// Draw renders s into fb. x is the left edge, centre or right edge of the
// string depending on style.Align; y is the top row. Pixels off the
// surface are dropped.
func (f *Font) Draw(fb *framebuffer.Framebuffer, style Style, x, y int, s string) {
	switch style.Align {
	case Center:
		x -= f.Measure(s, style.Size) / 2
	case Right:
		x -= f.Measure(s, style.Size)
	}

	for _, r := range s {
		f.drawGlyph(fb, x, y, r, style.Size, style.Color)
		x += f.GlyphWidth(r, style.Size)
	}
}

func (f *Font) drawGlyph(fb *framebuffer.Framebuffer, x, y int, r rune, size Size, color byte) {
	w := f.GlyphWidth(r, size)
	if w == 0 {
		return
	}

	if w > maxGlyphWidth {
		w = maxGlyphWidth
	}

	h := size.Height()

	offset := smallGlyphs + h*int(r)
	if size == Large {
		offset = largeGlyphs + h*int(r)
	}

	for row := 0; row < h; row++ {
		bits := f.data[offset+row]

		for col := 0; col < w; col++ {
			if bits&(0x80>>col) != 0 {
				fb.Set(x+col, y+row, color)
			}
		}
	}
}
