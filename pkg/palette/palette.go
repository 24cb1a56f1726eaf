package palette

import (
	"fmt"
	"image/color"

	"github.com/gravestench/dune/internal/binread"
)

const (
	// NumColors is the fixed size of the table
	NumColors = 256

	updateSkipIndex  = 0x01
	updateSkipLength = 3
	updateTerminator = 0xff
)

// Palette is the 256 entry color table of a rendering session
type Palette [NumColors]Color

// New returns an all black palette
func New() *Palette {
	return &Palette{}
}

func (p *Palette) Get(i int) Color {
	return p[i]
}

func (p *Palette) Set(i int, c Color) {
	p[i] = c
}

// SetAll loads a packed 768 byte RGB table
func (p *Palette) SetAll(data *[3 * NumColors]byte) {
	for i := range p {
		p[i] = Color{R: data[3*i], G: data[3*i+1], B: data[3*i+2]}
	}
}

func (p *Palette) Clear() {
	*p = Palette{}
}

// Clone returns an independent copy of the table
func (p *Palette) Clone() *Palette {
	c := *p

	return &c
}

// RGB888 returns entry i expanded for display
func (p *Palette) RGB888(i int) Color {
	return p[i].RGB888()
}

// ColorPalette returns the expanded, opaque table for image encoders
func (p *Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, NumColors)

	for idx := range pal {
		pal[idx] = p[idx]
	}

	return pal
}

// Transition moves count entries starting at offset one step towards
// target. speed is clamped to at least 1; a speed of 1 lands on target.
func (p *Palette) Transition(target *Palette, offset, count int, speed int16) {
	if speed < 1 {
		speed = 1
	}

	for i := offset; i < offset+count && i < NumColors; i++ {
		p[i] = p[i].Lerp(target[i], speed)
	}
}

// ApplyUpdate applies an update stream of the form
//
//	(index, count, count * RGB)* 0xFF 0xFF [0xFF padding]
//
// A count of 0 means 256 entries and the pair (1, 0) is followed by three
// ignored bytes. Entries past 255 are dropped. The returned position is
// the offset of the first byte after the update and its padding.
func (p *Palette) ApplyUpdate(data []byte) (int, error) {
	stream := binread.New(data)

	for {
		index, err := stream.U8()
		if err != nil {
			return 0, fmt.Errorf("decoding palette update index: %w", err)
		}

		count, err := stream.U8()
		if err != nil {
			return 0, fmt.Errorf("decoding palette update count: %w", err)
		}

		if index == updateSkipIndex && count == 0 {
			if err = stream.Skip(updateSkipLength); err != nil {
				return 0, fmt.Errorf("skipping palette update marker: %w", err)
			}

			continue
		}

		if index == updateTerminator && count == updateTerminator {
			break
		}

		n := int(count)
		if n == 0 {
			n = NumColors
		}

		for i := 0; i < n; i++ {
			rgb, err := stream.Bytes(3)
			if err != nil {
				return 0, fmt.Errorf("decoding palette update entry: %w", err)
			}

			if slot := int(index) + i; slot < NumColors {
				p[slot] = Color{R: rgb[0], G: rgb[1], B: rgb[2]}
			}
		}
	}

	for stream.Remaining() > 0 && stream.Rest()[0] == updateTerminator {
		if err := stream.Skip(1); err != nil {
			return 0, err
		}
	}

	return stream.Position(), nil
}
