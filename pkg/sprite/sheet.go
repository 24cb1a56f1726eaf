package sprite

import (
	"errors"
	"fmt"
	"io"

	"github.com/gravestench/dune/internal/binread"
	"github.com/gravestench/dune/pkg/framebuffer"
	"github.com/gravestench/dune/pkg/hsq"
	"github.com/gravestench/dune/pkg/palette"
)

// ErrMalformedTOC is returned for a table of contents whose offsets run
// backwards
var ErrMalformedTOC = errors.New("sprite: malformed table of contents")

// Resource is one entry of a sheet: a sprite, or the raw bytes of an
// entry that does not carry a sprite header
type Resource struct {
	Sprite *Sprite
	Raw    []byte
}

// IsSprite reports whether the entry decoded as a sprite
func (r Resource) IsSprite() bool {
	return r.Sprite != nil
}

// Sheet is a bundle of sprites and raw sub-resources
type Sheet struct {
	palUpdate []byte
	resources []Resource
}

// FromPossiblyCompressed unpacks data first if it is a packed resource
func FromPossiblyCompressed(data []byte) (*Sheet, error) {
	unpacked, err := hsq.Unpack(data)
	if err != nil {
		return nil, err
	}

	return FromBytes(unpacked)
}

// FromBytes decodes a sheet.
//
// The first word is the offset of the table of contents; any bytes between
// it and the table are a palette update. The table holds one word per
// entry, relative to the table, so the first entry also gives the count.
func FromBytes(data []byte) (*Sheet, error) {
	stream := binread.New(data)

	tocPos, err := stream.U16()
	if err != nil {
		return nil, fmt.Errorf("decoding toc position: %w", err)
	}

	sheet := &Sheet{}

	if tocPos > 2 {
		if int(tocPos) > len(data) {
			return nil, fmt.Errorf("toc position %d of %d: %w", tocPos, len(data), io.ErrUnexpectedEOF)
		}

		sheet.palUpdate = data[2:tocPos]
	}

	if err = stream.Seek(int(tocPos)); err != nil {
		return nil, fmt.Errorf("seeking to toc: %w", err)
	}

	first, err := stream.U16()
	if err != nil {
		return nil, fmt.Errorf("decoding toc: %w", err)
	}

	count := int(first) / 2
	if count == 0 {
		return sheet, nil
	}

	offsets := make([]int, 0, count+1)
	offsets = append(offsets, int(first))

	for i := 1; i < count; i++ {
		pos, err := stream.U16()
		if err != nil {
			return nil, fmt.Errorf("decoding toc entry %d: %w", i, err)
		}

		offsets = append(offsets, int(pos))
	}

	offsets = append(offsets, len(data)-int(tocPos))

	sheet.resources = make([]Resource, count)

	for i := range sheet.resources {
		start, end := int(tocPos)+offsets[i], int(tocPos)+offsets[i+1]

		if end < start {
			return nil, fmt.Errorf("entry %d spans %d..%d: %w", i, start, end, ErrMalformedTOC)
		}

		if end > len(data) {
			return nil, fmt.Errorf("entry %d ends at %d of %d: %w", i, end, len(data), io.ErrUnexpectedEOF)
		}

		chunk := data[start:end]

		if s, ok := Decode(chunk); ok {
			sheet.resources[i].Sprite = s

			continue
		}

		sheet.resources[i].Raw = append([]byte(nil), chunk...)
	}

	return sheet, nil
}

// PaletteUpdate returns the leading palette update block, if any
func (s *Sheet) PaletteUpdate() []byte {
	return s.palUpdate
}

// ApplyPaletteUpdate applies the sheet's palette block to pal. Sheets
// without one leave pal untouched.
func (s *Sheet) ApplyPaletteUpdate(pal *palette.Palette) error {
	if len(s.palUpdate) == 0 {
		return nil
	}

	if _, err := pal.ApplyUpdate(s.palUpdate); err != nil {
		return fmt.Errorf("applying sheet palette: %w", err)
	}

	return nil
}

// ResourceCount is the number of entries in the table of contents
func (s *Sheet) ResourceCount() int {
	return len(s.resources)
}

// Resource returns entry id, sprite or raw
func (s *Sheet) Resource(id int) (Resource, bool) {
	if id < 0 || id >= len(s.resources) {
		return Resource{}, false
	}

	return s.resources[id], true
}

// Sprite returns entry id if it is a sprite
func (s *Sheet) Sprite(id int) (*Sprite, bool) {
	r, ok := s.Resource(id)
	if !ok || !r.IsSprite() {
		return nil, false
	}

	return r.Sprite, true
}

// Raw returns entry id if it is a raw resource
func (s *Sheet) Raw(id int) ([]byte, bool) {
	r, ok := s.Resource(id)
	if !ok || r.IsSprite() {
		return nil, false
	}

	return r.Raw, true
}

// DrawSprite draws sprite id at (x, y). Missing ids draw nothing.
func (s *Sheet) DrawSprite(fb *framebuffer.Framebuffer, id int, x, y int16) error {
	return s.DrawSpriteWith(fb, id, DrawOptions{X: x, Y: y})
}

// DrawSpriteWith draws sprite id with full options. Missing ids draw nothing.
func (s *Sheet) DrawSpriteWith(fb *framebuffer.Framebuffer, id int, opts DrawOptions) error {
	sprite, ok := s.Sprite(id)
	if !ok {
		return nil
	}

	return sprite.Draw(fb, opts)
}
