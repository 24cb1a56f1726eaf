package hnm

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gravestench/dune/internal/binread"
	"github.com/gravestench/dune/pkg/blit"
	"github.com/gravestench/dune/pkg/framebuffer"
	"github.com/gravestench/dune/pkg/hsq"
	"github.com/gravestench/dune/pkg/palette"
)

var (
	// ErrFrameRange is returned for a frame number beyond the video
	ErrFrameRange = errors.New("hnm: frame out of range")

	// ErrMalformedBlock is returned for a block shorter than its own header
	ErrMalformedBlock = errors.New("hnm: malformed block")
)

const (
	blockTypeSound   = 0x7364 // "sd"
	blockTypePalette = 0x706c // "pl"

	blockHeaderBytes = 4
)

// Decoder sequences the frames of an HNM video
type Decoder struct {
	data         []byte
	headerSize   int
	frameOffsets []uint32
}

// New decodes the video header and applies its palette to pal
func New(data []byte, pal *palette.Palette) (*Decoder, error) {
	stream := binread.New(data)

	headerSize, err := stream.U16()
	if err != nil {
		return nil, fmt.Errorf("decoding header size: %w", err)
	}

	palSize, err := pal.ApplyUpdate(stream.Rest())
	if err != nil {
		return nil, fmt.Errorf("decoding header palette: %w", err)
	}

	if err = stream.Skip(palSize); err != nil {
		return nil, fmt.Errorf("skipping header palette: %w", err)
	}

	frameCount := (int(headerSize) - stream.Position()) / 4
	if frameCount < 0 {
		frameCount = 0
	}

	d := &Decoder{
		data:         data,
		headerSize:   int(headerSize),
		frameOffsets: make([]uint32, frameCount),
	}

	for i := range d.frameOffsets {
		if d.frameOffsets[i], err = stream.U32(); err != nil {
			return nil, fmt.Errorf("decoding frame offset %d: %w", i, err)
		}
	}

	return d, nil
}

// FrameCount is the number of decodable frames. The offset table carries
// one extra entry marking the end of the last frame.
func (d *Decoder) FrameCount() int {
	if len(d.frameOffsets) == 0 {
		return 0
	}

	return len(d.frameOffsets) - 1
}

// DecodeFrame draws frame into fb, applying any palette block it carries
// to pal. Sound blocks are skipped.
func (d *Decoder) DecodeFrame(frame int, fb *framebuffer.Framebuffer, pal *palette.Palette) error {
	if frame < 0 || frame >= d.FrameCount() {
		return fmt.Errorf("frame %d of %d: %w", frame, d.FrameCount(), ErrFrameRange)
	}

	framePos := d.headerSize + int(d.frameOffsets[frame])

	log.Debug().Int("frame", frame).Int("position", framePos).Msg("decoding hnm frame")

	stream := binread.New(d.data)
	if err := stream.Seek(framePos); err != nil {
		return fmt.Errorf("seeking to frame %d: %w", frame, err)
	}

	frameSize, err := stream.U16()
	if err != nil {
		return fmt.Errorf("decoding frame size: %w", err)
	}

	frameEnd := framePos + int(frameSize)
	if frameEnd > len(d.data) || frameEnd < stream.Position() {
		return fmt.Errorf("frame %d ends at %d of %d: %w", frame, frameEnd, len(d.data), ErrFrameRange)
	}

	block := binread.New(d.data[stream.Position():frameEnd])

	for {
		blockType, err := block.U16BE()
		if err != nil {
			return fmt.Errorf("decoding block type: %w", err)
		}

		switch blockType {
		case blockTypeSound, blockTypePalette:
			blockSize, err := block.U16()
			if err != nil {
				return fmt.Errorf("decoding block size: %w", err)
			}

			if blockSize < blockHeaderBytes {
				return fmt.Errorf("block %#04x of size %d: %w", blockType, blockSize, ErrMalformedBlock)
			}

			if blockType == blockTypePalette {
				if _, err = pal.ApplyUpdate(block.Rest()); err != nil {
					return fmt.Errorf("decoding frame palette: %w", err)
				}
			}

			if err = block.Skip(int(blockSize) - blockHeaderBytes); err != nil {
				return fmt.Errorf("skipping block: %w", err)
			}
		default:
			if err = block.Skip(-2); err != nil {
				return err
			}

			return d.decodePicture(block, fb)
		}
	}
}

func (d *Decoder) decodePicture(stream *binread.Reader, fb *framebuffer.Framebuffer) error {
	header, err := decodeFrameHeader(stream)
	if err != nil {
		return err
	}

	if header.IsCompressed() {
		packed, err := hsq.ParseHeader(stream.Rest())
		if err != nil {
			return fmt.Errorf("decoding picture: %w", err)
		}

		unpacked, err := hsq.DecompressPayload(stream.Rest()[hsq.HeaderSize:], packed.UncompressedSize())
		if err != nil {
			return fmt.Errorf("decoding picture: %w", err)
		}

		stream = binread.New(unpacked)
	}

	var x, y int16

	if !header.IsFullFrame() {
		if x, err = stream.I16(); err != nil {
			return fmt.Errorf("decoding picture position: %w", err)
		}

		if y, err = stream.I16(); err != nil {
			return fmt.Errorf("decoding picture position: %w", err)
		}
	}

	if header.Width == 0 || header.Height == 0 {
		return nil
	}

	return blit.Draw(fb, stream.Rest(), blit.Options{
		X:         x,
		Y:         y,
		Width:     int(header.Width),
		Height:    int(header.Height),
		PalOffset: header.Mode,
	})
}
