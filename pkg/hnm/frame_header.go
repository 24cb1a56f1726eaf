package hnm

import (
	"fmt"

	"github.com/gravestench/dune/internal/binread"
)

const (
	frameFlagCompressed = 0x02
	frameFlagFullFrame  = 0x04
)

// FrameHeader describes the picture block of a frame.
//
//	| w7 w6 w5 w4 w3 w2 w1 w0 | f6 f5 f4 f3 f2 f1 f0 w8 | h7 .. h0 | m7 .. m0 |
type FrameHeader struct {
	Width  uint16
	Height uint16
	Flags  uint8
	Mode   uint8
}

func decodeFrameHeader(stream *binread.Reader) (h FrameHeader, err error) {
	b, err := stream.Bytes(4)
	if err != nil {
		return h, fmt.Errorf("decoding frame header: %w", err)
	}

	h.Width = uint16(b[1]&0x01)<<8 | uint16(b[0])
	h.Flags = b[1] & 0xfe
	h.Height = uint16(b[2])
	h.Mode = b[3]

	return h, nil
}

// IsCompressed reports whether the picture data is HSQ packed
func (h FrameHeader) IsCompressed() bool {
	return h.Flags&frameFlagCompressed != 0
}

// IsFullFrame reports whether the picture covers the screen from the
// origin, in which case no position follows the header
func (h FrameHeader) IsFullFrame() bool {
	return h.Flags&frameFlagFullFrame != 0
}
