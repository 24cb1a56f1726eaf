package hsq

import (
	"fmt"

	"github.com/gravestench/dune/internal/binread"
)

const (
	// HeaderSize is the length of the header in front of every packed resource
	HeaderSize = 6

	headerChecksum = 0xAB
)

// Header is the 6 byte preamble of a packed resource.
//
//	| u0 u1 u2 | p0 p1 | k |
//
// u is the unpacked size (24 bits), p the packed size including the header
// and k pads the byte sum of the header to 0xAB.
type Header [HeaderSize]byte

// ParseHeader reads a header from the start of data
func ParseHeader(data []byte) (h Header, err error) {
	b, err := binread.New(data).Bytes(HeaderSize)
	if err != nil {
		return h, fmt.Errorf("decoding hsq header: %w", err)
	}

	copy(h[:], b)

	return h, nil
}

// Checksum is the byte sum of the header, wrapping at 8 bits
func (h Header) Checksum() (sum byte) {
	for _, b := range h {
		sum += b
	}

	return sum
}

// IsCompressed reports whether the header carries the packed resource
// signature. A mismatch is not an error: the resource is stored verbatim.
func (h Header) IsCompressed() bool {
	return h.Checksum() == headerChecksum
}

// UncompressedSize is the length of the unpacked resource
func (h Header) UncompressedSize() int {
	return int(h[0]) | int(h[1])<<8 | int(h[2])<<16
}

// CompressedSize is the length of the packed resource, header included
func (h Header) CompressedSize() int {
	return int(h[3]) | int(h[4])<<8
}
