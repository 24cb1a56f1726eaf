package hsq

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gravestench/dune/internal/binread"
)

// ErrBadReference is returned when a back reference points before the
// start of the output
var ErrBadReference = errors.New("hsq: back reference out of range")

const (
	longWindow  = 8192
	shortWindow = 256
	minMatch    = 2
)

// bitQueue hands out the flag bits of the stream, least significant bit
// first. It is refilled 16 bits at a time from the same byte stream that
// carries literals and references, so the refill position matters.
type bitQueue struct {
	queue  uint16
	stream *binread.Reader
}

func (q *bitQueue) next() (bool, error) {
	bit := q.queue&1 == 1
	q.queue >>= 1

	if q.queue == 0 {
		word, err := q.stream.U16()
		if err != nil {
			return false, err
		}

		bit = word&1 == 1
		q.queue = 0x8000 | word>>1
	}

	return bit, nil
}

// Unpack returns data unpacked if it carries a valid header, or data
// itself when it does not.
func Unpack(data []byte) ([]byte, error) {
	header, err := ParseHeader(data)
	if err != nil || !header.IsCompressed() {
		return data, nil
	}

	if header.CompressedSize() != len(data) {
		log.Debug().
			Int("packed", header.CompressedSize()).
			Int("size", len(data)).
			Msg("packed length does not match resource size")

		return data, nil
	}

	return DecompressPayload(data[HeaderSize:], header.UncompressedSize())
}

// Decompress unpacks a resource that starts with a header. The header
// checksum is not verified.
func Decompress(data []byte) ([]byte, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	return DecompressPayload(data[HeaderSize:], header.UncompressedSize())
}

// DecompressPayload unpacks a headerless stream. The result is exactly
// size bytes long.
func DecompressPayload(payload []byte, size int) ([]byte, error) {
	out, err := inflate(binread.New(payload), size)
	if err != nil {
		return nil, fmt.Errorf("decompressing hsq stream: %w", err)
	}

	if len(out) < size {
		out = append(out, make([]byte, size-len(out))...)
	}

	return out[:size], nil
}

func inflate(stream *binread.Reader, sizeHint int) ([]byte, error) {
	bits := &bitQueue{stream: stream}
	out := make([]byte, 0, sizeHint)

	for {
		literal, err := bits.next()
		if err != nil {
			return out, err
		}

		if literal {
			b, err := stream.U8()
			if err != nil {
				return out, err
			}

			out = append(out, b)

			continue
		}

		long, err := bits.next()
		if err != nil {
			return out, err
		}

		var count, distance int

		if long {
			word, err := stream.U16()
			if err != nil {
				return out, err
			}

			count = int(word & 7)
			distance = longWindow - int(word>>3)

			if count == 0 {
				ext, err := stream.U8()
				if err != nil {
					return out, err
				}

				count = int(ext)
			}

			if count == 0 {
				return out, nil
			}
		} else {
			hi, err := bits.next()
			if err != nil {
				return out, err
			}

			lo, err := bits.next()
			if err != nil {
				return out, err
			}

			b, err := stream.U8()
			if err != nil {
				return out, err
			}

			count = 2*btoi(hi) + btoi(lo)
			distance = shortWindow - int(b)
		}

		from := len(out) - distance
		if from < 0 {
			return out, fmt.Errorf("distance %d at offset %d: %w", distance, len(out), ErrBadReference)
		}

		// byte by byte: overlapping references re-read what they just wrote
		for i := 0; i < count+minMatch; i++ {
			out = append(out, out[from+i])
		}
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}

	return 0
}
