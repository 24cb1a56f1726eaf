package blit

import (
	"fmt"

	"github.com/gravestench/dune/internal/binread"
)

const rleRepeatFlag = 0x80

// Pitch returns the byte stride of a row of width pixels. 4bpp rows are
// padded to a multiple of 4 pixels.
func Pitch(bpp, width int) int {
	if bpp == 8 {
		return width
	}

	return 2 * ((width + 3) / 4)
}

// UnRLE expands a run-length encoded pixel stream into height rows of
// pitch bytes.
//
// A command byte with the high bit set repeats the next byte 257-cmd
// times, otherwise the next cmd+1 bytes are copied. Every row decodes
// at least pitch bytes. A run crossing the row boundary is kept whole, so
// its excess shifts the rows that follow and the result can be longer
// than pitch*height.
func UnRLE(data []byte, pitch, height int) ([]byte, error) {
	stream := binread.New(data)
	out := make([]byte, 0, pitch*height)

	for y := 0; y < height; y++ {
		for x := 0; x < pitch; {
			cmd, err := stream.U8()
			if err != nil {
				return nil, fmt.Errorf("decoding rle row %d: %w", y, err)
			}

			if cmd&rleRepeatFlag != 0 {
				count := 257 - int(cmd)

				value, err := stream.U8()
				if err != nil {
					return nil, fmt.Errorf("decoding rle row %d: %w", y, err)
				}

				for i := 0; i < count; i++ {
					out = append(out, value)
				}

				x += count

				continue
			}

			count := int(cmd) + 1

			literal, err := stream.Bytes(count)
			if err != nil {
				return nil, fmt.Errorf("decoding rle row %d: %w", y, err)
			}

			out = append(out, literal...)
			x += count
		}
	}

	return out, nil
}
