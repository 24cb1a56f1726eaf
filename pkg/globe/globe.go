package globe

import (
	"errors"
	"fmt"

	"github.com/gravestench/dune/internal/binread"
	"github.com/gravestench/dune/pkg/framebuffer"
)

// ErrMalformed is returned when the static tables send the projector
// outside of its lookup tables
var ErrMalformed = errors.New("globe: malformed table data")

const (
	// MinTilt and MaxTilt bound the tilt accepted by Draw
	MinTilt = -96
	MaxTilt = 96

	centerX = 160 - 1
	centerY = 80 - 1

	// row selector and shading delta tables inside GLOBDATA, one 200 byte
	// record per column: 100 row selectors then 100 signed deltas
	columnTableOffset = 3290
	columnTableStride = 200
	columnTableCount  = 64
	latitudeCount     = 100

	mapOrigin = 0x62fc

	colorMask         = 0x0f
	reversedFlagsMask = 0x30
	reversedFlags     = 0x10
	reversedShift     = 12
	globePaletteBank  = 0x10
)

type half int

const (
	upper half = iota
	lower
)

// Renderer draws the rotating planet from the GLOBDATA, MAP and TABLAT
// resources
type Renderer struct {
	globdata []byte
	mapData  []byte
	rotation [maxTilt]rotationEntry
	tilt     [tiltTableSize]SectionLatitude
}

// New builds the lookup tables. The resource slices are retained and must
// not be modified afterwards.
func New(globdata, mapData, tablat []byte) (*Renderer, error) {
	rotation, err := rotationTable(tablat)
	if err != nil {
		return nil, fmt.Errorf("decoding rotation table: %w", err)
	}

	r := &Renderer{
		globdata: globdata,
		mapData:  mapData,
		rotation: rotation,
		tilt:     tiltTable(),
	}

	rotate(&r.rotation, 0)

	return r, nil
}

// TiltEntry returns the tilt table entry at i
func (r *Renderer) TiltEntry(i int) (SectionLatitude, bool) {
	if i < 0 || i >= len(r.tilt) {
		return SectionLatitude{}, false
	}

	return r.tilt[i], true
}

// Draw projects the globe into fb. tilt is clamped to [MinTilt, MaxTilt].
func (r *Renderer) Draw(fb *framebuffer.Framebuffer, rotation uint16, tilt int16) error {
	if tilt < MinTilt {
		tilt = MinTilt
	}

	if tilt > MaxTilt {
		tilt = MaxTilt
	}

	rotate(&r.rotation, rotation)

	if err := r.drawHalf(fb, upper, tilt); err != nil {
		return fmt.Errorf("drawing upper half: %w", err)
	}

	if err := r.drawHalf(fb, lower, tilt); err != nil {
		return fmt.Errorf("drawing lower half: %w", err)
	}

	return nil
}

func (r *Renderer) drawHalf(fb *framebuffer.Framebuffer, h half, tilt int16) error {
	stream := binread.New(r.globdata)

	for y := 0; ; y++ {
		n, err := stream.I8()
		if err != nil {
			return err
		}

		if n >= 0 {
			return fmt.Errorf("row %d starts with %d: %w", y, n, ErrMalformed)
		}

		lineLen := int(^n)
		if lineLen == 0 {
			return nil
		}

		py := centerY - y
		if h == lower {
			py = centerY + y
		}

		for x := 0; x < lineLen; x++ {
			elevation, err := stream.I8()
			if err != nil {
				return err
			}

			if h == lower {
				elevation = -elevation
			}

			left, right, err := r.project(x, int(elevation)+tiltTableBias+int(tilt))
			if err != nil {
				return err
			}

			fb.Set(centerX-x, py, left)
			fb.Set(centerX+x+1, py, right)
		}
	}
}

// project returns the colors of the two mirrored pixels of column x
func (r *Renderer) project(x, tiltIndex int) (left, right byte, err error) {
	sl, ok := r.TiltEntry(tiltIndex)
	if !ok {
		return 0, 0, fmt.Errorf("tilt index %d: %w", tiltIndex, ErrMalformed)
	}

	if x >= columnTableCount {
		return 0, 0, fmt.Errorf("column %d: %w", x, ErrMalformed)
	}

	record := columnTableOffset + x*columnTableStride + int(sl.Latitude)
	if record+latitudeCount >= len(r.globdata) {
		return 0, 0, fmt.Errorf("column record %d: %w", record, ErrMalformed)
	}

	row := int(r.globdata[record]) / 2
	ax := int16(int8(r.globdata[record+latitudeCount]))

	if row >= len(r.rotation) {
		return 0, 0, fmt.Errorf("row %d: %w", row, ErrMalformed)
	}

	e := r.rotation[row]
	bx := e.mapRowStart
	cx := int16(e.mapRowLen)
	dx := int16(e.fp >> 16)

	switch sl.Section {
	case FarNorth:
		ax = cx - ax
		bx = -bx
	case NearNorth:
		bx = -bx
	case FarSouth:
		ax = cx - ax
	}

	cx *= 2

	// wrap with a conditional add, not a modulo
	bp := dx - ax
	if bp < 0 {
		bp += cx
	}
	bp += bx
	dx += ax

	if left, err = r.mapColor(bp); err != nil {
		return 0, 0, err
	}

	bp = dx - cx
	if bp < 0 {
		bp += cx
	}
	bp += bx

	if right, err = r.mapColor(bp); err != nil {
		return 0, 0, err
	}

	return left, right, nil
}

// mapColor turns a map byte into a globe palette index. Colors below 8
// whose flag bits (0x30) read 0x10 shift up by 12. This deliberately
// differs from the Rust renderer, whose shifted comparison never matches
// and so never shifts.
func (r *Renderer) mapColor(offset int16) (byte, error) {
	i := mapOrigin + int(offset)
	if i < 0 || i >= len(r.mapData) {
		return 0, fmt.Errorf("map offset %d: %w", offset, ErrMalformed)
	}

	v := r.mapData[i]
	c := v & colorMask

	if v&reversedFlagsMask == reversedFlags && c < 8 {
		c += reversedShift
	}

	return c + globePaletteBank, nil
}
