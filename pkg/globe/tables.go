package globe

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	maxTilt        = 99
	tiltTableSize  = 4*maxTilt - 4
	tiltTableBias  = 196
	tablatStride   = 8
	rotationFactor = 398
)

// Section is the quarter of the globe a latitude lies in
type Section uint8

const (
	FarNorth Section = iota
	NearNorth
	NearSouth
	FarSouth
)

func (s Section) String() string {
	switch s {
	case FarNorth:
		return "FarNorth"
	case NearNorth:
		return "NearNorth"
	case NearSouth:
		return "NearSouth"
	case FarSouth:
		return "FarSouth"
	}

	return fmt.Sprintf("Section(%d)", uint8(s))
}

// SectionLatitude is an entry of the tilt table
type SectionLatitude struct {
	Section  Section
	Latitude uint8
}

type rotationEntry struct {
	mapRowStart int16
	mapRowLen   uint16
	fp          uint32
}

// tiltTable maps a tilt adjusted elevation to the globe quarter and
// latitude it shows, running south to north across four monotonic ranges.
func tiltTable() (table [tiltTableSize]SectionLatitude) {
	i := 0
	push := func(section Section, latitude int) {
		table[i] = SectionLatitude{Section: section, Latitude: uint8(latitude)}
		i++
	}

	for lat := 1; lat <= 98; lat++ {
		push(FarSouth, lat)
	}

	for lat := 98; lat >= 0; lat-- {
		push(NearSouth, lat)
	}

	for lat := 1; lat <= 98; lat++ {
		push(NearNorth, lat)
	}

	for lat := 98; lat >= 2; lat-- {
		push(FarNorth, lat)
	}

	return table
}

// rotationTable loads the row geometry of TABLAT: big-endian row start and
// row length at the head of every 8 byte record.
func rotationTable(tablat []byte) (table [maxTilt]rotationEntry, err error) {
	if len(tablat) < maxTilt*tablatStride-4 {
		return table, fmt.Errorf("tablat holds %d bytes: %w", len(tablat), io.ErrUnexpectedEOF)
	}

	for i := range table {
		record := tablat[i*tablatStride:]
		table[i].mapRowStart = int16(binary.BigEndian.Uint16(record[0:2]))
		table[i].mapRowLen = binary.BigEndian.Uint16(record[2:4])
	}

	return table, nil
}

// rotate recomputes the 16.16 phase of every row for rotation
func rotate(table *[maxTilt]rotationEntry, rotation uint16) {
	dxax := rotationFactor * uint32(rotation)
	dxax &^= 0xffff

	table[0].fp = dxax
	dxax += 0x8000

	bx := dxax / rotationFactor
	for i := 1; i < len(table); i++ {
		table[i].fp = 2 * bx * uint32(table[i].mapRowLen)
	}
}
