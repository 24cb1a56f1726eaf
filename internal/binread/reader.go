package binread

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gravestench/bitstream"
)

// Reader is a bounded, byte aligned cursor over a slice of bytes.
// Every read is checked against the slice length before the underlying
// bitstream is touched, so a truncated resource always surfaces as
// io.ErrUnexpectedEOF.
type Reader struct {
	stream *bitstream.Reader
	data   []byte
	pos    int
}

// New creates a Reader positioned at the start of data
func New(data []byte) *Reader {
	return &Reader{
		stream: bitstream.ReaderFromBytes(data...),
		data:   data,
	}
}

// Position returns the current byte offset
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the total number of bytes behind the reader
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of bytes left to read
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Rest returns the unread tail of the data without consuming it
func (r *Reader) Rest() []byte {
	return r.data[r.pos:]
}

// Seek moves the cursor to an absolute byte offset
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("seeking to %d of %d: %w", pos, len(r.data), io.ErrUnexpectedEOF)
	}

	r.stream.SetPosition(pos)
	r.pos = pos

	return nil
}

// Skip moves the cursor n bytes forward (or backward for negative n)
func (r *Reader) Skip(n int) error {
	return r.Seek(r.pos + n)
}

func (r *Reader) claim(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("reading %d bytes at %d of %d: %w", n, r.pos, len(r.data), io.ErrUnexpectedEOF)
	}

	return nil
}

// U8 reads one byte
func (r *Reader) U8() (byte, error) {
	if err := r.claim(1); err != nil {
		return 0, err
	}

	v, err := r.stream.Next(1).Bytes().AsByte()
	if err != nil {
		return 0, err
	}

	r.pos++

	return v, nil
}

// I8 reads one signed byte
func (r *Reader) I8() (int8, error) {
	v, err := r.U8()

	return int8(v), err
}

// U16 reads a little-endian uint16
func (r *Reader) U16() (uint16, error) {
	if err := r.claim(2); err != nil {
		return 0, err
	}

	v, err := r.stream.Next(2).Bytes().AsUInt16()
	if err != nil {
		return 0, err
	}

	r.pos += 2

	return v, nil
}

// I16 reads a little-endian int16
func (r *Reader) I16() (int16, error) {
	if err := r.claim(2); err != nil {
		return 0, err
	}

	v, err := r.stream.Next(2).Bytes().AsInt16()
	if err != nil {
		return 0, err
	}

	r.pos += 2

	return v, nil
}

// U16BE reads a big-endian uint16
func (r *Reader) U16BE() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32
func (r *Reader) U32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// Bytes reads the next n bytes
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.claim(n); err != nil {
		return nil, err
	}

	if n == 0 {
		return []byte{}, nil
	}

	b, err := r.stream.Next(n).Bytes().AsBytes()
	if err != nil {
		return nil, err
	}

	r.pos += n

	return b, nil
}
