// Package bytecursor provides a bounds-checked sequential reader over an immutable byte buffer.
//
// Every higher decode layer (container, record stream) reads raw bytes through a Cursor.
// A failed read or seek never moves the position.
package bytecursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a read or seek would leave the buffer.
var ErrOutOfRange = errors.New("bytecursor: out of range")

// RangeError describes a rejected read or seek.
type RangeError struct {
	// Op is the operation that failed ("read", "seek").
	Op string

	// Pos is the cursor position when the operation was attempted.
	Pos int

	// Want is the requested byte count (read) or target position (seek).
	Want int

	// Len is the buffer length.
	Len int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Op == "seek" {
		return fmt.Sprintf("bytecursor: seek to %d outside [0, %d]", e.Want, e.Len)
	}
	return fmt.Sprintf("bytecursor: read of %d bytes at offset %d exceeds length %d", e.Want, e.Pos, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Cursor reads sequentially from a buffer it references but does not own.
type Cursor struct {
	buf []byte
	pos int
}

// New creates a cursor positioned at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the buffer length.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// AtEnd reports whether the cursor has consumed the whole buffer.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.buf)
}

// Read returns the next n bytes and advances past them.
// The returned slice aliases the underlying buffer.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, &RangeError{Op: "read", Pos: c.pos, Want: n, Len: len(c.buf)}
	}
	if n == 0 {
		return []byte{}, nil
	}
	out := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return out, nil
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, &RangeError{Op: "read", Pos: c.pos, Want: n, Len: len(c.buf)}
	}
	return c.buf[c.pos : c.pos+n : c.pos+n], nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a 16-bit integer in the given byte order.
func (c *Cursor) ReadU16(order binary.ByteOrder) (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

// ReadU32 reads a 32-bit integer in the given byte order.
func (c *Cursor) ReadU32(order binary.ByteOrder) (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// ReadU64 reads a 64-bit integer in the given byte order.
func (c *Cursor) ReadU64(order binary.ByteOrder) (uint64, error) {
	b, err := c.Read(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE() (uint16, error) { return c.ReadU16(binary.LittleEndian) }

// ReadU16BE reads a big-endian uint16.
func (c *Cursor) ReadU16BE() (uint16, error) { return c.ReadU16(binary.BigEndian) }

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) { return c.ReadU32(binary.LittleEndian) }

// ReadU32BE reads a big-endian uint32.
func (c *Cursor) ReadU32BE() (uint32, error) { return c.ReadU32(binary.BigEndian) }

// ReadU64LE reads a little-endian uint64.
func (c *Cursor) ReadU64LE() (uint64, error) { return c.ReadU64(binary.LittleEndian) }

// ReadU64BE reads a big-endian uint64.
func (c *Cursor) ReadU64BE() (uint64, error) { return c.ReadU64(binary.BigEndian) }

// Seek moves to an absolute position. Seeking to Len() is allowed.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return &RangeError{Op: "seek", Pos: c.pos, Want: pos, Len: len(c.buf)}
	}
	c.pos = pos
	return nil
}

// SeekRelative moves by delta bytes from the current position.
func (c *Cursor) SeekRelative(delta int) error {
	return c.Seek(c.pos + delta)
}
