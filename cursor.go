// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import "encoding/binary"

// Cursor tracks a read position into a byte buffer while the
// deserializer walks it. It is the parser-side counterpart of the
// serializer's output buffer: callers construct one with NewCursor and
// hand it to ParseStruct.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// BytesParsed returns the number of bytes consumed from the start of
// the buffer so far.
func (c *Cursor) BytesParsed() int {
	return c.pos
}

// remaining returns the number of unconsumed bytes left in the buffer.
func (c *Cursor) remaining() int {
	return len(c.buf) - c.pos
}

// bufLen returns the total length of the underlying buffer, independent
// of the current read position.
func (c *Cursor) bufLen() int {
	return len(c.buf)
}

// take advances the cursor by n bytes and returns the consumed slice,
// or an UnexpectedEndOfInput error if fewer than n bytes remain.
func (c *Cursor) take(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, &WireError{Kind: UnexpectedEndOfInput}
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// skipToAlignment advances the cursor past as many bytes as necessary
// to reach the given alignment, without validating their contents
// (padding bytes are never checked to be zero on parse, to accommodate
// future version skew — see the format's design notes).
func (c *Cursor) skipToAlignment(alignment int) error {
	n := bytesToAlign(c.pos, alignment)
	_, err := c.take(n)
	return err
}

func (c *Cursor) readUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) readUint16() (uint16, error) {
	if err := c.skipToAlignment(2); err != nil {
		return 0, err
	}
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) readUint32() (uint32, error) {
	if err := c.skipToAlignment(4); err != nil {
		return 0, err
	}
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) readUint64() (uint64, error) {
	if err := c.skipToAlignment(8); err != nil {
		return 0, err
	}
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readUintWidth reads a little-endian unsigned integer of the given
// byte width (1, 2, 4, or 8), aligning the cursor to width first.
func (c *Cursor) readUintWidth(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := c.readUint8()
		return uint64(v), err
	case 2:
		v, err := c.readUint16()
		return uint64(v), err
	case 4:
		v, err := c.readUint32()
		return uint64(v), err
	case 8:
		return c.readUint64()
	default:
		panic("wirefmt: invalid integer width")
	}
}
