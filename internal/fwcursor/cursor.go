// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package fwcursor implements spec.md §4.A: a bounded, unaligned, little-endian
byte cursor over a firmware table blob. Every read either returns a value and
advances the cursor, or fails atomically with ErrOverrun — it never performs
pointer arithmetic and never reads past the declared end of the table.
*/
package fwcursor

import (
	"encoding/binary"
	"fmt"
)

// ErrOverrun is returned when a read would cross the cursor's declared end.
type ErrOverrun struct {
	Needed    int
	Available int
}

func (e *ErrOverrun) Error() string {
	return fmt.Sprintf("cursor overrun: needed %d bytes, %d available", e.Needed, e.Available)
}

// Cursor is a bounded byte iterator into a blob's backing array. It never
// outlives the parser invocation that created it, per spec.md §3's Cursor
// lifecycle.
type Cursor struct {
	base []byte // shared, read-only view of the blob's bytes
	end  int    // exclusive upper bound, <= len(base)
	pos  int
}

// New creates a Cursor over data, bounded to the first declaredLen bytes
// (or len(data) if declaredLen exceeds it — callers are expected to have
// already validated Blob.DeclaredLength <= len(data)).
func New(data []byte, declaredLen int) *Cursor {
	end := declaredLen
	if end > len(data) {
		end = len(data)
	}
	if end < 0 {
		end = 0
	}
	return &Cursor{base: data, end: end}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// End returns the cursor's declared end offset.
func (c *Cursor) End() int { return c.end }

// Remaining returns the number of bytes left before End.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// SeekTo moves the cursor to an absolute offset, failing if out of bounds.
func (c *Cursor) SeekTo(offset int) error {
	if offset < 0 || offset > c.end {
		return &ErrOverrun{Needed: offset, Available: c.end}
	}
	c.pos = offset
	return nil
}

// Advance skips n bytes forward without reading them.
func (c *Cursor) Advance(n int) error {
	if n < 0 || c.pos+n > c.end {
		return &ErrOverrun{Needed: c.pos + n, Available: c.end}
	}
	c.pos += n
	return nil
}

func (c *Cursor) checkBounds(offset, n int) error {
	if offset < 0 || n < 0 || offset+n > c.end {
		return &ErrOverrun{Needed: offset + n, Available: c.end}
	}
	return nil
}

// ReadU8At reads a uint8 at an absolute offset without moving the cursor.
func (c *Cursor) ReadU8At(offset int) (uint8, error) {
	if err := c.checkBounds(offset, 1); err != nil {
		return 0, err
	}
	return c.base[offset], nil
}

// ReadU16At reads a little-endian uint16 at an absolute offset.
func (c *Cursor) ReadU16At(offset int) (uint16, error) {
	if err := c.checkBounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.base[offset : offset+2]), nil
}

// ReadU32At reads a little-endian uint32 at an absolute offset.
func (c *Cursor) ReadU32At(offset int) (uint32, error) {
	if err := c.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.base[offset : offset+4]), nil
}

// ReadU64At reads a little-endian uint64 at an absolute offset.
func (c *Cursor) ReadU64At(offset int) (uint64, error) {
	if err := c.checkBounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(c.base[offset : offset+8]), nil
}

// ReadBytesAt returns a read-only view of n bytes at an absolute offset.
// The returned slice aliases the blob's backing array; callers must not
// mutate it (spec.md §3: parsers receive shared, read-only views).
func (c *Cursor) ReadBytesAt(offset, n int) ([]byte, error) {
	if err := c.checkBounds(offset, n); err != nil {
		return nil, err
	}
	return c.base[offset : offset+n], nil
}

// ReadU8 reads a uint8 at the current position and advances the cursor.
func (c *Cursor) ReadU8() (uint8, error) {
	v, err := c.ReadU8At(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++
	return v, nil
}

// ReadU16 reads a little-endian uint16 at the current position and advances.
func (c *Cursor) ReadU16() (uint16, error) {
	v, err := c.ReadU16At(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32 at the current position and advances.
func (c *Cursor) ReadU32() (uint32, error) {
	v, err := c.ReadU32At(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64 at the current position and advances.
func (c *Cursor) ReadU64() (uint64, error) {
	v, err := c.ReadU64At(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 8
	return v, nil
}

// ReadBytes returns n bytes at the current position and advances the cursor.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	v, err := c.ReadBytesAt(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return v, nil
}

// PeekAsciiFixed returns n bytes at an absolute offset interpreted as a
// fixed-width ASCII field (not NUL-terminated; trailing NULs/spaces are
// preserved as-is — callers trim as needed).
func (c *Cursor) PeekAsciiFixed(offset, n int) (string, error) {
	b, err := c.ReadBytesAt(offset, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PeekAsciiCStr reads a NUL-terminated ASCII string starting at offset,
// scanning at most max bytes for the terminator. If no NUL is found within
// max bytes, the field overruns per spec.md §4.A and ErrOverrun is returned.
func (c *Cursor) PeekAsciiCStr(offset, max int) (string, error) {
	limit := offset + max
	if err := c.checkBounds(offset, 0); err != nil {
		return "", err
	}
	if limit > c.end {
		limit = c.end
	}
	for i := offset; i < limit; i++ {
		if c.base[i] == 0 {
			return string(c.base[offset:i]), nil
		}
	}
	return "", &ErrOverrun{Needed: max, Available: limit - offset}
}
